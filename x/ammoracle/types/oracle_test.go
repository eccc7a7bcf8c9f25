package types

import (
	"fmt"
	"testing"
)

// mapObservationStore is an in-memory ObservationStore for unit tests,
// standing in for the keeper's KVStore-backed implementation.
type mapObservationStore map[uint16]AccumulatedObservation

func (m mapObservationStore) GetObservation(index uint16) (AccumulatedObservation, bool) {
	obs, ok := m[index]
	return obs, ok
}

func (m mapObservationStore) SetObservation(index uint16, obs AccumulatedObservation) {
	m[index] = obs
}

func newTestOracle(limit uint16) *Oracle {
	return NewOracle(make(mapObservationStore), limit)
}

// testPrices are 20 distinct, monotonically varying square-root prices,
// standing in for the spec's fixed reference dataset.
func testPrices() []HighDecimal {
	prices := make([]HighDecimal, 20)
	for i := range prices {
		prices[i] = MustNewHighDecimalFromString(fmt.Sprintf("%d.5", i+1))
	}
	return prices
}

func mustObserve(t *testing.T, o *Oracle, price HighDecimal, seconds int64) {
	t.Helper()
	if err := o.Observe(price, InstantFromUnixSeconds(seconds)); err != nil {
		t.Fatalf("Observe(%s, %d) failed: %v", price.String(), seconds, err)
	}
}

// Scenario 1: single minute, single second, multi-swap.
func TestObserve_SingleSecondMultiSwap(t *testing.T) {
	o := newTestOracle(100)
	p := testPrices()

	mustObserve(t, o, p[0], 90)
	mustObserve(t, o, p[1], 90)
	mustObserve(t, o, p[2], 90)
	mustObserve(t, o, p[3], 120)

	obs, err := o.Observation(120, InstantFromUnixSeconds(120))
	if err != nil {
		t.Fatalf("Observation(120) failed: %v", err)
	}
	if obs.Timestamp != 120 {
		t.Errorf("expected timestamp 120, got %d", obs.Timestamp)
	}

	want, err := FloorLn(p[2])
	if err != nil {
		t.Fatalf("FloorLn failed: %v", err)
	}
	if !obs.PriceSqrtLogAcc.Equal(want) {
		t.Errorf("expected log_acc %s, got %s", want.String(), obs.PriceSqrtLogAcc.String())
	}
}

// Scenario 3: minute rollover with a leaked price across the boundary.
func TestObserve_MinuteRolloverLeak(t *testing.T) {
	o := newTestOracle(100)
	p := testPrices()

	mustObserve(t, o, p[0], 70)
	mustObserve(t, o, p[1], 75)
	mustObserve(t, o, p[2], 85)
	mustObserve(t, o, p[3], 125)
	mustObserve(t, o, p[4], 135)

	if o.ObservationsStored() != 1 {
		t.Fatalf("expected 1 stored observation, got %d", o.ObservationsStored())
	}

	obs, ok := o.Store.GetObservation(0)
	if !ok {
		t.Fatal("expected observation at index 0")
	}
	if obs.Timestamp != 2 {
		t.Errorf("expected timestamp minute 2, got %d", obs.Timestamp)
	}

	weighted := p[0].MulInt64(5).Add(p[1].MulInt64(10)).Add(p[2].MulInt64(35)).QuoInt64(50)
	want, err := FloorLn(weighted)
	if err != nil {
		t.Fatalf("FloorLn failed: %v", err)
	}
	if !obs.PriceSqrtLogAcc.Equal(want) {
		t.Errorf("expected log_acc %s, got %s", want.String(), obs.PriceSqrtLogAcc.String())
	}
}

// Scenario 4: multi-minute gap with no swaps in between.
func TestObserve_MultiMinuteGap(t *testing.T) {
	o := newTestOracle(100)
	p := testPrices()

	mustObserve(t, o, p[0], 123)
	mustObserve(t, o, p[1], 607)

	if o.ObservationsStored() != 1 {
		t.Fatalf("expected 1 stored observation, got %d", o.ObservationsStored())
	}

	obs, ok := o.Store.GetObservation(0)
	if !ok {
		t.Fatal("expected observation at index 0")
	}
	if obs.Timestamp != 10 {
		t.Errorf("expected timestamp minute 10, got %d", obs.Timestamp)
	}

	avgMinute2 := p[0].QuoInt64(1)
	finalizedLog, err := FloorLn(avgMinute2)
	if err != nil {
		t.Fatalf("FloorLn failed: %v", err)
	}
	lastLog, err := FloorLn(p[0])
	if err != nil {
		t.Fatalf("FloorLn failed: %v", err)
	}
	want := finalizedLog.Add(lastLog.MulInt64(7))
	if !obs.PriceSqrtLogAcc.Equal(want) {
		t.Errorf("expected log_acc %s, got %s", want.String(), obs.PriceSqrtLogAcc.String())
	}
}

// Scenario 6: out-of-range rejection.
func TestObservation_OutOfRangeRejected(t *testing.T) {
	o := newTestOracle(100)
	p := testPrices()

	minute := int64(2)
	for ; minute <= 19; minute++ {
		mustObserve(t, o, p[minute%int64(len(p))], minute*SecondsPerMinute+30)
	}
	now := InstantFromUnixSeconds(minute * SecondsPerMinute)

	if _, err := o.Observation(9*SecondsPerMinute, now); err != nil {
		t.Errorf("expected Observation(9m) to succeed, got %v", err)
	}

	if _, err := o.Observation(1*SecondsPerMinute, now); err != ErrTimestampOutOfRange {
		t.Errorf("expected ErrTimestampOutOfRange, got %v", err)
	}
}

// Ring wrap-around: after observations_limit + k minute-producing observe
// events, the ring retains exactly the most recent observations_limit
// distinct minutes.
func TestOracle_RingWrapAround(t *testing.T) {
	const limit = 5
	o := newTestOracle(limit)
	p := testPrices()

	totalMinutes := limit + 3
	for m := 0; m <= totalMinutes; m++ {
		mustObserve(t, o, p[m%len(p)], int64(m)*SecondsPerMinute+1)
	}

	if o.ObservationsStored() != limit {
		t.Fatalf("expected ring full at %d, got %d", limit, o.ObservationsStored())
	}

	lastIndex, ok := o.LastObservationIndex()
	if !ok {
		t.Fatal("expected a last observation index")
	}
	wantIndex := uint16((totalMinutes - 1) % limit)
	if lastIndex != wantIndex {
		t.Errorf("expected last_observation_index %d, got %d", wantIndex, lastIndex)
	}

	oldestTs, ok := o.OldestObservationTimestamp()
	if !ok {
		t.Fatal("expected an oldest observation timestamp")
	}
	wantOldest := int64(totalMinutes - limit + 1)
	if oldestTs != wantOldest {
		t.Errorf("expected oldest timestamp %d, got %d", wantOldest, oldestTs)
	}
}

// Binary search + interpolation over in-history queries.
func TestOracle_BinarySearchInterpolation(t *testing.T) {
	o := newTestOracle(100)
	p := testPrices()

	// Anchor the sub-observer in minute 3, then close minutes 4..13 one
	// call at a time so each produced observation is timestamped with the
	// closing call's own minute (spec §4.2's create_observation), leaving
	// the ring holding exactly minutes 4..13 inclusive.
	mustObserve(t, o, p[0], 3*SecondsPerMinute+1)
	for m := 4; m <= 13; m++ {
		mustObserve(t, o, p[m%len(p)], int64(m)*SecondsPerMinute+1)
	}
	now := InstantFromUnixSeconds(14 * SecondsPerMinute)

	intervals, err := o.ObservationIntervals([][2]int64{
		{4 * SecondsPerMinute, 13 * SecondsPerMinute},
		{5 * SecondsPerMinute, 7 * SecondsPerMinute},
	}, now)
	if err != nil {
		t.Fatalf("ObservationIntervals failed: %v", err)
	}
	if len(intervals) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(intervals))
	}
	for _, interval := range intervals {
		if interval.PriceSqrt.IsNil() || !interval.PriceSqrt.IsPositive() {
			t.Errorf("expected a positive price_sqrt for [%d,%d), got %s", interval.Start, interval.End, interval.PriceSqrt.String())
		}
	}
}

// Binary search narrows to a non-exact bracket and linearly interpolates
// the log-accumulator between the two adjacent stored minutes.
func TestOracle_BinarySearchInterpolation_NonExactTarget(t *testing.T) {
	o := newTestOracle(100)
	p := testPrices()

	// One observe per even minute, each separated by a 2-minute gap, so
	// the ring holds 4, 6, 8, 10, 12 and every odd minute in between must
	// be interpolated.
	mustObserve(t, o, p[0], 3*SecondsPerMinute+1)
	for _, m := range []int64{4, 6, 8, 10, 12} {
		mustObserve(t, o, p[m%int64(len(p))], m*SecondsPerMinute+1)
	}
	now := InstantFromUnixSeconds(13 * SecondsPerMinute)

	obs, err := o.Observation(7*SecondsPerMinute, now)
	if err != nil {
		t.Fatalf("Observation(7m) failed: %v", err)
	}
	if obs.Timestamp != 7*SecondsPerMinute {
		t.Errorf("expected timestamp %d, got %d", 7*SecondsPerMinute, obs.Timestamp)
	}

	left, _ := o.Observation(6*SecondsPerMinute, now)
	right, _ := o.Observation(8*SecondsPerMinute, now)
	want := LinearInterpolation(6, 8, left.PriceSqrtLogAcc, right.PriceSqrtLogAcc, 7)
	if !obs.PriceSqrtLogAcc.Equal(want) {
		t.Errorf("expected interpolated log_acc %s, got %s", want.String(), obs.PriceSqrtLogAcc.String())
	}
}

// EmptyInterval: a pair that floors to the same minute is rejected.
func TestObservationInterval_EmptyIntervalRejected(t *testing.T) {
	o := newTestOracle(100)
	p := testPrices()
	mustObserve(t, o, p[0], 30)

	_, err := o.ObservationInterval(10, 20, InstantFromUnixSeconds(30))
	if err != ErrEmptyInterval {
		t.Errorf("expected ErrEmptyInterval, got %v", err)
	}
}

// QueryBeforeAnyObservation: querying an oracle with nothing stored fails.
func TestObservation_BeforeAnyObservationRejected(t *testing.T) {
	o := newTestOracle(100)
	_, err := o.Observation(0, InstantFromUnixSeconds(0))
	if err != ErrQueryBeforeAnyObservation {
		t.Errorf("expected ErrQueryBeforeAnyObservation, got %v", err)
	}
}

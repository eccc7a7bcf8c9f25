package types

import (
	"fmt"
	"sort"

	"cosmossdk.io/math"
)

// ObservationStore is the ring's storage boundary: a flat, index-addressed
// slot store with ObservationsLimit slots, persisted outside this package
// (the keeper backs it with a KVStore; tests back it with a plain map).
// Oracle only ever reasons about slots through this interface, so the
// state machine in this file stays storage-agnostic and unit-testable
// without standing up a KVStore.
type ObservationStore interface {
	GetObservation(index uint16) (AccumulatedObservation, bool)
	SetObservation(index uint16, obs AccumulatedObservation)
}

// Oracle is the pure state machine described by spec §4: a fixed-capacity
// ring of minute-aligned log-accumulator points plus the live open-minute
// accumulator. It holds no clock of its own — every operation takes the
// current Instant explicitly, as supplied by the caller's block time.
type Oracle struct {
	Meta  OracleMeta
	Store ObservationStore
}

// NewOracle constructs an empty oracle over an existing store, with the
// given fixed ring capacity.
func NewOracle(store ObservationStore, observationsLimit uint16) *Oracle {
	return &Oracle{
		Meta:  NewOracleMeta(observationsLimit),
		Store: store,
	}
}

// Observe records a newly observed price_sqrt at instant now (spec §4.1).
// On the first ever call it lazily creates the sub-minute accumulator.
// When now falls in the same minute as the accumulator's last update, it
// folds the observation into the running sum. When now has crossed one or
// more minute boundaries since the last update, it first finalizes and
// inserts the minute that just closed (spanning however many whole
// minutes elapsed, when swap-less minutes were skipped entirely) and only
// then folds in the new observation.
func (o *Oracle) Observe(priceSqrt HighDecimal, now Instant) error {
	if o.Meta.SubObservations == nil {
		o.Meta.SubObservations = NewSubObservations(now)
		o.Meta.SubObservations.Observe(now, priceSqrt)
		return nil
	}

	sub := o.Meta.SubObservations
	if now.Minutes() == sub.LastUpdated.Minutes() {
		sub.Observe(now, priceSqrt)
		return nil
	}

	if err := o.createAndInsertObservation(now); err != nil {
		return err
	}
	sub.Observe(now, priceSqrt)
	return nil
}

// createAndInsertObservation closes out the minute that elapsed before now
// and inserts the resulting observation into the ring (spec §4.2's
// create_observation + insert_observation).
func (o *Oracle) createAndInsertObservation(now Instant) error {
	sub := o.Meta.SubObservations
	anchorMinute := sub.LastUpdated.Minutes()
	nowMinutes := now.Minutes()
	minutesSinceLast := nowMinutes - anchorMinute

	finalized := sub.Finalize(now)

	obs, err := o.createObservation(nowMinutes, finalized, sub.PriceSqrtLast, minutesSinceLast)
	if err != nil {
		return err
	}
	o.insertObservation(obs)
	return nil
}

// createObservation builds the new ring entry for the minute that just
// closed, per spec §4.2's accumulated_log(acc, finalized, last, n). Case A
// (ring still empty) starts the accumulator at 0. Case B reads the
// previous newest entry's accumulator and extends it. minutesSinceLast
// (n) is the number of minutes between the anchor minute that was just
// finalized and the minute being created, and applies identically in
// both cases: it already accounts for any further minutes that elapsed
// with no swap activity at all.
func (o *Oracle) createObservation(minute int64, finalized, lastValue HighDecimal, minutesSinceLast int64) (AccumulatedObservation, error) {
	acc := math.LegacyZeroDec()
	if o.Meta.ObservationsStored > 0 {
		prev, ok := o.Store.GetObservation(*o.Meta.LastObservationIndex)
		if !ok {
			return AccumulatedObservation{}, fmt.Errorf("ammoracle: missing observation at index %d", *o.Meta.LastObservationIndex)
		}
		acc = prev.PriceSqrtLogAcc
	}

	logVal, err := AccumulatedLog(acc, finalized, lastValue, minutesSinceLast)
	if err != nil {
		return AccumulatedObservation{}, err
	}
	return AccumulatedObservation{Timestamp: minute, PriceSqrtLogAcc: logVal}, nil
}

// insertObservation writes obs into the ring's next slot and advances the
// ring's bookkeeping (spec §4.2's insert_observation).
func (o *Oracle) insertObservation(obs AccumulatedObservation) {
	index := o.Meta.NextIndex()
	o.Store.SetObservation(index, obs)

	o.Meta.LastObservationIndex = &index
	if o.Meta.ObservationsStored < o.Meta.ObservationsLimit {
		o.Meta.ObservationsStored++
	}
}

// ObservationsLimit returns the ring's fixed capacity.
func (o *Oracle) ObservationsLimit() uint16 { return o.Meta.ObservationsLimit }

// ObservationsStored returns the count of valid ring slots.
func (o *Oracle) ObservationsStored() uint16 { return o.Meta.ObservationsStored }

// LastObservationIndex returns the ring slot of the newest entry, if any.
func (o *Oracle) LastObservationIndex() (uint16, bool) {
	if o.Meta.LastObservationIndex == nil {
		return 0, false
	}
	return *o.Meta.LastObservationIndex, true
}

// OldestObservationTimestamp returns the minute timestamp of the oldest
// retained observation, per spec §6.
func (o *Oracle) OldestObservationTimestamp() (int64, bool) {
	idx, ok := o.Meta.OldestIndex()
	if !ok {
		return 0, false
	}
	obs, ok := o.Store.GetObservation(idx)
	if !ok {
		return 0, false
	}
	return obs.Timestamp, true
}

// accumulatorAt answers the internal question every query ultimately
// reduces to: what is the log-accumulator's value at minute
// targetMinutes, as of now? (spec §4.2's observation_internal.)
//
// Three branches, selected by where targetMinutes falls relative to the
// ring's contents:
//   - exact hit on a minute actually present in the ring: return its
//     stored value directly.
//   - after the newest stored minute (including the live, not-yet-closed
//     minute): live extrapolation using the in-progress sub-observation
//     accumulator.
//   - before the newest stored minute: binary search over the ring for
//     the bracketing pair, then linear interpolation between them.
func (o *Oracle) accumulatorAt(targetMinutes int64, now Instant) (math.LegacyDec, error) {
	if o.Meta.ObservationsStored == 0 {
		return math.LegacyDec{}, ErrQueryBeforeAnyObservation
	}

	nowMinutes := now.Minutes()
	if targetMinutes > nowMinutes || targetMinutes < 0 {
		return math.LegacyDec{}, ErrTimestampOutOfRange
	}

	oldestTimestamp, _ := o.OldestObservationTimestamp()
	if targetMinutes < oldestTimestamp {
		return math.LegacyDec{}, ErrTimestampOutOfRange
	}

	lastIndex := *o.Meta.LastObservationIndex
	last, ok := o.Store.GetObservation(lastIndex)
	if !ok {
		return math.LegacyDec{}, fmt.Errorf("ammoracle: missing observation at index %d", lastIndex)
	}

	switch {
	case targetMinutes == last.Timestamp:
		return last.PriceSqrtLogAcc, nil
	case targetMinutes > last.Timestamp:
		return o.liveExtrapolate(last, targetMinutes, now)
	default:
		return o.binarySearchAndInterpolate(targetMinutes)
	}
}

// liveExtrapolate answers a query for a minute at or after the live,
// not-yet-closed minute using the in-progress sub-observation accumulator
// rather than anything stored in the ring (spec §5's live extrapolation).
func (o *Oracle) liveExtrapolate(last AccumulatedObservation, targetMinutes int64, now Instant) (math.LegacyDec, error) {
	sub := o.Meta.SubObservations
	if sub == nil {
		return math.LegacyDec{}, ErrQueryBeforeAnyObservation
	}

	preview, err := sub.FinalizePreview()
	if err != nil {
		return math.LegacyDec{}, err
	}

	minutesSinceLast := targetMinutes - last.Timestamp
	return AccumulatedLog(last.PriceSqrtLogAcc, preview, sub.PriceSqrtLast, minutesSinceLast)
}

// binarySearchAndInterpolate locates the two adjacent ring entries
// bracketing targetMinutes and linearly interpolates the accumulator
// between them (spec §4.2). The ring is searched logically from oldest to
// newest: "left" and "right" below are positions in that logical
// ascending-timestamp ordering, translated to physical ring indices modulo
// ObservationsStored (not ObservationsLimit — a partially filled ring is
// searched over only its valid prefix).
//
// Loop invariant: observation_at(left) <= target <= observation_at(right),
// narrowing until mid == left, at which point (left, right) already
// brackets the target exactly (adjacent, or the whole remaining range
// when the ring holds only two entries) and interpolation applies
// directly, with no further ±1 bracket adjustment needed.
func (o *Oracle) binarySearchAndInterpolate(targetMinutes int64) (math.LegacyDec, error) {
	stored := o.Meta.ObservationsStored
	oldestIndex, _ := o.Meta.OldestIndex()

	at := func(logical uint16) (AccumulatedObservation, error) {
		idx := (oldestIndex + logical) % stored
		obs, ok := o.Store.GetObservation(idx)
		if !ok {
			return AccumulatedObservation{}, fmt.Errorf("ammoracle: missing observation at logical position %d", logical)
		}
		return obs, nil
	}

	var left, right uint16 = 0, stored - 1
	for {
		mid := left + (right-left)/2
		obsMid, err := at(mid)
		if err != nil {
			return math.LegacyDec{}, err
		}

		if obsMid.Timestamp == targetMinutes {
			return obsMid.PriceSqrtLogAcc, nil
		}

		if mid == left {
			obsRight, err := at(right)
			if err != nil {
				return math.LegacyDec{}, err
			}
			if obsRight.Timestamp == targetMinutes {
				return obsRight.PriceSqrtLogAcc, nil
			}
			return LinearInterpolation(obsMid.Timestamp, obsRight.Timestamp, obsMid.PriceSqrtLogAcc, obsRight.PriceSqrtLogAcc, targetMinutes), nil
		}

		if obsMid.Timestamp < targetMinutes {
			left = mid
		} else {
			right = mid
		}
	}
}

// Observation is the front door for point queries (spec §4.2's
// observation(seconds)): floor seconds to its containing minute, resolve
// the log-accumulator at that minute, and return the result with its
// timestamp restated in seconds.
func (o *Oracle) Observation(seconds int64, now Instant) (AccumulatedObservation, error) {
	targetMinutes := InstantFromUnixSeconds(seconds).Minutes()
	acc, err := o.accumulatorAt(targetMinutes, now)
	if err != nil {
		return AccumulatedObservation{}, err
	}
	return AccumulatedObservation{Timestamp: targetMinutes * SecondsPerMinute, PriceSqrtLogAcc: acc}, nil
}

// ObservationInterval computes the geometric-mean price_sqrt over
// [startSeconds, endSeconds) (spec §4.2's observation_intervals, single
// pair). startSeconds and endSeconds are floored to their containing
// minute before evaluation, and the returned Start and End are those
// floored minutes restated in seconds.
func (o *Oracle) ObservationInterval(startSeconds, endSeconds int64, now Instant) (ObservationInterval, error) {
	startMinute := InstantFromUnixSeconds(startSeconds).Minutes()
	endMinute := InstantFromUnixSeconds(endSeconds).Minutes()
	if startMinute >= endMinute {
		return ObservationInterval{}, ErrEmptyInterval
	}

	accStart, err := o.accumulatorAt(startMinute, now)
	if err != nil {
		return ObservationInterval{}, err
	}
	accEnd, err := o.accumulatorAt(endMinute, now)
	if err != nil {
		return ObservationInterval{}, err
	}

	priceSqrt, err := GeometricMean(startMinute, endMinute, accStart, accEnd)
	if err != nil {
		return ObservationInterval{}, err
	}

	return ObservationInterval{Start: startMinute * SecondsPerMinute, End: endMinute * SecondsPerMinute, PriceSqrt: priceSqrt}, nil
}

// ObservationIntervals batches ObservationInterval over many pairs,
// returning results ordered by Start. A single invalid pair fails the
// whole batch, matching spec §7's all-or-nothing query semantics.
func (o *Oracle) ObservationIntervals(pairs [][2]int64, now Instant) ([]ObservationInterval, error) {
	out := make([]ObservationInterval, 0, len(pairs))
	for _, p := range pairs {
		interval, err := o.ObservationInterval(p[0], p[1], now)
		if err != nil {
			return nil, err
		}
		out = append(out, interval)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

package types

import "cosmossdk.io/math"

// AccumulatedObservation is one minute-aligned point in the oracle's
// stored ring: a timestamp (in minutes) and the monotone running
// logarithmic accumulator at that minute (spec §3).
type AccumulatedObservation struct {
	Timestamp        int64          `json:"timestamp"`
	PriceSqrtLogAcc  math.LegacyDec `json:"price_sqrt_log_acc"`
}

// ObservationInterval is the geometric-mean price_sqrt computed over
// [Start, End) (both in Unix seconds), per observation_intervals.
type ObservationInterval struct {
	Start     int64          `json:"start"`
	End       int64          `json:"end"`
	PriceSqrt math.LegacyDec `json:"price_sqrt"`
}

// AccumulatedLog computes the new running log-accumulator value for a
// minute that just closed (spec §4.2's create_observation).
//
// finalized is the time-weighted average price_sqrt for the minute that
// just ended; lastValue is the in-force price carried forward across any
// further swap-less minutes; minutesSinceLast is the number of minutes
// between the previous stored (or live) observation and this one, and
// must be >= 1.
//
// The (minutesSinceLast - 1) term attributes one finalized-minute
// contribution to the minute that just closed, and one in-force-price
// contribution to every further minute that elapsed with no swap
// activity at all.
func AccumulatedLog(acc math.LegacyDec, finalized, lastValue HighDecimal, minutesSinceLast int64) (math.LegacyDec, error) {
	if minutesSinceLast < 1 {
		minutesSinceLast = 1
	}

	finalizedLog, err := FloorLn(finalized)
	if err != nil {
		return math.LegacyDec{}, err
	}
	lastValueLog, err := FloorLn(lastValue)
	if err != nil {
		return math.LegacyDec{}, err
	}

	return acc.Add(finalizedLog).Add(lastValueLog.MulInt64(minutesSinceLast - 1)), nil
}

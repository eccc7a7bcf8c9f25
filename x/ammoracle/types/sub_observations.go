package types

import "fmt"

// SubObservations accumulates, for the currently open minute only, a
// time-weighted running sum of square-root prices together with the most
// recently observed price (spec §3, §4.1).
type SubObservations struct {
	// PriceSqrtSum is the partial sum of price_sqrt_last * seconds_held
	// within the currently open minute.
	PriceSqrtSum HighDecimal `json:"price_sqrt_sum"`
	// PriceSqrtLast is the most recently observed square-root price. It
	// leaks into the next minute as the initial in-force price.
	PriceSqrtLast HighDecimal `json:"price_sqrt_last"`
	// LastUpdated is the instant of the last accumulation step.
	LastUpdated Instant `json:"last_updated"`
	// Initialization is set when the accumulator is first created and
	// cleared the first time Finalize runs.
	Initialization *Instant `json:"initialization,omitempty"`
}

// NewSubObservations creates a fresh sub-minute accumulator anchored at
// now. Called lazily on the very first observe.
func NewSubObservations(now Instant) *SubObservations {
	init := now
	return &SubObservations{
		PriceSqrtSum:   ZeroHighDecimal(),
		PriceSqrtLast:  ZeroHighDecimal(),
		LastUpdated:    now,
		Initialization: &init,
	}
}

// Observe updates the accumulator with a newly observed price_sqrt,
// time-weighting the previous price by the seconds it remained in force.
//
// When multiple swaps occur within the same second, only the last one's
// price counts for that second — the engine cannot know which swap will
// be the last until the second closes, so it simply overwrites
// PriceSqrtLast unconditionally and only folds the previous price into
// the sum once the clock actually advances.
func (s *SubObservations) Observe(now Instant, priceSqrt HighDecimal) {
	if !now.Equal(s.LastUpdated) {
		delta := now.SecondsMarginal() - s.LastUpdated.SecondsMarginal()
		s.PriceSqrtSum = s.PriceSqrtSum.Add(s.PriceSqrtLast.MulInt64(delta))
		s.LastUpdated = now
	}
	s.PriceSqrtLast = priceSqrt
}

// Finalize closes out the minute that just ended, returning its
// time-weighted average price_sqrt, and resets the accumulator for the
// new minute. now must be the instant at which the minute boundary was
// observed to have been crossed (i.e. the first observe call in the new
// minute).
func (s *SubObservations) Finalize(now Instant) HighDecimal {
	var duration int64
	if s.Initialization != nil {
		duration = SecondsPerMinute - s.Initialization.SecondsMarginal()
		s.Initialization = nil
	} else {
		duration = SecondsPerMinute
	}

	average := s.priceSqrtAverage(duration)

	// Reset for the new minute. last_updated is pinned to the minute
	// boundary itself so the first swap of the new minute is weighted
	// from second 0, not from whatever second the previous minute ended
	// observing at.
	s.LastUpdated = now.RoundedToMinutes()
	s.PriceSqrtSum = ZeroHighDecimal()

	return average
}

// FinalizePreview previews the time-weighted average assuming a full
// 60-second denominator, without mutating state. Used by live
// extrapolation queries for timestamps after the last stored minute.
// Requires that at least one full minute has already been finalized.
func (s *SubObservations) FinalizePreview() (HighDecimal, error) {
	if s.Initialization != nil {
		return HighDecimal{}, fmt.Errorf("%w", ErrPreviewBeforeFirstFinalize)
	}
	return s.priceSqrtAverage(SecondsPerMinute), nil
}

// priceSqrtAverage computes the time-weighted average price_sqrt over
// duration seconds, folding in the tail contribution of the still-in-force
// last price from LastUpdated's second to the end of the minute.
func (s *SubObservations) priceSqrtAverage(duration int64) HighDecimal {
	tail := SecondsPerMinute - s.LastUpdated.SecondsMarginal()
	sum := s.PriceSqrtSum.Add(s.PriceSqrtLast.MulInt64(tail))
	return sum.QuoInt64(duration)
}

package types

import (
	"cosmossdk.io/errors"
)

// Module error codes.
var (
	ErrQueryBeforeAnyObservation = errors.Register("ammoracle", 1, "no observation has been recorded yet")
	ErrTimestampOutOfRange       = errors.Register("ammoracle", 2, "timestamp is outside the observable range")
	ErrEmptyInterval             = errors.Register("ammoracle", 3, "interval does not span a minute boundary")
	ErrPreviewBeforeFirstFinalize = errors.Register("ammoracle", 4, "cannot preview the sub-minute average before the first minute has finalized")
	ErrAccessDenied              = errors.Register("ammoracle", 5, "caller is not authorized to submit observations")
	ErrInvalidObservationsLimit  = errors.Register("ammoracle", 6, "observations_limit must be at least 1")
	ErrInvalidPriceSqrt          = errors.Register("ammoracle", 7, "price_sqrt must be a positive decimal")
	ErrNonFiniteLogarithm        = errors.Register("ammoracle", 8, "natural logarithm is not finite for the given input")
)

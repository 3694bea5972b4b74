package scoring

import "errors"

// Sentinel kinds for weight validation errors.
var (
	ErrNegativeWeight = errors.New("negative weight")
	ErrZeroWeights    = errors.New("weights sum to zero")
)

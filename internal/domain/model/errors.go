package model

import "errors"

// Sentinel kinds for model validation errors.
var (
	ErrInvalidSizeBucket = errors.New("invalid size bucket")
	ErrMissingField      = errors.New("missing required field")
)

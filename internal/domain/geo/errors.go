package geo

import "errors"

// Sentinel kinds for geo errors.
var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

package ingest

import "errors"

// Sentinel kinds for ingest errors.
var (
	ErrMissingColumn = errors.New("missing required csv column")
	ErrBadRow        = errors.New("malformed csv row")
)

package cluster

import "errors"

// Sentinel kinds for cluster model errors.
var (
	ErrBadArtifact       = errors.New("bad model artifact")
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
)

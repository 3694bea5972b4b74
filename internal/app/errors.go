package service

import "errors"

// Sentinel kinds for request handling errors.
var (
	ErrValidation = errors.New("invalid request")
)

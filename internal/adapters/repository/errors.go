package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("club not found")
	ErrMissingOrgNr = errors.New("company has no organization number")
)

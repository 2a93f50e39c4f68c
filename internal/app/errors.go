package service

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrInvalidEvent = errors.New("invalid event")
)

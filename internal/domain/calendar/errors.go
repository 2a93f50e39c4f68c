package calendar

import "errors"

// Sentinel error kinds for this package. Invalid grid inputs are caller
// bugs; they are reported, never clamped.
var (
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidYear      = errors.New("invalid year")
	ErrInvalidWeekStart = errors.New("invalid week start")
	ErrInvalidDirection = errors.New("invalid navigation direction")
)

package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package.
var (
	ErrMalformedDate   = errors.New("malformed date; want YYYY-MM-DD")
	ErrMissingField    = errors.New("missing required field")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidID       = errors.New("invalid event id")
)

// DateError identifies the event whose date could not be parsed.
type DateError struct {
	EventID string
	Value   string
	Err     error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("event %q: invalid date %q: %v", e.EventID, e.Value, e.Err)
}

func (e *DateError) Unwrap() error { return e.Err }

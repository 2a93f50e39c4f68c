package ics

import "time"

// Option configures an Encoder.
type Option func(*Encoder)

// WithName sets the calendar display name.
func WithName(name string) Option {
	return func(e *Encoder) {
		if name != "" {
			e.name = name
		}
	}
}

// WithProdID sets the PRODID property.
func WithProdID(id string) Option {
	return func(e *Encoder) {
		if id != "" {
			e.prodID = id
		}
	}
}

// WithLocation sets the zone all-day events are anchored in.
func WithLocation(loc *time.Location) Option {
	return func(e *Encoder) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithClock sets the source of DTSTAMP.
func WithClock(clock func() time.Time) Option {
	return func(e *Encoder) {
		if clock != nil {
			e.clock = clock
		}
	}
}

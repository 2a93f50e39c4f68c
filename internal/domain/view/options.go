package view

import "time"

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithWeekStart sets which weekday heads the grid.
func WithWeekStart(d time.Weekday) Option {
	return func(b *Builder) {
		b.weekStart = d
	}
}

// WithLabelLookup sets the pass-through translation for weekday labels.
func WithLabelLookup(lookup func(string) string) Option {
	return func(b *Builder) {
		b.labels = lookup
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(b *Builder) {
		if clock != nil {
			b.clock = clock
		}
	}
}

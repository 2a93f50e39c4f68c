package repository

// Option applies a configuration option to a MemoryStore.
type Option func(*options)

type options struct {
	name     string
	capacity int
	metrics  bool
}

// WithName labels the store in metrics and logs, e.g. "events".
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithCapacity preallocates room for n records.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithMetrics toggles Prometheus instrumentation of store operations.
func WithMetrics(enabled bool) Option {
	return func(o *options) {
		o.metrics = enabled
	}
}

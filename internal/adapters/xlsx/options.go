package xlsx

// Option configures Import and Export.
type Option func(*options)

type options struct {
	maxRows int
	sheet   string
}

func defaults(opts []Option) options {
	o := options{maxRows: 5000, sheet: "Events"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMaxRows caps the number of data rows Import reads. Rows past the cap
// are skipped and the report is marked truncated.
func WithMaxRows(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRows = n
		}
	}
}

// WithSheet names the sheet Export writes. Import always reads the first sheet.
func WithSheet(name string) Option {
	return func(o *options) {
		if name != "" {
			o.sheet = name
		}
	}
}

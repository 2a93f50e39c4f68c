package service

import (
	"time"

	repository "github.com/okian/holical/internal/adapters/repository"
	"github.com/okian/holical/internal/domain/model"
	"github.com/okian/holical/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWeekStart sets the first column of every month grid.
func WithWeekStart(d time.Weekday) Option {
	return func(s *Service) {
		if d >= time.Sunday && d <= time.Saturday {
			s.weekStart = d
		}
	}
}

// WithLocation sets the zone used to decide which day is today.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithClock replaces time.Now; tests pin it to a fixed instant.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithInitialMonth sets the month shown when a caller names none. A zero
// year or month keeps the default of the current month.
func WithInitialMonth(year int, month time.Month) Option {
	return func(s *Service) {
		if year > 0 && month >= time.January && month <= time.December {
			s.initialYear = year
			s.initialMonth = month
		}
	}
}

// WithSeedDemo fills the repository with demo holidays on Start.
func WithSeedDemo(enabled bool) Option {
	return func(s *Service) {
		s.seedDemo = enabled
	}
}

// WithMaxImportRows caps the rows read from one spreadsheet.
func WithMaxImportRows(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxImportRows = n
		}
	}
}

// WithCalendarName sets the name used by exports.
func WithCalendarName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.calendarName = name
		}
	}
}

// WithLabelLookup sets the weekday label translation hook.
func WithLabelLookup(lookup func(string) string) Option {
	return func(s *Service) {
		s.labels = lookup
	}
}

// WithIDGenerator replaces the UUID generator used for new events.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithRepository replaces the in-memory event store. open is called on
// every Start; the store is closed on Stop when it implements io.Closer.
func WithRepository(open func() repository.Repository[model.CalendarEvent]) Option {
	return func(s *Service) {
		if open != nil {
			s.openStore = open
		}
	}
}

// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/holical/internal/adapters/ics"
	repository "github.com/okian/holical/internal/adapters/repository"
	"github.com/okian/holical/internal/adapters/xlsx"
	"github.com/okian/holical/internal/domain/calendar"
	"github.com/okian/holical/internal/domain/model"
	"github.com/okian/holical/internal/domain/types"
	"github.com/okian/holical/internal/domain/view"
	"github.com/okian/holical/pkg/logger"
	"github.com/okian/holical/pkg/metrics"
)

const storeName = "events"

var _ repository.Repository[model.CalendarEvent] = (*repository.MemoryStore[model.CalendarEvent])(nil)

// Service implements the API dependencies for the holiday calendar.
type Service struct {
	mu sync.RWMutex

	// Core components
	events  repository.Repository[model.CalendarEvent]
	builder *view.Builder
	encoder *ics.Encoder

	// Configuration
	weekStart     time.Weekday
	location      *time.Location
	clock         func() time.Time
	labels        func(string) string
	initialYear   int
	initialMonth  time.Month
	seedDemo      bool
	maxImportRows int
	calendarName  string
	newID         func() string
	openStore     func() repository.Repository[model.CalendarEvent]

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		weekStart:     time.Monday,
		location:      time.UTC,
		clock:         time.Now,
		maxImportRows: 5000,
		calendarName:  "Staff Holidays",
		newID:         uuid.NewString,
		logger:        nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the repository and, if enabled, seeds demo data.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting calendar service...")

	if s.openStore != nil {
		s.events = s.openStore()
	} else {
		s.events = repository.NewMemoryStore[model.CalendarEvent](
			repository.WithName(storeName),
			repository.WithCapacity(s.maxImportRows),
		)
	}
	s.builder = view.NewBuilder(s.events,
		view.WithWeekStart(s.weekStart),
		view.WithLabelLookup(s.labels),
		view.WithClock(s.now),
	)
	s.encoder = ics.NewEncoder(
		ics.WithName(s.calendarName),
		ics.WithLocation(s.location),
		ics.WithClock(s.clock),
	)

	if s.seedDemo {
		n, err := s.seed(ctx)
		if err != nil {
			return fmt.Errorf("seed demo events: %w", err)
		}
		s.logger.Info(ctx, "seeded demo events", logger.Int("count", n))
	}

	s.started = true
	s.startedAt = s.clock()
	s.logger.Info(ctx, "calendar service started",
		logger.String("weekStart", s.weekStart.String()),
		logger.String("timezone", s.location.String()),
		logger.String("initialMonth", s.InitialNavigation().String()),
	)

	return nil
}

// Stop releases the repository.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping calendar service...")

	if c, ok := s.events.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing event store failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "calendar service stopped")
}

// now returns the clock reading in the configured zone, which decides the
// civil date used for isToday and the "today" transition.
func (s *Service) now() time.Time {
	return s.clock().In(s.location)
}

// InitialNavigation returns the configured start month, or the current
// month when none was configured.
func (s *Service) InitialNavigation() calendar.Navigation {
	if s.initialYear > 0 {
		return calendar.Navigation{Year: s.initialYear, Month: s.initialMonth}
	}
	return calendar.NavigationAt(s.now())
}

// Calendar builds the view for nav.
func (s *Service) Calendar(ctx context.Context, nav calendar.Navigation) (view.View, error) {
	b, err := s.viewBuilder()
	if err != nil {
		return view.View{}, err
	}
	start := time.Now()
	v, err := b.Build(ctx, nav)
	if err != nil {
		metrics.RecordViewError()
		s.logger.Warn(ctx, "month view failed", logger.String("month", nav.String()), logger.Error(err))
		return view.View{}, err
	}
	metrics.RecordViewBuilt(float64(time.Since(start).Microseconds()) / 1000)
	return v, nil
}

// Navigate applies dir to nav and builds the resulting month.
func (s *Service) Navigate(ctx context.Context, nav calendar.Navigation, dir calendar.Direction) (view.View, error) {
	next := nav.Apply(dir, s.now())
	metrics.RecordNavigation(string(dir))
	s.logger.Debug(ctx, "navigate",
		logger.String("from", nav.String()),
		logger.String("to", next.String()),
		logger.String("direction", string(dir)),
	)
	return s.Calendar(ctx, next)
}

// Controller returns a session controller that renders through r,
// starting at the initial month.
func (s *Service) Controller(r view.Renderer) (*view.Controller, error) {
	b, err := s.viewBuilder()
	if err != nil {
		return nil, err
	}
	return view.NewController(b, r, s.InitialNavigation()), nil
}

// ListEvents returns every stored event in insertion order.
func (s *Service) ListEvents(ctx context.Context) ([]model.CalendarEvent, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	return store.List(ctx)
}

// GetEvent returns one event.
func (s *Service) GetEvent(ctx context.Context, id string) (model.CalendarEvent, error) {
	store, err := s.store()
	if err != nil {
		return model.CalendarEvent{}, err
	}
	return store.Get(ctx, id)
}

// CreateEvent validates ev, assigns an ID when it has none and stores it.
func (s *Service) CreateEvent(ctx context.Context, ev model.CalendarEvent) (model.CalendarEvent, error) {
	store, err := s.store()
	if err != nil {
		return model.CalendarEvent{}, err
	}
	ev, err = normalize(ev)
	if err != nil {
		return model.CalendarEvent{}, err
	}
	if ev.ID == "" {
		ev.ID = s.newID()
	}
	created, err := store.Add(ctx, ev)
	if err != nil {
		return model.CalendarEvent{}, err
	}
	s.logger.Debug(ctx, "event created", logger.String("id", created.ID), logger.String("date", created.Date))
	return created, nil
}

// UpdateEvent replaces the event with id.
func (s *Service) UpdateEvent(ctx context.Context, id string, ev model.CalendarEvent) (model.CalendarEvent, error) {
	store, err := s.store()
	if err != nil {
		return model.CalendarEvent{}, err
	}
	ev.ID = id
	ev, err = normalize(ev)
	if err != nil {
		return model.CalendarEvent{}, err
	}
	return store.Update(ctx, ev)
}

// DeleteEvent removes the event with id.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	store, err := s.store()
	if err != nil {
		return err
	}
	return store.Remove(ctx, id)
}

// ImportXLSX reads events from a workbook and stores the valid ones.
// Rows whose ID is already stored are listed as duplicates and skipped.
func (s *Service) ImportXLSX(ctx context.Context, r io.Reader) (types.ImportResult, error) {
	store, err := s.store()
	if err != nil {
		return types.ImportResult{}, err
	}
	events, report, err := xlsx.Import(r, xlsx.WithMaxRows(s.maxImportRows))
	if err != nil {
		return types.ImportResult{}, err
	}

	res := types.ImportResult{
		Accepted:   report.Accepted,
		Rejected:   report.Rejected,
		Truncated:  report.Truncated,
		Duplicates: []string{},
	}
	for _, ev := range events {
		if ev.ID == "" {
			ev.ID = s.newID()
		}
		if _, err := store.Add(ctx, ev); err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				res.Duplicates = append(res.Duplicates, ev.ID)
				continue
			}
			return res, err
		}
		res.Stored++
	}

	metrics.RecordImportRows(res.Stored, res.Skipped())
	s.logger.Info(ctx, "spreadsheet imported",
		logger.Int("stored", res.Stored),
		logger.Int("rejected", len(report.Rejected)),
		logger.Int("duplicates", len(res.Duplicates)),
		logger.Bool("truncated", report.Truncated),
	)
	return res, nil
}

// ExportXLSX writes every stored event as a workbook.
func (s *Service) ExportXLSX(ctx context.Context, w io.Writer) error {
	events, err := s.ListEvents(ctx)
	if err != nil {
		return err
	}
	if err := xlsx.Export(w, events); err != nil {
		return err
	}
	metrics.RecordExport("xlsx")
	return nil
}

// ExportICS writes the events of nav's month as an iCalendar feed and
// returns how many were written.
func (s *Service) ExportICS(ctx context.Context, w io.Writer, nav calendar.Navigation) (int, error) {
	if _, err := calendar.NewNavigation(nav.Year, nav.Month); err != nil {
		return 0, err
	}
	events, err := s.ListEvents(ctx)
	if err != nil {
		return 0, err
	}
	n, err := s.encoder.EncodeMonth(w, events, nav.Year, nav.Month)
	if err != nil {
		return 0, err
	}
	metrics.RecordExport("ics")
	return n, nil
}

// ExportAllICS writes every stored event as one iCalendar feed and returns
// how many were written.
func (s *Service) ExportAllICS(ctx context.Context, w io.Writer) (int, error) {
	events, err := s.ListEvents(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.encoder.Encode(w, events); err != nil {
		return 0, err
	}
	metrics.RecordExport("ics")
	return len(events), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"weekStart":    s.weekStart.String(),
		"timezone":     s.location.String(),
		"calendarName": s.calendarName,
		"initialMonth": s.InitialNavigation().String(),
	}

	if s.started {
		total := s.events.Count(context.Background())
		stats["totalEvents"] = total
		stats["uptimeSeconds"] = int(s.clock().Sub(s.startedAt).Seconds())

		metrics.UpdateRepositoryRecords(storeName, total)
	}

	return stats
}

func (s *Service) store() (repository.Repository[model.CalendarEvent], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.events, nil
}

func (s *Service) viewBuilder() (*view.Builder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.builder, nil
}

// normalize trims fields, canonicalises the category and validates.
func normalize(ev model.CalendarEvent) (model.CalendarEvent, error) {
	ev.ID = strings.TrimSpace(ev.ID)
	ev.ParticipantName = strings.TrimSpace(ev.ParticipantName)
	ev.Date = strings.TrimSpace(ev.Date)
	category, err := model.ParseCategory(string(ev.Category))
	if err != nil {
		return ev, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	ev.Category = category
	if err := ev.Validate(); err != nil {
		return ev, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	return ev, nil
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/holical/internal/adapters/repository"
	"github.com/okian/holical/internal/adapters/xlsx"
	"github.com/okian/holical/internal/domain/calendar"
	"github.com/okian/holical/internal/domain/model"
	"github.com/okian/holical/internal/domain/types"
	"github.com/okian/holical/internal/domain/view"
)

// EventStore exposes event CRUD plus spreadsheet import and export.
type EventStore interface {
	ListEvents(ctx context.Context) ([]model.CalendarEvent, error)
	GetEvent(ctx context.Context, id string) (model.CalendarEvent, error)
	CreateEvent(ctx context.Context, ev model.CalendarEvent) (model.CalendarEvent, error)
	UpdateEvent(ctx context.Context, id string, ev model.CalendarEvent) (model.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id string) error

	ImportXLSX(ctx context.Context, r io.Reader) (types.ImportResult, error)
	ExportXLSX(ctx context.Context, w io.Writer) error
}

// CalendarProvider builds month views. Navigation travels with each
// request, so handlers hold no per-user state.
type CalendarProvider interface {
	InitialNavigation() calendar.Navigation
	Calendar(ctx context.Context, nav calendar.Navigation) (view.View, error)
	Navigate(ctx context.Context, nav calendar.Navigation, dir calendar.Direction) (view.View, error)
	ExportICS(ctx context.Context, w io.Writer, nav calendar.Navigation) (int, error)
	ExportAllICS(ctx context.Context, w io.Writer) (int, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	EventStore
	CalendarProvider
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	eventsHandler   *EventsHandler
	calendarHandler *CalendarHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		eventsHandler:   NewEventsHandler(deps),
		calendarHandler: NewCalendarHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/calendar", MetricsMiddleware(s.calendarHandler.HandleCalendar, "calendar"))
	mux.HandleFunc("/calendar/navigate", MetricsMiddleware(s.calendarHandler.HandleNavigate, "navigate"))
	mux.HandleFunc("/calendar.ics", MetricsMiddleware(s.calendarHandler.HandleICS, "ics"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandleCollection, "events"))
	mux.HandleFunc("/events/", MetricsMiddleware(s.eventsHandler.HandleItem, "event"))
	mux.HandleFunc("/events/import", MetricsMiddleware(s.eventsHandler.HandleImport, "import"))
	mux.HandleFunc("/events/export.xlsx", MetricsMiddleware(s.eventsHandler.HandleExport, "export"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err onto a status and error code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict, "conflict"
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "method_not_allowed"
	case isClientError(err):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func isClientError(err error) bool {
	for _, kind := range []error{
		ErrBadRequest,
		repository.ErrInvalidID,
		model.ErrMalformedDate,
		model.ErrMissingField,
		model.ErrUnknownCategory,
		model.ErrInvalidID,
		calendar.ErrInvalidMonth,
		calendar.ErrInvalidYear,
		calendar.ErrInvalidDirection,
		xlsx.ErrMissingColumn,
		xlsx.ErrOpenWorkbook,
		xlsx.ErrNoWorksheet,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

func methodNotAllowed(w http.ResponseWriter, op string, allowed ...string) {
	for _, m := range allowed {
		w.Header().Add("Allow", m)
	}
	writeFailure(w, NewKind(op, ErrMethodNotAllowed))
}

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/holical/internal/domain/calendar"
)

// CalendarHandler serves month views and their iCalendar export.
type CalendarHandler struct {
	deps CalendarProvider
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(deps CalendarProvider) *CalendarHandler {
	return &CalendarHandler{deps: deps}
}

// HandleCalendar handles GET /calendar?year=&month= requests.
func (h *CalendarHandler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	const op = "api.calendar"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, op, http.MethodGet)
		return
	}
	nav, err := h.navigation(r)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	v, err := h.deps.Calendar(r.Context(), nav)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleNavigate handles GET /calendar/navigate?year=&month=&dir= requests.
func (h *CalendarHandler) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	const op = "api.navigate"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, op, http.MethodGet)
		return
	}
	nav, err := h.navigation(r)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	dir, err := calendar.ParseDirection(r.URL.Query().Get("dir"))
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	v, err := h.deps.Navigate(r.Context(), nav, dir)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleICS handles GET /calendar.ics?year=&month= requests. With all=1 the
// feed holds every stored event instead of one month.
func (h *CalendarHandler) HandleICS(w http.ResponseWriter, r *http.Request) {
	const op = "api.ics"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, op, http.MethodGet)
		return
	}
	all, err := queryBool(r, "all")
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	var buf bytes.Buffer
	filename := "holical.ics"
	if all {
		if _, err := h.deps.ExportAllICS(r.Context(), &buf); err != nil {
			writeFailure(w, Wrap(op, err))
			return
		}
	} else {
		nav, err := h.navigation(r)
		if err != nil {
			writeFailure(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		if _, err := h.deps.ExportICS(r.Context(), &buf, nav); err != nil {
			writeFailure(w, Wrap(op, err))
			return
		}
		filename = fmt.Sprintf("holical-%s.ics", nav)
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// navigation reads year and month from the query, falling back to the
// initial month for whichever is missing. The result is validated.
func (h *CalendarHandler) navigation(r *http.Request) (calendar.Navigation, error) {
	nav := h.deps.InitialNavigation()
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("year")); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return calendar.Navigation{}, fmt.Errorf("year %q is not a number", v)
		}
		nav.Year = year
	}
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			return calendar.Navigation{}, fmt.Errorf("month %q is not a number", v)
		}
		nav.Month = time.Month(month)
	}
	return calendar.NewNavigation(nav.Year, nav.Month)
}

// queryBool reads an optional boolean query parameter; absent means false.
func queryBool(r *http.Request, key string) (bool, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s %q is not a boolean", key, v)
	}
	return b, nil
}

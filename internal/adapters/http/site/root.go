// Package site serves the browser month page and its stylesheet.
package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/okian/holical/internal/domain/calendar"
	"github.com/okian/holical/internal/domain/view"
)

// Error constants
var (
	ErrRender     = errors.New("month page render failed")
	ErrBadRequest = errors.New("bad month page request")
)

// Pages builds the views behind the month page.
type Pages interface {
	InitialNavigation() calendar.Navigation
	Calendar(ctx context.Context, nav calendar.Navigation) (view.View, error)
	Navigate(ctx context.Context, nav calendar.Navigation, dir calendar.Direction) (view.View, error)
}

// Register attaches the month page at / and its assets under /static/.
func Register(_ context.Context, mux *http.ServeMux, pages Pages, name string) {
	if mux == nil {
		panic("mux is nil")
	}

	assets := http.StripPrefix("/static/", http.FileServer(FS()))
	mux.HandleFunc("/static/", func(w http.ResponseWriter, r *http.Request) {
		if path.Ext(r.URL.Path) != ".css" {
			http.NotFound(w, r)
			return
		}
		assets.ServeHTTP(w, r)
	})
	mux.HandleFunc("/", NewRootHandler(pages, name).HandleRoot)
}

// RootHandler handles root path requests
type RootHandler struct {
	pages Pages
	name  string
}

// NewRootHandler creates a new root handler
func NewRootHandler(pages Pages, name string) *RootHandler {
	return &RootHandler{pages: pages, name: name}
}

// HandleRoot handles GET /?year=&month=&dir= and renders the month page.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	v, err := h.build(r)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrBadRequest) || errors.Is(err, calendar.ErrInvalidMonth) || errors.Is(err, calendar.ErrInvalidYear) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := (HTMLRenderer{W: w, Name: h.name}).Render(r.Context(), v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *RootHandler) build(r *http.Request) (view.View, error) {
	nav := h.pages.InitialNavigation()
	q := r.URL.Query()
	for _, field := range []struct {
		key string
		set func(int)
	}{
		{"year", func(n int) { nav.Year = n }},
		{"month", func(n int) { nav.Month = time.Month(n) }},
	} {
		raw := strings.TrimSpace(q.Get(field.key))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return view.View{}, fmt.Errorf("%w: %s %q is not a number", ErrBadRequest, field.key, raw)
		}
		field.set(n)
	}
	nav, err := calendar.NewNavigation(nav.Year, nav.Month)
	if err != nil {
		return view.View{}, err
	}

	raw := q.Get("dir")
	if raw == "" {
		return h.pages.Calendar(r.Context(), nav)
	}
	dir, err := calendar.ParseDirection(raw)
	if err != nil {
		return view.View{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return h.pages.Navigate(r.Context(), nav, dir)
}

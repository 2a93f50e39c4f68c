package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/okian/holical/internal/domain/calendar"
	"github.com/okian/holical/internal/domain/model"
	"github.com/okian/holical/internal/domain/view"
)

// maxPerCell is how many events a day cell lists before collapsing the rest.
const maxPerCell = 3

var pageFuncs = template.FuncMap{ //nolint:gochecknoglobals // template helpers
	"catClass":   func(c model.Category) string { return "cat-" + strings.ToLower(string(c)) },
	"categories": model.Categories,
	"take":       func(evs []model.CalendarEvent) []model.CalendarEvent {
		if len(evs) > maxPerCell {
			return evs[:maxPerCell]
		}
		return evs
	},
	"more": func(evs []model.CalendarEvent) int {
		if len(evs) > maxPerCell {
			return len(evs) - maxPerCell
		}
		return 0
	},
}

var monthPage = template.Must( //nolint:gochecknoglobals // parsed once
	template.New("month.html").Funcs(pageFuncs).ParseFS(staticFS, "static/month.html"),
)

// page is the data handed to the month template.
type page struct {
	Title    string
	View     view.View
	Prev     string
	Next     string
	Today    string
	ICS      string
	Calendar string
}

// HTMLRenderer writes a month view as a standalone HTML page. Links move
// between months through query parameters, so each page stands alone.
type HTMLRenderer struct {
	W io.Writer
	// Base is the path the page is served under; "/" when empty.
	Base string
	// Name is shown above the grid.
	Name string
}

// Render writes v to r.W.
func (r HTMLRenderer) Render(_ context.Context, v view.View) error {
	base := r.Base
	if base == "" {
		base = "/"
	}
	nav := v.Navigation()
	link := func(dir calendar.Direction) string {
		return fmt.Sprintf("%s?year=%d&month=%d&dir=%s", base, nav.Year, int(nav.Month), dir)
	}
	p := page{
		Title:    fmt.Sprintf("%s %d", nav.Month, nav.Year),
		View:     v,
		Prev:     link(calendar.Previous),
		Next:     link(calendar.Next),
		Today:    link(calendar.Today),
		ICS:      fmt.Sprintf("/calendar.ics?year=%d&month=%d", nav.Year, int(nav.Month)),
		Calendar: r.Name,
	}

	// Render into a buffer so a template error never leaves half a page.
	var buf bytes.Buffer
	if err := monthPage.Execute(&buf, p); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	_, err := r.W.Write(buf.Bytes())
	return err
}

// Package view defines the data handed to presentation layers and the
// controller that keeps it in step with month navigation.
package view

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/holical/internal/domain/aggregate"
	"github.com/okian/holical/internal/domain/calendar"
	"github.com/okian/holical/internal/domain/model"
)

// View is everything a renderer needs for one month. It carries data only;
// styling, category colours and cell overflow belong to the renderer.
type View struct {
	Grid          calendar.MonthGrid     `json:"grid"`
	Bucket        aggregate.Bucket       `json:"bucket"`
	Stats         aggregate.MonthStats   `json:"stats"`
	Categories    map[model.Category]int `json:"categories"`
	WeekdayLabels [7]string              `json:"weekday_labels"`
}

// Navigation returns the month the view was built for.
func (v View) Navigation() calendar.Navigation {
	return calendar.Navigation{Year: v.Grid.Year, Month: v.Grid.Month}
}

// Renderer displays a View.
type Renderer interface {
	Render(ctx context.Context, v View) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, v View) error

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, v View) error { return f(ctx, v) }

// EventSource supplies the current event list. The list is read fresh on
// every build and never retained.
type EventSource interface {
	List(ctx context.Context) ([]model.CalendarEvent, error)
}

// StaticSource serves a fixed slice of events.
type StaticSource []model.CalendarEvent

// List returns the slice.
func (s StaticSource) List(context.Context) ([]model.CalendarEvent, error) {
	return s, nil
}

// Builder assembles views for arbitrary months.
type Builder struct {
	source    EventSource
	weekStart time.Weekday
	labels    func(string) string
	clock     func() time.Time
}

// NewBuilder creates a Builder reading events from source.
func NewBuilder(source EventSource, opts ...Option) *Builder {
	b := &Builder{
		source:    source,
		weekStart: time.Monday,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Now returns the builder's clock reading.
func (b *Builder) Now() time.Time { return b.clock() }

// WeekStart returns the configured first column weekday.
func (b *Builder) WeekStart() time.Weekday { return b.weekStart }

// Build computes grid, then bucket, then stats for nav. Stats are derived
// from the grid's month so the three parts always agree.
func (b *Builder) Build(ctx context.Context, nav calendar.Navigation) (View, error) {
	grid, err := calendar.BuildMonthGrid(nav.Year, nav.Month, b.weekStart, b.clock())
	if err != nil {
		return View{}, fmt.Errorf("build grid %s: %w", nav, err)
	}
	events, err := b.source.List(ctx)
	if err != nil {
		return View{}, fmt.Errorf("list events: %w", err)
	}
	bucket, err := aggregate.BucketEvents(events)
	if err != nil {
		return View{}, err
	}
	stats, err := aggregate.ComputeMonthStats(events, grid.Year, grid.Month)
	if err != nil {
		return View{}, err
	}
	counts, err := aggregate.CategoryCounts(events, grid.Year, grid.Month)
	if err != nil {
		return View{}, err
	}
	return View{
		Grid:          grid,
		Bucket:        bucket,
		Stats:         stats,
		Categories:    counts,
		WeekdayLabels: calendar.WeekdayLabels(b.weekStart, b.labels),
	}, nil
}

package view

import (
	"context"

	"github.com/okian/holical/internal/domain/calendar"
)

// Controller binds one Navigation to a Renderer. Each transition rebuilds
// the view and renders it. A Controller belongs to a single session and is
// not safe for concurrent use.
type Controller struct {
	builder  *Builder
	renderer Renderer
	nav      calendar.Navigation
}

// NewController starts at the given month.
func NewController(builder *Builder, renderer Renderer, start calendar.Navigation) *Controller {
	return &Controller{builder: builder, renderer: renderer, nav: start}
}

// Navigation returns the month on display.
func (c *Controller) Navigation() calendar.Navigation { return c.nav }

// OnPreviousMonth shows the previous month.
func (c *Controller) OnPreviousMonth(ctx context.Context) error {
	return c.move(ctx, calendar.Previous)
}

// OnNextMonth shows the next month.
func (c *Controller) OnNextMonth(ctx context.Context) error {
	return c.move(ctx, calendar.Next)
}

// OnToday shows the month containing the builder's clock reading.
func (c *Controller) OnToday(ctx context.Context) error {
	return c.move(ctx, calendar.Today)
}

// Refresh re-renders the current month, e.g. after the event list changed.
func (c *Controller) Refresh(ctx context.Context) error {
	v, err := c.builder.Build(ctx, c.nav)
	if err != nil {
		return err
	}
	return c.renderer.Render(ctx, v)
}

// move commits the new month only once its view was built, so a failed
// build leaves the controller where it was.
func (c *Controller) move(ctx context.Context, dir calendar.Direction) error {
	next := c.nav.Apply(dir, c.builder.Now())
	v, err := c.builder.Build(ctx, next)
	if err != nil {
		return err
	}
	c.nav = next
	return c.renderer.Render(ctx, v)
}

package view_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/holical/internal/domain/calendar"
	"github.com/okian/holical/internal/domain/model"
	"github.com/okian/holical/internal/domain/view"
	. "github.com/smartystreets/goconvey/convey"
)

var fixedNow = time.Date(2026, time.February, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func sample() view.StaticSource {
	return view.StaticSource{
		{ID: "1", Date: "2026-02-20", ParticipantName: "A", Category: model.CategoryAnnual},
		{ID: "2", Date: "2026-02-20", ParticipantName: "B", Category: model.CategorySick},
		{ID: "3", Date: "2026-02-21", ParticipantName: "A", Category: model.CategoryAnnual},
		{ID: "4", Date: "2026-03-02", ParticipantName: "C", Category: model.CategoryPersonal},
	}
}

type failingSource struct{ err error }

func (f failingSource) List(context.Context) ([]model.CalendarEvent, error) { return nil, f.err }

type recorder struct{ views []view.View }

func (r *recorder) Render(_ context.Context, v view.View) error {
	r.views = append(r.views, v)
	return nil
}

func TestBuilder_Build(t *testing.T) {
	Convey("Given a builder over the sample events", t, func() {
		b := view.NewBuilder(sample(), view.WithClock(clock), view.WithWeekStart(time.Monday))

		Convey("When building February 2026", func() {
			v, err := b.Build(context.Background(), calendar.Navigation{Year: 2026, Month: time.February})

			Convey("Then grid, bucket and stats should describe the same month", func() {
				So(err, ShouldBeNil)
				So(v.Grid.Month, ShouldEqual, time.February)
				So(len(v.Bucket["2026-02-20"]), ShouldEqual, 2)
				So(len(v.Bucket["2026-02-21"]), ShouldEqual, 1)
				So(v.Stats.TotalEvents, ShouldEqual, 3)
				So(v.Stats.DistinctParticipants, ShouldEqual, 2)
				So(v.Categories[model.CategoryAnnual], ShouldEqual, 2)
				So(v.Categories[model.CategorySick], ShouldEqual, 1)
				So(v.Categories[model.CategoryPersonal], ShouldEqual, 0)
				So(v.WeekdayLabels[0], ShouldEqual, "Mon")
				So(v.Navigation(), ShouldResemble, calendar.Navigation{Year: 2026, Month: time.February})
			})
		})

		Convey("When building an invalid month", func() {
			_, err := b.Build(context.Background(), calendar.Navigation{Year: 2026, Month: 14})

			Convey("Then the grid error should surface", func() {
				So(errors.Is(err, calendar.ErrInvalidMonth), ShouldBeTrue)
			})
		})
	})

	Convey("Given a source that fails", t, func() {
		boom := errors.New("boom")
		b := view.NewBuilder(failingSource{err: boom}, view.WithClock(clock))
		_, err := b.Build(context.Background(), calendar.Navigation{Year: 2026, Month: time.February})

		So(errors.Is(err, boom), ShouldBeTrue)
	})
}

func TestController(t *testing.T) {
	Convey("Given a controller starting on a demo month", t, func() {
		rec := &recorder{}
		b := view.NewBuilder(sample(), view.WithClock(clock))
		c := view.NewController(b, rec, calendar.Navigation{Year: 2025, Month: time.December})
		ctx := context.Background()

		Convey("When moving next", func() {
			So(c.OnNextMonth(ctx), ShouldBeNil)

			Convey("Then it should render January of the next year", func() {
				So(c.Navigation(), ShouldResemble, calendar.Navigation{Year: 2026, Month: time.January})
				So(len(rec.views), ShouldEqual, 1)
				So(rec.views[0].Grid.Year, ShouldEqual, 2026)
				So(rec.views[0].Stats.TotalEvents, ShouldEqual, 0)
			})

			Convey("And moving back should render December again", func() {
				So(c.OnPreviousMonth(ctx), ShouldBeNil)
				So(c.Navigation(), ShouldResemble, calendar.Navigation{Year: 2025, Month: time.December})
			})
		})

		Convey("When jumping to today", func() {
			So(c.OnToday(ctx), ShouldBeNil)

			Convey("Then it should render the clock's month with its stats", func() {
				So(c.Navigation(), ShouldResemble, calendar.Navigation{Year: 2026, Month: time.February})
				So(rec.views[0].Stats.TotalEvents, ShouldEqual, 3)
			})
		})

		Convey("When refreshing", func() {
			So(c.Refresh(ctx), ShouldBeNil)
			So(len(rec.views), ShouldEqual, 1)
			So(rec.views[0].Grid.Month, ShouldEqual, time.December)
		})
	})

	Convey("Given a controller whose source fails", t, func() {
		rec := &recorder{}
		b := view.NewBuilder(failingSource{err: errors.New("down")}, view.WithClock(clock))
		start := calendar.Navigation{Year: 2026, Month: time.May}
		c := view.NewController(b, rec, start)

		Convey("Then a failed move should keep the current month", func() {
			So(c.OnNextMonth(context.Background()), ShouldNotBeNil)
			So(c.Navigation(), ShouldResemble, start)
			So(len(rec.views), ShouldEqual, 0)
		})
	})
}

func TestTextRenderer(t *testing.T) {
	Convey("Given February 2026 rendered as text", t, func() {
		var buf bytes.Buffer
		b := view.NewBuilder(sample(), view.WithClock(clock))
		c := view.NewController(b, view.TextRenderer{W: &buf}, calendar.Navigation{Year: 2026, Month: time.February})

		So(c.Refresh(context.Background()), ShouldBeNil)
		out := buf.String()

		Convey("Then the header, today marker and events should be present", func() {
			So(out, ShouldContainSubstring, "February 2026")
			So(out, ShouldContainSubstring, "   Mon   Tue   Wed   Thu   Fri   Sat   Sun")
			So(out, ShouldContainSubstring, " [15] ")
			So(out, ShouldContainSubstring, "   20+")
			So(out, ShouldContainSubstring, "3 events, 2 people")
			So(out, ShouldContainSubstring, "Annual 2, Sick 1\n")
			So(out, ShouldContainSubstring, "2026-02-20  A (Annual), B (Sick)")
			So(strings.Contains(out, "2026-03-02"), ShouldBeFalse)
		})
	})
}

func TestTextRenderer_BusyToday(t *testing.T) {
	Convey("Given an event on today's date", t, func() {
		var buf bytes.Buffer
		src := view.StaticSource{{ID: "t", Date: "2026-02-15", ParticipantName: "T", Category: model.CategoryOther}}
		b := view.NewBuilder(src, view.WithClock(clock))
		c := view.NewController(b, view.TextRenderer{W: &buf}, calendar.Navigation{Year: 2026, Month: time.February})

		So(c.Refresh(context.Background()), ShouldBeNil)

		Convey("Then today should keep both the brackets and the busy marker", func() {
			So(buf.String(), ShouldContainSubstring, " [15]+")
			So(buf.String(), ShouldContainSubstring, "Other 1\n")
		})
	})
}

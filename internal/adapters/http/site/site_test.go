package site

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/holical/internal/domain/calendar"
	"github.com/okian/holical/internal/domain/model"
	"github.com/okian/holical/internal/domain/view"
)

var fixedNow = time.Date(2026, time.March, 16, 9, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // test clock

type builderPages struct {
	b *view.Builder
}

func (p builderPages) InitialNavigation() calendar.Navigation {
	return calendar.NavigationAt(fixedNow)
}

func (p builderPages) Calendar(ctx context.Context, nav calendar.Navigation) (view.View, error) {
	return p.b.Build(ctx, nav)
}

func (p builderPages) Navigate(ctx context.Context, nav calendar.Navigation, dir calendar.Direction) (view.View, error) {
	return p.b.Build(ctx, nav.Apply(dir, fixedNow))
}

func newPages() builderPages {
	events := view.StaticSource{
		{ID: "1", ParticipantName: "Alice", Date: "2026-03-10", Category: model.CategoryAnnual},
		{ID: "2", ParticipantName: "Bob", Date: "2026-03-10", Category: model.CategorySick},
		{ID: "3", ParticipantName: "Carol", Date: "2026-03-10", Category: model.CategoryPersonal},
		{ID: "4", ParticipantName: "Dan", Date: "2026-03-10", Category: model.CategoryOther},
		{ID: "5", ParticipantName: "Eve", Date: "2026-04-01", Category: model.CategoryAnnual},
	}
	return builderPages{b: view.NewBuilder(events, view.WithClock(func() time.Time { return fixedNow }))}
}

func get(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHTMLRenderer(t *testing.T) {
	Convey("Given a month view with a crowded day", t, func() {
		pages := newPages()
		v, err := pages.Calendar(context.Background(), calendar.Navigation{Year: 2026, Month: time.March})
		So(err, ShouldBeNil)

		Convey("When rendered as HTML", func() {
			var buf bytes.Buffer
			err := HTMLRenderer{W: &buf, Name: "Team"}.Render(context.Background(), v)
			So(err, ShouldBeNil)
			out := buf.String()

			Convey("Then the title and navigation links should be present", func() {
				So(out, ShouldContainSubstring, "<h1>March 2026</h1>")
				So(out, ShouldContainSubstring, `href="/?year=2026&amp;month=3&amp;dir=prev"`)
				So(out, ShouldContainSubstring, `href="/?year=2026&amp;month=3&amp;dir=next"`)
				So(out, ShouldContainSubstring, "Team")
			})

			Convey("Then the crowded day should collapse its overflow", func() {
				So(out, ShouldContainSubstring, "Alice")
				So(out, ShouldContainSubstring, "Carol")
				So(out, ShouldNotContainSubstring, "Dan")
				So(out, ShouldContainSubstring, "+1 more")
				So(out, ShouldContainSubstring, `class="ev cat-sick"`)
			})

			Convey("Then today should be marked", func() {
				So(out, ShouldContainSubstring, `class="day today" data-date="2026-03-16"`)
			})

			Convey("Then the stats should follow the grid", func() {
				So(out, ShouldContainSubstring, "4 events")
				So(out, ShouldContainSubstring, "4 people")
				So(out, ShouldContainSubstring, `<span class="tally cat-annual">Annual 1</span>`)
				So(out, ShouldContainSubstring, `<span class="tally cat-other">Other 1</span>`)
			})

			Convey("Then the tally should only count the displayed month", func() {
				So(v.Categories[model.CategoryAnnual], ShouldEqual, 1)
			})
		})
	})
}

func TestSiteHandler(t *testing.T) {
	Convey("Given a site handler", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()
		Register(ctx, mux, newPages(), "Team")

		Convey("When requesting the root page", func() {
			rec := get(mux, "/")

			Convey("Then it should show the initial month", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(rec.Body.String(), ShouldContainSubstring, "March 2026")
			})
		})

		Convey("When following the next link", func() {
			rec := get(mux, "/?year=2026&month=3&dir=next")

			Convey("Then April should be shown", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "April 2026")
				So(rec.Body.String(), ShouldContainSubstring, "Eve")
			})
		})

		Convey("When going back from January", func() {
			rec := get(mux, "/?year=2026&month=1&dir=prev")

			Convey("Then the year should roll back", func() {
				So(rec.Body.String(), ShouldContainSubstring, "December 2025")
			})
		})

		Convey("When the query is invalid", func() {
			for _, target := range []string{"/?month=13", "/?year=abc", "/?dir=sideways"} {
				rec := get(mux, target)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When requesting an unknown path", func() {
			So(get(mux, "/nope").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When posting to the page", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")))

			Convey("Then it should be rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(rec.Header().Get("Allow"), ShouldEqual, "GET, HEAD")
			})
		})

		Convey("When requesting static assets", func() {
			Convey("Then the stylesheet should be served", func() {
				rec := get(mux, "/static/style.css")
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "text/css")
			})

			Convey("Then the raw template should not be exposed", func() {
				So(get(mux, "/static/month.html").Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given a nil mux", t, func() {
		So(func() { Register(context.Background(), nil, newPages(), "") }, ShouldPanic)
	})
}

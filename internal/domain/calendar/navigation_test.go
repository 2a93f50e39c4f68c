package calendar_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/holical/internal/domain/calendar"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNavigation(t *testing.T) {
	Convey("Given a navigation in December", t, func() {
		nav, err := calendar.NewNavigation(2025, time.December)
		So(err, ShouldBeNil)

		Convey("When moving to the next month", func() {
			next := nav.Next()

			Convey("Then it should roll into January of the next year", func() {
				So(next, ShouldResemble, calendar.Navigation{Year: 2026, Month: time.January})
			})

			Convey("And moving back should return to December", func() {
				So(next.Previous(), ShouldResemble, nav)
			})
		})

		Convey("When the original value is kept", func() {
			_ = nav.Next()

			Convey("Then it should be unchanged", func() {
				So(nav.Month, ShouldEqual, time.December)
			})
		})
	})

	Convey("Given a navigation in January", t, func() {
		nav := calendar.Navigation{Year: 2026, Month: time.January}

		Convey("Then previous should roll into December of the prior year", func() {
			So(nav.Previous(), ShouldResemble, calendar.Navigation{Year: 2025, Month: time.December})
		})
	})

	Convey("Given every starting month over several years", t, func() {
		for year := 2000; year <= 2030; year++ {
			for month := time.January; month <= time.December; month++ {
				nav := calendar.Navigation{Year: year, Month: month}
				So(nav.Next().Previous(), ShouldResemble, nav)
				So(nav.Previous().Next(), ShouldResemble, nav)
			}
		}
	})

	Convey("Given a demo month far from now", t, func() {
		nav := calendar.Navigation{Year: 2024, Month: time.July}

		Convey("Then today should jump to the clock's month", func() {
			So(nav.Today(fixedNow), ShouldResemble, calendar.Navigation{Year: 2026, Month: time.February})
			So(nav.Apply(calendar.Today, fixedNow), ShouldResemble, calendar.Navigation{Year: 2026, Month: time.February})
		})

		Convey("And apply should dispatch by direction", func() {
			So(nav.Apply(calendar.Next, fixedNow).Month, ShouldEqual, time.August)
			So(nav.Apply(calendar.Previous, fixedNow).Month, ShouldEqual, time.June)
		})
	})

	Convey("Given an invalid starting month", t, func() {
		_, err := calendar.NewNavigation(2026, 13)
		So(errors.Is(err, calendar.ErrInvalidMonth), ShouldBeTrue)
	})
}

func TestParseDirection(t *testing.T) {
	Convey("Given direction strings", t, func() {
		for in, want := range map[string]calendar.Direction{
			"prev": calendar.Previous, "Previous": calendar.Previous,
			"NEXT": calendar.Next, " today ": calendar.Today,
		} {
			got, err := calendar.ParseDirection(in)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}

		_, err := calendar.ParseDirection("sideways")
		So(errors.Is(err, calendar.ErrInvalidDirection), ShouldBeTrue)
	})
}

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	app "github.com/okian/holical/internal/app"
	"github.com/okian/holical/internal/config"
	"github.com/okian/holical/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func clearEnv() {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, config.EnvPrefix) {
			_ = os.Unsetenv(strings.SplitN(kv, "=", 2)[0])
		}
	}
}

func TestServiceOptions(t *testing.T) {
	convey.Convey("Given configuration loaded from the environment", t, func() {
		clearEnv()
		_ = os.Setenv("HOLICAL_WEEK_START", "sunday")
		_ = os.Setenv("HOLICAL_INITIAL_YEAR", "2026")
		_ = os.Setenv("HOLICAL_INITIAL_MONTH", "3")
		_ = os.Setenv("HOLICAL_TIMEZONE", "Asia/Tokyo")
		defer clearEnv()

		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When a service is built from it", func() {
			svc := app.New(serviceOptions(cfg, logger.Nop())...)
			convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then the stats should reflect the configuration", func() {
				stats := svc.GetStats()
				convey.So(stats["weekStart"], convey.ShouldEqual, "Sunday")
				convey.So(stats["timezone"], convey.ShouldEqual, "Asia/Tokyo")
				convey.So(stats["initialMonth"], convey.ShouldEqual, "2026-03")
			})

			convey.Convey("Then the initial navigation should be the configured month", func() {
				nav := svc.InitialNavigation()
				convey.So(nav.Year, convey.ShouldEqual, 2026)
				convey.So(nav.Month, convey.ShouldEqual, time.March)
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithLogger(logger.Nop()))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		mux := newMux(ctx, svc, "Team")

		cases := map[string]int{
			"/":                               http.StatusOK,
			"/static/style.css":               http.StatusOK,
			"/healthz":                        http.StatusOK,
			"/stats":                          http.StatusOK,
			"/calendar?year=2026&month=2":     http.StatusOK,
			"/calendar.ics?year=2026&month=2": http.StatusOK,
			"/events":                         http.StatusOK,
			"/openapi.yaml":                   http.StatusOK,
			"/api-docs":                       http.StatusOK,
			"/calendar?year=2026&month=13":    http.StatusBadRequest,
		}
		for path, want := range cases {
			convey.Convey("Then GET "+path+" should return "+http.StatusText(want), func() {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
				convey.So(rec.Code, convey.ShouldEqual, want)
			})
		}
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the background metrics updaters", t, func() {
		convey.Convey("When the context expires", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			svc := app.New(app.WithLogger(logger.Nop()))
			convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then both should return without panicking", func() {
				convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
				convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
			})
		})

		convey.Convey("Then a direct system update should not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should register under the default namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.viewsBuilt.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var names []string
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "holical_calendar_views_built_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("cal"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithMetricsEnabled(true),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.viewsBuilt.Inc()

			Convey("Then names and labels should follow the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() != "test_cal_views_built_total" {
						continue
					}
					found = true
					So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording repository operations", func() {
			before := testutil.ToFloat64(globalManager.repositoryOps.WithLabelValues("metrics-test", "add"))
			RecordRepositoryOperation("metrics-test", "add", 0.2)
			RecordRepositoryOperation("metrics-test", "add", 0.3)
			RecordRepositoryError("metrics-test", "add")
			UpdateRepositoryRecords("metrics-test", 7)

			Convey("Then counters and gauges should move", func() {
				So(testutil.ToFloat64(globalManager.repositoryOps.WithLabelValues("metrics-test", "add")), ShouldEqual, before+2)
				So(testutil.ToFloat64(globalManager.repositoryErrors.WithLabelValues("metrics-test", "add")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.repositoryRecords.WithLabelValues("metrics-test")), ShouldEqual, 7)
			})
		})

		Convey("When recording calendar activity", func() {
			navBefore := testutil.ToFloat64(globalManager.navigations.WithLabelValues("next"))
			rowsBefore := testutil.ToFloat64(globalManager.importRows.WithLabelValues("rejected"))
			RecordNavigation("next")
			RecordImportRows(4, 2)
			RecordExport("ics")
			RecordViewBuilt(0.4)
			RecordViewError()

			Convey("Then the matching series should be updated", func() {
				So(testutil.ToFloat64(globalManager.navigations.WithLabelValues("next")), ShouldEqual, navBefore+1)
				So(testutil.ToFloat64(globalManager.importRows.WithLabelValues("rejected")), ShouldEqual, rowsBefore+2)
				So(testutil.ToFloat64(globalManager.exports.WithLabelValues("ics")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording HTTP, error and system metrics", func() {
			So(func() {
				RecordHTTPRequest("calendar", "GET", "200")
				RecordHTTPRequestDuration("calendar", "GET", "200", 1.5)
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("events", "POST", "client_error")
				RecordErrorLatency("http", "client_error", 2)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("When metrics are disabled", func() {
			SetEnabled(false)
			defer SetEnabled(true)
			before := testutil.ToFloat64(globalManager.navigations.WithLabelValues("prev"))
			RecordNavigation("prev")

			Convey("Then nothing should be recorded", func() {
				So(testutil.ToFloat64(globalManager.navigations.WithLabelValues("prev")), ShouldEqual, before)
			})
		})

		Convey("Then the registry should be exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}

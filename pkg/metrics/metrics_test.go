package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with the service namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "examprep")
				So(manager.enabled.Load(), ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("pfx_"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
			})

			Convey("And metric names carry the prefix", func() {
				manager.quizMalformed.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_namespace_test_subsystem_pfx_quiz_malformed_total")
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording agent invocations", func() {
			before := testutil.ToFloat64(globalManager.agentInvocations.WithLabelValues("planner", "ok"))
			RecordAgentInvocation("planner", "ok")
			RecordAgentInvocation("planner", "ok")
			RecordAgentLatency("planner", 1200)

			Convey("Then the counter grows by the number of calls", func() {
				after := testutil.ToFloat64(globalManager.agentInvocations.WithLabelValues("planner", "ok"))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When recording evaluation outcomes", func() {
			extracted := testutil.ToFloat64(globalManager.scoresExtracted)
			missing := testutil.ToFloat64(globalManager.scoresMissing)
			persisted := testutil.ToFloat64(globalManager.recordsPersisted)

			RecordScoreExtracted()
			RecordScoreMissing()
			RecordRecordPersisted()
			UpdateRecordsTotal(3)

			Convey("Then each counter moves independently", func() {
				So(testutil.ToFloat64(globalManager.scoresExtracted)-extracted, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.scoresMissing)-missing, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.recordsPersisted)-persisted, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.recordsTotal), ShouldEqual, 3)
			})
		})

		Convey("When updating sessions", func() {
			UpdateActiveSessions(4)

			Convey("Then the gauge reflects the value", func() {
				So(testutil.ToFloat64(globalManager.activeSessions), ShouldEqual, 4)
			})
		})

		Convey("When recording is disabled", func() {
			SetEnabled(false)
			defer SetEnabled(true)
			before := testutil.ToFloat64(globalManager.scoresMissing)

			RecordScoreMissing()

			Convey("Then the counter does not move", func() {
				So(testutil.ToFloat64(globalManager.scoresMissing), ShouldEqual, before)
			})
		})

		Convey("When recording storage, HTTP and error metrics", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordStorageLatency("load", 1.5)
					RecordStorageError("save")
					RecordQuizMalformed()
					RecordHTTPRequest("plan", "POST", "200")
					RecordHTTPRequestDuration("plan", "POST", "200", 800)
					RecordErrorByType("client_error", "medium")
					RecordErrorByEndpoint("plan", "POST", "client_error")
					RecordErrorLatency("http", "client_error", 3)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		registry := GetRegistry()

		Convey("Then it gathers runtime and service metrics", func() {
			RecordQuizMalformed()
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(names, ShouldContain, "examprep_service_quiz_malformed_total")
			So(names, ShouldContain, "go_goroutines")
		})
	})
}

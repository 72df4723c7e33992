package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// value sums every series of the named family in the global registry.
func value(name string) float64 {
	families, err := GetRegistry().Gather()
	So(err, ShouldBeNil)
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue() + m.GetGauge().GetValue()
		}
	}
	return total
}

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When a manager is created with custom options", func() {
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("roundtrip"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then its collectors are registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.messagesChecked.WithLabelValues("game", "matched").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_roundtrip_messages_checked_total"], ShouldBeTrue)
			})
		})

		Convey("When empty buckets and labels are given", func() {
			manager := NewManager(WithHistogramBuckets(nil), WithConstLabels(nil), WithPrometheusRegistry(registry))

			Convey("Then the defaults are kept", func() {
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.constLabels, ShouldBeEmpty)
			})
		})
	})
}

func TestRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When round trips are recorded", func() {
			before := value("mmolb_parse_messages_checked_total")
			RecordMessageChecked("team", "mismatch")
			RecordMessageChecked("team", "mismatch")

			Convey("Then the family and outcome counter moves", func() {
				after := value("mmolb_parse_messages_checked_total")
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When gauges are set", func() {
			UpdateQueueSize(7)
			UpdateQueueCapacity(10)
			UpdateQueueUtilization(0.7)
			UpdateRepositoryResultsTotal(42)

			Convey("Then they hold the last value", func() {
				So(value("mmolb_parse_queue_size"), ShouldEqual, 7)
				So(value("mmolb_parse_queue_capacity"), ShouldEqual, 10)
				So(value("mmolb_parse_repository_results_total"), ShouldEqual, 42)
			})
		})

		Convey("When latencies and errors are recorded", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordParseLatency(0.3)
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					RecordQueueProcessingLatency(0.1)
					RecordWorkerProcessingLatency(2)
					RecordWorkerError()
					RecordRepositorySaveLatency(1)
					RecordRepositoryQueryLatency(1)
					RecordMessageDuplicate()
					RecordHTTPRequest("/parse", "POST", "200")
					RecordHTTPRequestDuration("/parse", "POST", "200", 3)
					RecordErrorByComponent("queue", "capacity_exceeded")
					RecordErrorByType("store_error", "high")
					RecordErrorByEndpoint("/messages", "POST", "queue_full")
					UpdateWorkerActiveCount(4)
					UpdateWorkerMessagesPerSecond(12.5)
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(30)
					RecordSystemGCPauseTime(0.2)
				}, ShouldNotPanic)
			})
		})

		Convey("When the registry is gathered", func() {
			_, err := GetRegistry().Gather()

			Convey("Then it succeeds", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}

// internal/pkg/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fraudgate"

var (
	decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decisions_total",
		Help:      "Pre-authorization runs by outcome.",
	}, []string{"outcome"})

	failOpen = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fail_open_total",
		Help:      "Errors swallowed by the fraud gate, by kind.",
	}, []string{"kind"})

	failureReports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "failure_reports_total",
		Help:      "Payment failure reports sent to the scoring service, by result.",
	}, []string{"result"})

	scoringLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scoring_request_duration_seconds",
		Help:      "Latency of scoring service calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage", "result"})
)

func RecordDecision(outcome string) {
	decisions.WithLabelValues(outcome).Inc()
}

func RecordFailOpen(kind string) {
	failOpen.WithLabelValues(kind).Inc()
}

func RecordFailureReport(result string) {
	failureReports.WithLabelValues(result).Inc()
}

// ObserveScoring 记录一次评分调用的耗时，err 非 nil 时 result 为 error。
func ObserveScoring(stage string, started time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	scoringLatency.WithLabelValues(stage, result).Observe(time.Since(started).Seconds())
}

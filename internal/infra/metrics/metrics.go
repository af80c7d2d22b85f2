package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LedgerOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shelftimer_ledger_ops_total",
		Help: "Ledger load/append operations by result.",
	}, []string{"op", "result"})

	AdvisorRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shelftimer_advisor_requests_total",
		Help: "Chat advisor calls by result.",
	}, []string{"result"})

	AnalyticsDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shelftimer_analytics_duration_seconds",
		Help:    "Time spent computing analytics views.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"op"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shelftimer_http_requests_total",
		Help: "API requests by route and status code.",
	}, []string{"route", "code"})
)

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func ObserveLedger(op string, err error) {
	LedgerOps.WithLabelValues(op, result(err)).Inc()
}

func ObserveAdvisor(err error) {
	AdvisorRequests.WithLabelValues(result(err)).Inc()
}

func ObserveHTTP(route string, code int) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Track замеряет длительность расчёта: defer metrics.Track("dashboard")()
func Track(op string) func() {
	start := time.Now()
	return func() {
		AnalyticsDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/iov-one/custody/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the app instrumentation. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	events     *prometheus.CounterVec
	dispatches *prometheus.CounterVec
}

// NewMetrics returns metrics registered in their own registry, so that
// more than one app can live in a process.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "custody",
			Name:      "operations_total",
			Help:      "Total count of operations by name and result code.",
		}, []string{"operation", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "custody",
			Name:      "operation_duration_seconds",
			Help:      "Histogram of operation durations, including the commit.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "custody",
			Name:      "events_published_total",
			Help:      "Total count of events handed to a sink by result.",
		}, []string{"sink", "result"}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "custody",
			Name:      "dispatches_total",
			Help:      "Total count of dispatched transactions by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.operations,
		m.duration,
		m.events,
		m.dispatches,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the metrics in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, strconv.FormatUint(uint64(errors.Code(err)), 10)).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) published(sink string, n int, err error) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(sink, result(err)).Add(float64(n))
}

func (m *Metrics) dispatched(err error) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "fail"
	}
	return "ok"
}

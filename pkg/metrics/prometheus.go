package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	StoreOperations *prometheus.CounterVec
	StoreRecords    prometheus.Gauge
	RelayCalls      *prometheus.CounterVec
	RelayDuration   *prometheus.HistogramVec
	HTTPRequests    *prometheus.CounterVec
	ErrorsCount     *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics registered on reg.
// Pass prometheus.DefaultRegisterer to expose them on promhttp.Handler().
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StoreOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_store_operations_total",
			Help:      "The total number of booking store operations",
		}, []string{"operation", "result"}),
		StoreRecords: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "booking_store_records",
			Help:      "Current number of records in the booking store",
		}),
		RelayCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_calls_total",
			Help:      "The total number of outbound calls to third-party APIs",
		}, []string{"provider", "operation", "status"}),
		RelayDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "relay_call_duration_seconds",
			Help:      "Time taken by outbound calls to third-party APIs",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "The total number of HTTP requests served",
		}, []string{"method", "route", "code"}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}

// NewNopMetrics returns metrics registered on a private registry, for tests
// and for components constructed more than once per process.
func NewNopMetrics() *Metrics {
	return NewMetrics("test", prometheus.NewRegistry())
}

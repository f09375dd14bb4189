package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	EndpointLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "insidex",
			Subsystem: "api",
			Name:      "latency_seconds",
			Help:      "Latency of backend endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	EndpointErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insidex",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Errors by backend endpoint",
		},
		[]string{"endpoint"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(EndpointLatency, EndpointErrors)
	})
}

// Observe records the latency of one endpoint call and counts it as an
// error when failed is set.
func Observe(endpoint string, start time.Time, failed bool) {
	EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if failed {
		EndpointErrors.WithLabelValues(endpoint).Inc()
	}
}

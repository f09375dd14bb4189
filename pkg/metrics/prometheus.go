package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder records InsideX application metrics in Prometheus.
type Recorder struct {
	clientRequests *prometheus.CounterVec
	clientLatency  *prometheus.HistogramVec
	jobRuns        *prometheus.CounterVec
	signals        *prometheus.GaugeVec
	tradesImported prometheus.Counter
	cacheLookups   *prometheus.CounterVec
}

// New creates a recorder registered on reg. A nil reg uses the default
// registerer, which only accepts one recorder per process.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		clientRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insidex_client_requests_total",
				Help: "API client requests by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		clientLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "insidex_client_request_duration_seconds",
				Help:    "API client request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		jobRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insidex_scheduler_runs_total",
				Help: "Scheduled job runs by job and status",
			},
			[]string{"job", "status"},
		),
		signals: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "insidex_signals_generated",
				Help: "Signals produced by the last computation per window",
			},
			[]string{"window_days"},
		),
		tradesImported: f.NewCounter(
			prometheus.CounterOpts{
				Name: "insidex_trades_imported_total",
				Help: "Trades inserted by imports",
			},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insidex_cache_lookups_total",
				Help: "Cache lookups by result",
			},
			[]string{"cache", "result"},
		),
	}
}

// RecordClientRequest records one API client request. outcome is "ok" or an error kind.
func (r *Recorder) RecordClientRequest(op, outcome string, d time.Duration) {
	r.clientRequests.WithLabelValues(op, outcome).Inc()
	r.clientLatency.WithLabelValues(op).Observe(d.Seconds())
}

// RecordJobRun records a scheduler run.
func (r *Recorder) RecordJobRun(job string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.jobRuns.WithLabelValues(job, status).Inc()
}

// RecordSignals sets the number of signals computed for a window.
func (r *Recorder) RecordSignals(windowLabel string, n int) {
	r.signals.WithLabelValues(windowLabel).Set(float64(n))
}

// RecordTradesImported adds n imported trades.
func (r *Recorder) RecordTradesImported(n int64) {
	r.tradesImported.Add(float64(n))
}

// RecordCacheLookup records a cache hit or miss.
func (r *Recorder) RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(cache, result).Inc()
}

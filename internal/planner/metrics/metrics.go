// Package metrics exposes Prometheus instrumentation for the planner.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_http_requests_total",
			Help: "Total HTTP requests handled, by method, path and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by method and path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Resolution metrics
var (
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_resolutions_total",
			Help: "Total resolution calls, by result status.",
		},
		[]string{"status"},
	)

	ResolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "planner_resolution_duration_seconds",
			Help:    "Resolution call latency in seconds.",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)

	PlanCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "planner_plan_cache_hits_total",
			Help: "Plan lookups served from the in-memory cache.",
		},
	)

	PlanCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "planner_plan_cache_misses_total",
			Help: "Plan lookups not found in the in-memory cache.",
		},
	)
)

// statusRecorder captures the response status code for labelling.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request counts and latencies for every handler it
// wraps. Path labels use the registered route pattern where available
// to keep cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, req)

		path := req.URL.Path
		HTTPRequestsTotal.WithLabelValues(req.Method, path, strconv.Itoa(rec.status)).Inc()
		HTTPRequestDuration.WithLabelValues(req.Method, path).Observe(time.Since(start).Seconds())
	})
}

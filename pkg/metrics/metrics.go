// Package metrics provides the Prometheus instrumentation for till.
//
//	r.Use(metrics.Middleware())
//	r.Get("/metrics", "metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "till",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "till",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "till",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// SyncFallbacks counts remote operations that failed and were served or
	// mirrored by the local store instead.
	SyncFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "till",
			Subsystem: "sync",
			Name:      "fallbacks_total",
			Help:      "Remote store failures degraded to local-only.",
		},
		[]string{"entity", "op"}, // entity: products|transactions, op: list|upsert|remove|append
	)

	// RemoteOps times remote calls by outcome.
	RemoteOps = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "till",
			Subsystem: "sync",
			Name:      "remote_duration_seconds",
			Help:      "Duration of remote store calls in seconds.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"entity", "op", "outcome"},
	)

	// CloudActive is 1 while a remote client is initialised.
	CloudActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "till",
		Subsystem: "sync",
		Name:      "cloud_active",
		Help:      "1 when cloud sync is active, 0 when local-only.",
	})

	Checkouts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "till",
			Subsystem: "sales",
			Name:      "checkouts_total",
			Help:      "Completed checkouts by payment method.",
		},
		[]string{"payment_method"},
	)

	Revenue = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "till",
		Subsystem: "sales",
		Name:      "revenue_total",
		Help:      "Sum of checkout totals since process start.",
	})

	InsightRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "till",
			Subsystem: "insight",
			Name:      "requests_total",
			Help:      "Insight generations by outcome.",
		},
		[]string{"outcome"}, // generated | cached | fallback
	)
)

// DefaultRegistry is the Prometheus registry served on /metrics.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		SyncFallbacks,
		RemoteOps,
		CloudActive,
		Checkouts,
		Revenue,
		InsightRequests,
	)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streams working through the recorder.
func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware records duration, count and in-flight requests. The route label
// is the chi pattern ("/api/products/{id}"), not the raw path.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := strconv.Itoa(rr.status)

			RequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, route, status).Inc()
		})
	}
}

// Handler exposes DefaultRegistry in Prometheus text and OpenMetrics formats.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}

// ObserveRemote records one remote call:
//
//	defer metrics.ObserveRemote("products", "list", time.Now(), &err)
func ObserveRemote(entity, op string, start time.Time, err *error) {
	outcome := "ok"
	if err != nil && *err != nil {
		outcome = "error"
	}
	RemoteOps.WithLabelValues(entity, op, outcome).Observe(time.Since(start).Seconds())
}

// SetCloudActive flips the CloudActive gauge.
func SetCloudActive(active bool) {
	if active {
		CloudActive.Set(1)
		return
	}
	CloudActive.Set(0)
}

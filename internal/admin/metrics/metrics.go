package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Tenant cache counters
	CacheHitCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_tenant_cache_hits_total",
			Help: "Total number of tenant cache hits",
		},
	)

	CacheMissCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_tenant_cache_misses_total",
			Help: "Total number of tenant cache misses",
		},
	)

	CacheInvalidationCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_tenant_cache_invalidations_total",
			Help: "Total number of tenant cache invalidations",
		},
	)

	// Tenant resolution counter by outcome
	TenantResolutionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_tenant_resolutions_total",
			Help: "Total number of tenant resolutions by outcome",
		},
		[]string{"outcome"}, // "ok", "not_found", "inactive", "timeout", "error"
	)

	// Impersonation counter
	ImpersonationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_impersonations_total",
			Help: "Total number of tenant override attempts by outcome",
		},
		[]string{"outcome"}, // "accepted", "rejected"
	)

	// Provisioning counter
	ProvisionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_provisions_total",
			Help: "Total number of resource bundle provisions",
		},
		[]string{"trigger"}, // "register", "self_heal", "backfill", "admin"
	)

	// Job dispatch counter
	JobDispatchCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_job_dispatches_total",
			Help: "Total number of downstream job dispatches",
		},
		[]string{"job", "outcome"}, // job: "bot", "scrape", "update"; outcome: "ok", "timeout", "error"
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "admin_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	TenantResolutionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "admin_tenant_resolution_duration_seconds",
			Help:    "Duration of tenant resolutions in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Gauge metrics
var (
	CachedTenantsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "admin_cached_tenants",
			Help: "Number of tenant contexts currently cached",
		},
	)

	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "admin_info",
			Help: "Information about the admin service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(CacheHitCounter)
	prometheus.MustRegister(CacheMissCounter)
	prometheus.MustRegister(CacheInvalidationCounter)
	prometheus.MustRegister(TenantResolutionCounter)
	prometheus.MustRegister(ImpersonationCounter)
	prometheus.MustRegister(ProvisionCounter)
	prometheus.MustRegister(JobDispatchCounter)
	prometheus.MustRegister(HTTPRequestCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(TenantResolutionDuration)

	prometheus.MustRegister(CachedTenantsGauge)
	prometheus.MustRegister(InfoGauge)
}

// SetInfo records the running service version on the info gauge.
func SetInfo(version string) {
	InfoGauge.With(prometheus.Labels{"version": version}).Set(1)
}

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordResolution records a tenant resolution outcome.
func RecordResolution(outcome string) {
	TenantResolutionCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// RecordImpersonation records a tenant override attempt.
func RecordImpersonation(outcome string) {
	ImpersonationCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// RecordProvision records a resource bundle provision by trigger.
func RecordProvision(trigger string) {
	ProvisionCounter.With(prometheus.Labels{"trigger": trigger}).Inc()
}

// RecordJobDispatch records a downstream job dispatch.
func RecordJobDispatch(job, outcome string) {
	JobDispatchCounter.With(prometheus.Labels{"job": job, "outcome": outcome}).Inc()
}

// TrackResolution measures resolution duration. Call the returned function
// when the resolution completes.
func TrackResolution() func() {
	start := time.Now()
	return func() {
		TenantResolutionDuration.Observe(time.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and durations for every handler it wraps.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rec.status)
		labels := prometheus.Labels{
			"endpoint": r.URL.Path,
			"method":   r.Method,
			"status":   status,
		}

		HTTPRequestCounter.With(labels).Inc()
		RequestDuration.With(labels).Observe(duration)
	})
}

package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neows_http_requests_total",
			Help: "Total number of dashboard HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neows_http_duration_seconds",
			Help:    "Dashboard HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neows_upstream_requests_total",
			Help: "Requests sent to the NeoWs API by endpoint and status code.",
		},
		[]string{"endpoint", "code"},
	)

	upstreamRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "neows_upstream_rate_limit_retries_total",
			Help: "Backoff retries caused by NeoWs rate limiting.",
		},
	)

	cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neows_cache_lookups_total",
			Help: "Response cache lookups by result (hit, miss, expired).",
		},
		[]string{"result"},
	)

	cacheEvictionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "neows_cache_evictions_total",
			Help: "Response cache entries evicted by the capacity bound.",
		},
	)

	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "neows_active_sessions",
			Help: "Dashboard sessions currently held in memory.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(upstreamRequestsTotal)
	prometheus.MustRegister(upstreamRetriesTotal)
	prometheus.MustRegister(cacheLookupsTotal)
	prometheus.MustRegister(cacheEvictionsTotal)
	prometheus.MustRegister(activeSessions)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordUpstream counts one response (or transport failure, code 0) from NeoWs.
func RecordUpstream(endpoint string, code int) {
	upstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
}

// RecordRetry counts one rate-limit backoff.
func RecordRetry() {
	upstreamRetriesTotal.Inc()
}

// RecordCacheLookup counts a cache lookup result: "hit", "miss" or "expired".
func RecordCacheLookup(result string) {
	cacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordCacheEviction counts an entry dropped to respect the cache capacity.
func RecordCacheEviction() {
	cacheEvictionsTotal.Inc()
}

// SetActiveSessions reports the size of the session store.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// exactRoutes are reported under their own label.
var exactRoutes = map[string]bool{
	"/":              true,
	"/search":        true,
	"/reload":        true,
	"/more":          true,
	"/compare":       true,
	"/login":         true,
	"/logout":        true,
	"/healthz":       true,
	"/metrics":       true,
	"/auth/callback": true,
}

// normalizeRoute collapses parameterised paths so object ids do not become
// label values.
func normalizeRoute(path string) string {
	if exactRoutes[path] {
		return path
	}
	switch {
	case strings.HasPrefix(path, "/neo/") && len(path) > len("/neo/"):
		return "/neo/{id}"
	case strings.HasPrefix(path, "/select/") && len(path) > len("/select/"):
		return "/select/{id}"
	}
	return "other"
}

// Middleware records request count and duration for each request.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		code := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			} else {
				code = fiber.StatusInternalServerError
			}
		}

		path := normalizeRoute(c.Path())
		httpRequestsTotal.WithLabelValues(path, c.Method(), strconv.Itoa(code)).Inc()
		httpDurationSeconds.WithLabelValues(path, c.Method()).Observe(time.Since(start).Seconds())

		return err
	}
}

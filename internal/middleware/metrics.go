package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

var sizeBuckets = []float64{100, 1000, 10000, 100000, 1000000}

// Metrics records per-request Prometheus metrics: request counts, latency,
// in-flight gauge and response sizes, all labelled by method, path and status.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
	responseSize     *prometheus.HistogramVec
}

// NewMetrics creates and registers the HTTP metric collectors under the given
// namespace, defaulting to "souq".
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "souq"
	}

	labels := []string{"method", "path", "status"}

	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, labels),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   durationBuckets,
		}, labels),
		requestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),
		responseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   sizeBuckets,
		}, labels),
	}

	prometheus.MustRegister(m.requestsTotal, m.requestDuration, m.requestsInFlight, m.responseSize)

	return m
}

// Middleware returns an HTTP middleware that records request metrics.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		wrapped := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		status := strconv.Itoa(wrapped.statusCode)
		path := normalizePath(r.URL.Path)

		m.requestsTotal.WithLabelValues(r.Method, path, status).Inc()
		m.requestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		m.responseSize.WithLabelValues(r.Method, path, status).Observe(float64(wrapped.bytesWritten))
	})
}

// Handler returns the Prometheus scrape handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (w *metricsResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *metricsResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

// storefrontPrefixes maps path prefixes with a trailing dynamic segment to
// their label form.
var storefrontPrefixes = [][2]string{
	{"/products/", "/products/:slug"},
	{"/orders/", "/orders/:id"},
	{"/reviews/", "/reviews/:id"},
	{"/wishlist/", "/wishlist/:id"},
	{"/account/sessions/", "/account/sessions/:id"},
	{"/account/addresses/", "/account/addresses/:id"},
}

// normalizePath collapses dynamic path segments so metric labels stay
// low-cardinality. Every product slug or order ID would otherwise become its
// own label value.
func normalizePath(path string) string {
	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}

	if strings.HasPrefix(path, "/admin/") {
		return normalizeAdminPath(path)
	}

	for _, p := range storefrontPrefixes {
		if strings.HasPrefix(path, p[0]) && path != p[0] {
			return p[1]
		}
	}

	return path
}

// normalizeAdminPath handles the nested admin routes:
// /admin/{resource}/{id}, /admin/products/{id}/variants,
// /admin/{resource}/{id}/{sub}/{sub_id} and their "new"/"edit" forms.
func normalizeAdminPath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) <= 2 {
		return path
	}

	if segments[2] != "new" {
		segments[2] = ":id"
	}
	if len(segments) >= 5 && segments[4] != "new" && segments[4] != "edit" {
		segments[4] = ":sub_id"
	}

	return "/" + strings.Join(segments, "/")
}

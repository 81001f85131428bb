package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Embed/extract metrics
	stegOperationsTotal   *prometheus.CounterVec
	stegOperationDuration *prometheus.HistogramVec
	payloadSizeBytes      *prometheus.HistogramVec

	// Artifact store metrics
	artifactOperationsTotal *prometheus.CounterVec

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates all Prometheus metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pixelsteg_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pixelsteg_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pixelsteg_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		stegOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pixelsteg_operations_total",
				Help: "Total number of encode, decode and stat operations",
			},
			[]string{"operation", "status"},
		),

		stegOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pixelsteg_operation_duration_seconds",
				Help:    "Encode, decode and stat duration in seconds, including image decoding",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		payloadSizeBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pixelsteg_payload_size_bytes",
				Help:    "Size of embedded and extracted payloads in bytes",
				Buckets: prometheus.ExponentialBuckets(16, 4, 10),
			},
			[]string{"operation"},
		),

		artifactOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pixelsteg_artifact_operations_total",
				Help: "Total number of artifact store operations",
			},
			[]string{"operation", "status"},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pixelsteg_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),
	}

	return m
}

func statusLabel(success bool) string {
	if success {
		return statusSuccess
	}
	return statusError
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordStegOperation records an encode, decode or stat
func (m *Metrics) RecordStegOperation(operation string, success bool, duration time.Duration) {
	m.stegOperationsTotal.WithLabelValues(operation, statusLabel(success)).Inc()
	m.stegOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObservePayloadSize records the size of a payload
func (m *Metrics) ObservePayloadSize(operation string, size int) {
	m.payloadSizeBytes.WithLabelValues(operation).Observe(float64(size))
}

// RecordArtifactOperation records an artifact store operation
func (m *Metrics) RecordArtifactOperation(operation string, success bool) {
	m.artifactOperationsTotal.WithLabelValues(operation, statusLabel(success)).Inc()
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	m.authRequestsTotal.WithLabelValues(statusLabel(success)).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// Capture the status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// InstrumentAuthMiddleware counts authentication outcomes of next
func (m *Metrics) InstrumentAuthMiddleware(next func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasAPIKey := r.Header.Get("X-API-Key") != ""

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next(h).ServeHTTP(rw, r)

			if hasAPIKey {
				m.RecordAuthRequest(rw.statusCode != http.StatusUnauthorized)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServerMetrics owns the api's registry: generic HTTP series plus
// query-pipeline series (retrieval hits, mode split, case counts,
// end-to-end duration).
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	queryTotal          *prometheus.CounterVec
	queryModeTotal      *prometheus.CounterVec
	queryRetrievalHits  *prometheus.CounterVec
	queryNoPrecedent    *prometheus.CounterVec
	queryRetrievedCases *prometheus.HistogramVec
	queryDuration       *prometheus.HistogramVec
	queryModelTotal     *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lja",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lja",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lja",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queryTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lja",
			Subsystem: "query",
			Name:      "requests_total",
			Help:      "Total successful judgment queries.",
		},
		[]string{"service"},
	)
	queryModeTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lja",
			Subsystem: "query",
			Name:      "mode_requests_total",
			Help:      "Total successful queries by retrieval mode.",
		},
		[]string{"service", "mode"},
	)
	queryRetrievalHits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lja",
			Subsystem: "query",
			Name:      "retrieval_hit_total",
			Help:      "Total queries with at least one retrieved case.",
		},
		[]string{"service"},
	)
	queryNoPrecedent := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lja",
			Subsystem: "query",
			Name:      "no_precedent_total",
			Help:      "Total queries answered without retrieved cases.",
		},
		[]string{"service"},
	)
	queryRetrievedCases := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lja",
			Subsystem: "query",
			Name:      "retrieved_cases",
			Help:      "Distribution of retrieved cases per successful query.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 10},
		},
		[]string{"service"},
	)
	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lja",
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "Query execution duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	queryModelTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lja",
			Subsystem: "query",
			Name:      "model_requests_total",
			Help:      "Total successful queries by completion model.",
		},
		[]string{"service", "model"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		queryTotal,
		queryModeTotal,
		queryRetrievalHits,
		queryNoPrecedent,
		queryRetrievedCases,
		queryDuration,
		queryModelTotal,
	)

	return &HTTPServerMetrics{
		registry:            registry,
		requestTotal:        requestTotal,
		requestDuration:     requestDuration,
		requestInFlight:     requestInFlight,
		queryTotal:          queryTotal,
		queryModeTotal:      queryModeTotal,
		queryRetrievalHits:  queryRetrievalHits,
		queryNoPrecedent:    queryNoPrecedent,
		queryRetrievedCases: queryRetrievedCases,
		queryDuration:       queryDuration,
		queryModelTotal:     queryModelTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/sessions/"):
		return "/v1/sessions/{session_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordQuery(service, mode, model string, caseCount int, duration time.Duration) {
	m.queryTotal.WithLabelValues(service).Inc()
	m.queryRetrievedCases.WithLabelValues(service).Observe(float64(caseCount))
	m.queryDuration.WithLabelValues(service).Observe(duration.Seconds())

	if mode == "" {
		mode = "unknown"
	}
	m.queryModeTotal.WithLabelValues(service, mode).Inc()
	if model == "" {
		model = "unknown"
	}
	m.queryModelTotal.WithLabelValues(service, model).Inc()

	if caseCount > 0 {
		m.queryRetrievalHits.WithLabelValues(service).Inc()
		return
	}
	m.queryNoPrecedent.WithLabelValues(service).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}

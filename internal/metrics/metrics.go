// Package metrics provides Prometheus metrics for docchat.
//
// Metrics are registered on a private registry so tests and multiple
// servers in one process never collide. Every recording method is safe
// to call on a nil *Metrics, which lets callers treat metrics as optional.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docchat"

// Metrics holds all Prometheus metrics for docchat.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	RateLimitedTotal     prometheus.Counter

	// Answer metrics
	AnswersTotal       *prometheus.CounterVec
	LLMRequestDuration *prometheus.HistogramVec

	// Retrieval metrics
	QueriesTotal  *prometheus.CounterVec
	ChunksStored  prometheus.Gauge
	Vocabulary    prometheus.Gauge
	IngestedFiles *prometheus.CounterVec
}

// New creates and registers all metrics on a fresh registry,
// including the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	m.RateLimitedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Total number of chat requests rejected by the rate limiter",
		},
	)

	m.AnswersTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Total number of answers by outcome",
		},
		[]string{"outcome"},
	)

	m.LLMRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Duration of generative model calls in seconds",
			Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"model", "status"},
	)

	m.QueriesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_queries_total",
			Help:      "Total number of retrieval queries by result",
		},
		[]string{"result"},
	)

	m.ChunksStored = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "retrieval_chunks_stored",
			Help:      "Number of chunks held by the retrieval store",
		},
	)

	m.Vocabulary = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "retrieval_vocabulary_size",
			Help:      "Number of distinct terms in the current vocabulary",
		},
	)

	m.IngestedFiles = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingested_files_total",
			Help:      "Total number of files processed during ingestion by status",
		},
		[]string{"status"},
	)

	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackInFlight increments the in-flight gauge and returns a func that decrements it.
func (m *Metrics) TrackInFlight() func() {
	if m == nil {
		return func() {}
	}
	m.HTTPRequestsInFlight.Inc()
	return m.HTTPRequestsInFlight.Dec
}

// RecordRateLimited records a request rejected by the rate limiter.
func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}

// RecordAnswer records an answer outcome: "answered" or a fallback reason.
func (m *Metrics) RecordAnswer(outcome string) {
	if m == nil {
		return
	}
	m.AnswersTotal.WithLabelValues(outcome).Inc()
}

// RecordLLMRequest records a generative model call.
func (m *Metrics) RecordLLMRequest(model string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.LLMRequestDuration.WithLabelValues(model, status).Observe(duration.Seconds())
}

// RecordQuery records a retrieval query: "hit", "miss" or "error".
func (m *Metrics) RecordQuery(result string) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(result).Inc()
}

// RecordIngestedFile records one file's ingestion status.
func (m *Metrics) RecordIngestedFile(status string) {
	if m == nil {
		return
	}
	m.IngestedFiles.WithLabelValues(status).Inc()
}

// UpdateStore sets the retrieval store gauges.
func (m *Metrics) UpdateStore(chunks, vocabulary int) {
	if m == nil {
		return
	}
	m.ChunksStored.Set(float64(chunks))
	m.Vocabulary.Set(float64(vocabulary))
}

// Package metrics defines the Prometheus metrics exported by the fulfillment
// service. All recorder methods are safe to call on a nil *Metrics so
// components can run without instrumentation in tests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "au"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Request metrics
	RequestsTotal          *prometheus.CounterVec
	RequestDurationSeconds *prometheus.HistogramVec
	HTTPErrorsTotal        *prometheus.CounterVec
	RateLimitedTotal       *prometheus.CounterVec

	// Fulfillment metrics
	HandlerOutcomesTotal   *prometheus.CounterVec
	RetrieverOutcomesTotal *prometheus.CounterVec

	// NLU metrics
	NLURequestsTotal   *prometheus.CounterVec
	NLUDurationSeconds *prometheus.HistogramVec

	// Knowledge base metrics
	CorpusEntries          prometheus.Gauge
	SingleflightDedupTotal *prometheus.CounterVec

	// Scraper metrics
	ScraperRequestsTotal   *prometheus.CounterVec
	ScraperDurationSeconds *prometheus.HistogramVec
}

// NewRegistry creates a private registry with the Go runtime, process and
// build info collectors attached.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	return registry
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total fulfillment requests by entry point and the stage that produced the answer",
			},
			[]string{"entry", "stage"}, // entry: chat, webhook, line; stage: keyword, nlu, handler, knowledge
		),

		RequestDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Fulfillment request duration in seconds by entry point",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"entry"},
		),

		HTTPErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_errors_total",
				Help:      "Total HTTP errors by type and entry point",
			},
			[]string{"error_type", "entry"}, // error_type: invalid_json, empty_text, invalid_signature
		),

		RateLimitedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_total",
				Help:      "Requests rejected by the per-client rate limiter",
			},
			[]string{"limiter"}, // limiter: chat, line
		),

		HandlerOutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "handler_outcomes_total",
				Help:      "Fact lookup handler outcomes by intent",
			},
			[]string{"intent", "outcome"}, // outcome: answered, clarify, not_found, error
		),

		RetrieverOutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "retriever_outcomes_total",
				Help:      "Knowledge retriever outcomes",
			},
			[]string{"outcome"}, // outcome: hit, miss, unavailable
		),

		NLURequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "nlu_requests_total",
				Help:      "Intent detection calls by provider and status",
			},
			[]string{"provider", "status"}, // status: accepted, discarded, error
		),

		NLUDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "nlu_duration_seconds",
				Help:      "Intent detection latency by provider",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"provider"},
		),

		CorpusEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "corpus_entries",
				Help:      "Number of knowledge entries currently loaded",
			},
		),

		SingleflightDedupTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "singleflight_dedup_total",
				Help:      "Callers that shared an in-flight load instead of running their own",
			},
			[]string{"module"},
		),

		ScraperRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scraper_requests_total",
				Help:      "Corpus page fetches by category and status",
			},
			[]string{"category", "status"}, // status: success, error
		),

		ScraperDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scraper_duration_seconds",
				Help:      "Corpus page fetch duration in seconds by category",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30},
			},
			[]string{"category"},
		),
	}
}

// RecordRequest records which stage answered a request and how long it took.
func (m *Metrics) RecordRequest(entry, stage string, duration float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(entry, stage).Inc()
	m.RequestDurationSeconds.WithLabelValues(entry).Observe(duration)
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, entry string) {
	if m == nil {
		return
	}
	m.HTTPErrorsTotal.WithLabelValues(errorType, entry).Inc()
}

// RecordRateLimited records a request dropped by a rate limiter.
func (m *Metrics) RecordRateLimited(limiter string) {
	if m == nil {
		return
	}
	m.RateLimitedTotal.WithLabelValues(limiter).Inc()
}

// RecordHandlerOutcome records the result of a fact lookup.
func (m *Metrics) RecordHandlerOutcome(intent, outcome string) {
	if m == nil {
		return
	}
	m.HandlerOutcomesTotal.WithLabelValues(intent, outcome).Inc()
}

// RecordRetrieverOutcome records the result of a knowledge search.
func (m *Metrics) RecordRetrieverOutcome(outcome string) {
	if m == nil {
		return
	}
	m.RetrieverOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordNLU records one intent detection call.
func (m *Metrics) RecordNLU(provider, status string, duration float64) {
	if m == nil {
		return
	}
	m.NLURequestsTotal.WithLabelValues(provider, status).Inc()
	m.NLUDurationSeconds.WithLabelValues(provider).Observe(duration)
}

// SetCorpusEntries records the size of the loaded corpus.
func (m *Metrics) SetCorpusEntries(n int) {
	if m == nil {
		return
	}
	m.CorpusEntries.Set(float64(n))
}

// RecordSingleflightDedup records a caller that joined an in-flight load.
func (m *Metrics) RecordSingleflightDedup(module string) {
	if m == nil {
		return
	}
	m.SingleflightDedupTotal.WithLabelValues(module).Inc()
}

// RecordScraperRequest records a page fetch with status
func (m *Metrics) RecordScraperRequest(category, status string, duration float64) {
	if m == nil {
		return
	}
	m.ScraperRequestsTotal.WithLabelValues(category, status).Inc()
	m.ScraperDurationSeconds.WithLabelValues(category).Observe(duration)
}

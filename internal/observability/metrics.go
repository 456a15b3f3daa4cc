package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus collectors for the service. Each instance owns
// its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	decisions       *prometheus.CounterVec
	guardrailFlags  *prometheus.CounterVec
	needsHuman      prometheus.Counter
	polishDuration  *prometheus.HistogramVec
	lookupDuration  *prometheus.HistogramVec
}

// NewMetrics initializes and registers all collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "support_agent_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"path", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "support_agent_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 90},
		}, []string{"path", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "support_agent_http_errors_total",
			Help: "HTTP errors by route, method and error code",
		}, []string{"path", "method", "code"}),
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "support_agent_policy_decisions_total",
			Help: "Policy decisions by code and intent",
		}, []string{"code", "intent"}),
		guardrailFlags: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "support_agent_guardrail_flags_total",
			Help: "Raised guardrail flags by flag name",
		}, []string{"flag"}),
		needsHuman: factory.NewCounter(prometheus.CounterOpts{
			Name: "support_agent_needs_human_total",
			Help: "Replies routed to human review",
		}),
		polishDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "support_agent_polish_duration_seconds",
			Help:    "LLM polish latency by outcome",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 90},
		}, []string{"outcome"}),
		lookupDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "support_agent_core_lookup_duration_seconds",
			Help:    "Order/voucher lookup latency by resource and outcome",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"resource", "outcome"}),
	}
}

// RecordRequest counts a finished HTTP request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError counts a failed HTTP request by error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordDecision counts a policy decision and the flags raised on its reply.
func (m *Metrics) RecordDecision(code, intent string, forbidden, tooLong, needsHuman bool) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(code, intent).Inc()
	if forbidden {
		m.guardrailFlags.WithLabelValues("forbidden").Inc()
	}
	if tooLong {
		m.guardrailFlags.WithLabelValues("too_long").Inc()
	}
	if needsHuman {
		m.needsHuman.Inc()
	}
}

// ObservePolish records the latency of one polish call.
func (m *Metrics) ObservePolish(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.polishDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObserveLookup records the latency of one backend lookup.
func (m *Metrics) ObserveLookup(resource, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.lookupDuration.WithLabelValues(resource, outcome).Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Package metrics records Prometheus metrics for llmprovider calls by wrapping any Provider.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/skosovsky/llmprovider"
)

// LLMBuckets are histogram buckets suited for LLM inference latencies, 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// Status label values.
const (
	StatusOK         = "ok"
	StatusCredential = "credential_error"
	StatusValidation = "validation_error"
	StatusTransport  = "transport_error"
	StatusError      = "error"
)

// Collector owns the provider metrics.
type Collector struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	tokens   *prometheus.CounterVec
}

// New creates the metrics and registers them with reg. A nil reg skips registration.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llmprovider_requests_total",
				Help: "Provider requests",
			},
			[]string{"provider", "model", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llmprovider_request_duration_seconds",
				Help:    "Provider latency",
				Buckets: LLMBuckets,
			},
			[]string{"provider", "model"},
		),
		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llmprovider_tokens_total",
				Help: "Token count",
			},
			[]string{"provider", "model", "direction"},
		),
	}
	if reg != nil {
		reg.MustRegister(c.requests, c.latency, c.tokens)
	}
	return c
}

// Wrap returns a Provider that records metrics around p.
func (c *Collector) Wrap(p llmprovider.Provider) llmprovider.Provider {
	return &instrumented{Provider: p, c: c}
}

type instrumented struct {
	llmprovider.Provider
	c *Collector
}

func (i *instrumented) Execute(ctx context.Context, req *llmprovider.Request, opts *llmprovider.ExecutionOptions) (*llmprovider.Response, error) {
	name := i.Name()
	model := llmprovider.EffectiveModel(req, opts, "")
	start := time.Now()
	resp, err := i.Provider.Execute(ctx, req, opts)
	if resp != nil && resp.Model != "" {
		model = resp.Model
	}
	i.c.latency.WithLabelValues(name, model).Observe(time.Since(start).Seconds())
	i.c.requests.WithLabelValues(name, model, status(err)).Inc()
	if err == nil && resp != nil && resp.Usage != nil {
		i.c.tokens.WithLabelValues(name, model, "input").Add(float64(resp.Usage.InputTokens))
		i.c.tokens.WithLabelValues(name, model, "output").Add(float64(resp.Usage.OutputTokens))
	}
	return resp, err
}

func status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, llmprovider.ErrCredentialMissing):
		return StatusCredential
	case errors.Is(err, llmprovider.ErrInvalidCredential):
		return StatusValidation
	case errors.Is(err, llmprovider.ErrTransport):
		return StatusTransport
	default:
		return StatusError
	}
}

// Package otelprovider adds OpenTelemetry tracing to any llmprovider.Provider.
package otelprovider

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/skosovsky/llmprovider"
)

const (
	instrumentationName = "github.com/skosovsky/llmprovider/ext/otelprovider"
	spanName            = "llmprovider.Execute"
)

// Span attribute keys.
const (
	AttrProvider     = attribute.Key("llm.provider")
	AttrModel        = attribute.Key("llm.model")
	AttrStructured   = attribute.Key("llm.structured")
	AttrInputTokens  = attribute.Key("llm.usage.input_tokens")
	AttrOutputTokens = attribute.Key("llm.usage.output_tokens")
	AttrResultModel  = attribute.Key("llm.response.model")
)

type config struct {
	tp trace.TracerProvider
}

// Option configures the tracing wrapper.
type Option func(*config)

// WithTracerProvider sets the TracerProvider. Default is otel.GetTracerProvider().
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) { c.tp = tp }
}

// Wrap returns a Provider that records one span per Execute call.
// Error text is recorded as returned by p, which is expected to be sanitized already.
func Wrap(p llmprovider.Provider, opts ...Option) llmprovider.Provider {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.tp == nil {
		cfg.tp = otel.GetTracerProvider()
	}
	return &traced{Provider: p, tracer: cfg.tp.Tracer(instrumentationName)}
}

type traced struct {
	llmprovider.Provider
	tracer trace.Tracer
}

func (t *traced) Execute(ctx context.Context, req *llmprovider.Request, opts *llmprovider.ExecutionOptions) (*llmprovider.Response, error) {
	structured := req != nil && req.ResponseFormat.Structured()
	ctx, span := t.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			AttrProvider.String(t.Name()),
			AttrModel.String(llmprovider.EffectiveModel(req, opts, "")),
			AttrStructured.Bool(structured),
		),
	)
	defer span.End()

	resp, err := t.Provider.Execute(ctx, req, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(AttrResultModel.String(resp.Model))
	if resp.Usage != nil {
		span.SetAttributes(
			AttrInputTokens.Int64(resp.Usage.InputTokens),
			AttrOutputTokens.Int64(resp.Usage.OutputTokens),
		)
	}
	return resp, nil
}

package otelprovider

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/skosovsky/llmprovider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	resp *llmprovider.Response
	err  error
}

func (s stubProvider) Name() string { return "stub" }
func (s stubProvider) SupportsModel(string) bool { return true }
func (s stubProvider) Execute(context.Context, *llmprovider.Request, *llmprovider.ExecutionOptions) (*llmprovider.Response, error) {
	return s.resp, s.err
}

func newRecorder(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr, tp
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestWrap_RecordsSpan(t *testing.T) {
	t.Parallel()
	sr, tp := newRecorder(t)
	p := Wrap(stubProvider{resp: &llmprovider.Response{
		Model: "claude-3-5-haiku-20241022",
		Usage: &llmprovider.Usage{InputTokens: 15, OutputTokens: 8},
	}}, WithTracerProvider(tp))

	req := &llmprovider.Request{
		Model: "claude-3-5-haiku",
		ResponseFormat: &llmprovider.ResponseFormat{
			Type:       llmprovider.ResponseFormatJSONSchema,
			JSONSchema: &llmprovider.SchemaDefinition{Name: "person"},
		},
	}
	_, err := p.Execute(context.Background(), req, nil)
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, spanName, spans[0].Name())
	a := attrs(spans[0])
	assert.Equal(t, "stub", a[AttrProvider].AsString())
	assert.Equal(t, "claude-3-5-haiku", a[AttrModel].AsString())
	assert.True(t, a[AttrStructured].AsBool())
	assert.Equal(t, int64(15), a[AttrInputTokens].AsInt64())
	assert.Equal(t, int64(8), a[AttrOutputTokens].AsInt64())
	assert.Equal(t, "claude-3-5-haiku-20241022", a[AttrResultModel].AsString())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestWrap_RecordsError(t *testing.T) {
	t.Parallel()
	sr, tp := newRecorder(t)
	perr := &llmprovider.ProviderError{Provider: "stub", Message: "[REDACTED] rejected", Err: llmprovider.ErrTransport}
	p := Wrap(stubProvider{err: perr}, WithTracerProvider(tp))

	_, err := p.Execute(context.Background(), &llmprovider.Request{}, nil)
	require.ErrorIs(t, err, llmprovider.ErrTransport)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, perr.Error(), spans[0].Status().Description)
	require.NotEmpty(t, spans[0].Events())
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

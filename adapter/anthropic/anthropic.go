package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/skosovsky/llmprovider"
	"github.com/skosovsky/llmprovider/adapter"
	"github.com/skosovsky/llmprovider/redact"
)

const (
	// ProviderName identifies this adapter in errors, logs and metrics.
	ProviderName = "anthropic"
	// EnvAPIKey is read when ExecutionOptions.APIKey is empty.
	EnvAPIKey = "ANTHROPIC_API_KEY"
	// ModelPrefix is the model family served by this adapter.
	ModelPrefix = "claude"

	defaultMaxTokens int64 = 4096
)

// DefaultModel is used when neither options nor request name a model.
const DefaultModel = anthropic.ModelClaudeSonnet4_5_20250929

// MessageCreator is the single vendor operation the adapter needs.
// *anthropic.MessageService satisfies it.
type MessageCreator interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// ClientFactory builds a vendor client for one call.
type ClientFactory func(apiKey string, opts ...option.RequestOption) MessageCreator

// NewSDKClient is the default ClientFactory backed by anthropic-sdk-go.
func NewSDKClient(apiKey string, opts ...option.RequestOption) MessageCreator {
	all := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := anthropic.NewClient(all...)
	return &client.Messages
}

// Adapter implements llmprovider.Provider for the Anthropic Messages API.
// It holds no per-call state; every Execute builds its own client.
type Adapter struct {
	defaultModel anthropic.Model
	maxTokens    int64
	newClient    ClientFactory
	sanitizer    redact.Sanitizer
	logger       *slog.Logger
	lookupEnv    adapter.LookupEnv
	requestOpts  []option.RequestOption
}

// Option configures an Adapter (e.g. WithModel).
type Option func(*Adapter)

// WithModel sets the model used when neither options nor request name one.
func WithModel(m anthropic.Model) Option {
	return func(a *Adapter) { a.defaultModel = m }
}

// WithMaxTokens sets the response cap used when ExecutionOptions.MaxTokens is unset.
func WithMaxTokens(n int64) Option {
	return func(a *Adapter) { a.maxTokens = n }
}

// WithClientFactory replaces the vendor client constructor (tests, custom transports).
func WithClientFactory(f ClientFactory) Option {
	return func(a *Adapter) { a.newClient = f }
}

// WithSanitizer sets the collaborator that strips credentials from error text.
// A nil sanitizer keeps the default Redactor.
func WithSanitizer(s redact.Sanitizer) Option {
	return func(a *Adapter) { a.sanitizer = s }
}

// WithLogger sets the structured logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// WithEnvLookup replaces os.LookupEnv for credential resolution.
func WithEnvLookup(f adapter.LookupEnv) Option {
	return func(a *Adapter) { a.lookupEnv = f }
}

// WithRequestOptions appends SDK request options to every client (e.g. option.WithBaseURL).
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(a *Adapter) { a.requestOpts = append(a.requestOpts, opts...) }
}

// New returns an Adapter with defaults: DefaultModel, 4096 max tokens, the SDK client,
// a Redactor for Anthropic keys and slog.Default().
func New(opts ...Option) *Adapter {
	a := &Adapter{
		defaultModel: DefaultModel,
		maxTokens:    defaultMaxTokens,
		newClient:    NewSDKClient,
		sanitizer:    redact.New(redact.AnthropicKeyPattern),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.sanitizer == nil {
		a.sanitizer = redact.New(redact.AnthropicKeyPattern)
	}
	return a
}

// Name returns "anthropic".
func (a *Adapter) Name() string { return ProviderName }

// SupportsModel reports whether model belongs to the Claude family.
func (a *Adapter) SupportsModel(model string) bool {
	return model != "" && strings.HasPrefix(model, ModelPrefix)
}

// Execute translates req, calls the Messages API once and normalizes the answer.
func (a *Adapter) Execute(ctx context.Context, req *llmprovider.Request, opts *llmprovider.ExecutionOptions) (*llmprovider.Response, error) {
	if req == nil {
		return nil, llmprovider.ErrNilRequest
	}
	key, err := a.credential(opts)
	if err != nil {
		return nil, err
	}
	params, err := a.BuildParams(req, opts)
	if err != nil {
		return nil, err
	}
	structured := req.ResponseFormat.Structured()
	log := a.logger.With("provider", ProviderName, "model", string(params.Model), "structured", structured)
	log.DebugContext(ctx, "sending message", "turns", len(params.Messages))

	client := a.newClient(key, a.clientOptions(opts)...)
	msg, err := client.New(ctx, params)
	if err != nil {
		perr := a.transportError(err, key)
		log.WarnContext(ctx, "message failed", "err", perr.Message, "status", perr.StatusCode)
		return nil, perr
	}
	resp := ParseResponse(msg, structured)
	log.DebugContext(ctx, "message done",
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", resp.StopReason,
	)
	return resp, nil
}

func (a *Adapter) credential(opts *llmprovider.ExecutionOptions) (string, error) {
	key, ok := adapter.ResolveAPIKey(opts, EnvAPIKey, a.lookupEnv)
	if !ok {
		return "", &llmprovider.ProviderError{
			Provider: ProviderName,
			Message:  fmt.Sprintf("API key is required: set %s or ExecutionOptions.APIKey", EnvAPIKey),
			Err:      llmprovider.ErrCredentialMissing,
		}
	}
	if !adapter.ValidKey(redact.AnthropicKeyPattern, key) {
		return "", &llmprovider.ProviderError{
			Provider: ProviderName,
			Message:  "API key has invalid format",
			Err:      llmprovider.ErrInvalidCredential,
		}
	}
	return key, nil
}

func (a *Adapter) clientOptions(opts *llmprovider.ExecutionOptions) []option.RequestOption {
	out := append([]option.RequestOption(nil), a.requestOpts...)
	if opts == nil {
		return out
	}
	if opts.Timeout > 0 {
		out = append(out, option.WithRequestTimeout(opts.Timeout))
	}
	if opts.Retries != nil {
		out = append(out, option.WithMaxRetries(*opts.Retries))
	}
	return out
}

// BuildParams converts a neutral request into MessageNewParams without any I/O.
func (a *Adapter) BuildParams(req *llmprovider.Request, opts *llmprovider.ExecutionOptions) (anthropic.MessageNewParams, error) {
	if req == nil {
		return anthropic.MessageNewParams{}, llmprovider.ErrNilRequest
	}
	part, err := adapter.SplitMessages(req.Messages)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(llmprovider.EffectiveModel(req, opts, string(a.defaultModel))),
		MaxTokens: a.maxTokens,
		Messages:  make([]anthropic.MessageParam, 0, len(part.Turns)),
	}
	if opts != nil {
		if opts.MaxTokens != nil {
			params.MaxTokens = *opts.MaxTokens
		}
		if opts.Temperature != nil {
			params.Temperature = anthropic.Float(*opts.Temperature)
		}
	}
	if part.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: part.System}}
	}
	for _, m := range part.Turns {
		params.Messages = append(params.Messages, turn(m))
	}
	if req.ResponseFormat.Structured() {
		tool, err := schemaTool(req.ResponseFormat.JSONSchema)
		if err != nil {
			return anthropic.MessageNewParams{}, err
		}
		params.Tools = []anthropic.ToolUnionParam{tool}
		params.ToolChoice = anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: req.ResponseFormat.JSONSchema.Name},
		}
	}
	return params, nil
}

// turn maps a non-instruction message to a vendor turn. The vendor only knows user and
// assistant turns, so tool output is sent as user text.
func turn(m llmprovider.Message) anthropic.MessageParam {
	block := anthropic.NewTextBlock(llmprovider.ContentString(m.Content))
	if m.Role == llmprovider.RoleAssistant {
		return anthropic.NewAssistantMessage(block)
	}
	return anthropic.NewUserMessage(block)
}

// schemaTool builds the single forced tool that carries the response schema.
func schemaTool(def *llmprovider.SchemaDefinition) (anthropic.ToolUnionParam, error) {
	fields, err := adapter.SchemaFields(def.Schema)
	if err != nil {
		return anthropic.ToolUnionParam{}, fmt.Errorf("%w: schema %q", err, def.Name)
	}
	schema := anthropic.ToolInputSchemaParam{
		Type:        constant.Object(fields.Type),
		Required:    fields.Required,
		ExtraFields: fields.Extra,
	}
	if fields.Properties != nil {
		schema.Properties = fields.Properties
	}
	tool := anthropic.ToolUnionParamOfTool(schema, def.Name)
	if def.Description != "" {
		tool.OfTool.Description = anthropic.String(def.Description)
	}
	return tool, nil
}

// ParseResponse normalizes a vendor message. With structured set, Content is the first
// tool_use input as indented JSON (empty when the model did not call the tool); otherwise
// it is the text of the first content block.
func ParseResponse(msg *anthropic.Message, structured bool) *llmprovider.Response {
	resp := &llmprovider.Response{
		Model:      string(msg.Model),
		StopReason: string(msg.StopReason),
		Usage: &llmprovider.Usage{
			InputTokens:  msg.Usage.InputTokens,
			OutputTokens: msg.Usage.OutputTokens,
		},
	}
	var firstInput json.RawMessage
	for _, block := range msg.Content {
		if block.Type != "tool_use" {
			continue
		}
		args := block.Input
		if len(args) == 0 {
			args = json.RawMessage("{}")
		}
		if firstInput == nil {
			firstInput = args
		}
		resp.ToolCalls = append(resp.ToolCalls, llmprovider.ToolCall{ID: block.ID, Name: block.Name, Arguments: args})
	}
	if structured {
		resp.Content = prettyJSON(firstInput)
		return resp
	}
	if len(msg.Content) > 0 && msg.Content[0].Type == "text" {
		resp.Content = msg.Content[0].Text
	}
	return resp
}

func prettyJSON(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// transportError converts an SDK failure into a sanitized ProviderError. The SDK error
// itself is dropped because its text and request dump may carry the key.
func (a *Adapter) transportError(err error, key string) *llmprovider.ProviderError {
	perr := &llmprovider.ProviderError{
		Provider: ProviderName,
		Message:  a.sanitizer.Sanitize(err.Error(), key),
		Err:      llmprovider.ErrTransport,
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		perr.StatusCode = apiErr.StatusCode
	}
	for _, ctxErr := range []error{context.Canceled, context.DeadlineExceeded} {
		if errors.Is(err, ctxErr) {
			perr.Cause = append(perr.Cause, ctxErr)
		}
	}
	return perr
}

var _ llmprovider.Provider = (*Adapter)(nil)

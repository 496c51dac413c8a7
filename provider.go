package llmprovider

import (
	"context"
	"encoding/json"
)

// Role is the message role in a chat.
type Role string

// Chat message roles.
const (
	RoleSystem    Role = "system"
	RoleDeveloper Role = "developer"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// IsInstruction reports whether messages with this role carry instructions
// (system prompt) rather than conversation turns.
func (r Role) IsInstruction() bool {
	return r == RoleSystem || r == RoleDeveloper
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleDeveloper, RoleUser, RoleAssistant, RoleTool:
		return true
	default:
		return false
	}
}

// Message is a single role-tagged chat message. Content may be nil (absent).
type Message struct {
	Role    Role
	Content Content
	Name    string
}

// ResponseFormatJSONSchema selects structured output constrained by a JSON Schema.
const ResponseFormatJSONSchema = "json_schema"

// SchemaDefinition is a named JSON Schema for structured output.
type SchemaDefinition struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema"`
}

// ResponseFormat describes the shape of the expected model output.
type ResponseFormat struct {
	Type       string            `json:"type" yaml:"type"`
	JSONSchema *SchemaDefinition `json:"json_schema,omitempty" yaml:"json_schema"`
}

// Structured reports whether the format requests schema-constrained output.
func (f *ResponseFormat) Structured() bool {
	return f != nil && f.Type == ResponseFormatJSONSchema && f.JSONSchema != nil
}

// Validator checks a provider response. Providers carry it through untouched; callers run it.
type Validator interface {
	Validate(resp *Response) error
}

// Request is a provider-neutral completion request. Providers only read it.
type Request struct {
	Messages       []Message
	Model          string
	ResponseFormat *ResponseFormat
	Validator      Validator
}

// Usage holds token counters as reported by the vendor.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// ToolCall is a tool invocation emitted by the model.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Response is the normalized result of a single Execute call.
type Response struct {
	Content    string     `json:"content"`
	Model      string     `json:"model"`
	Usage      *Usage     `json:"usage,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	StopReason string     `json:"stop_reason,omitempty"`
}

// Provider is a pluggable LLM backend behind the neutral request/response contract.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Name returns the provider identifier (e.g. "anthropic").
	Name() string
	// SupportsModel reports whether the provider serves the given model id.
	SupportsModel(model string) bool
	// Execute performs one completion call. opts may be nil.
	Execute(ctx context.Context, req *Request, opts *ExecutionOptions) (*Response, error)
}

package llmprovider

import (
	"time"

	"github.com/skosovsky/llmprovider/internal/cast"
)

// ExecutionOptions configures a single Execute call. The zero value (or nil) means defaults.
// Timeout and Retries are handed to the vendor client; providers do not enforce them.
type ExecutionOptions struct {
	APIKey      string // empty means "use the environment"
	Model       string // overrides Request.Model
	Temperature *float64
	MaxTokens   *int64
	Timeout     time.Duration
	Retries     *int
}

// ExecutionOption mutates ExecutionOptions (functional options pattern).
type ExecutionOption func(*ExecutionOptions)

// WithAPIKey overrides the credential resolved from the environment.
func WithAPIKey(key string) ExecutionOption {
	return func(o *ExecutionOptions) { o.APIKey = key }
}

// WithModel overrides the request model.
func WithModel(model string) ExecutionOption {
	return func(o *ExecutionOptions) { o.Model = model }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ExecutionOption {
	return func(o *ExecutionOptions) { o.Temperature = &t }
}

// WithMaxTokens caps the response length.
func WithMaxTokens(n int64) ExecutionOption {
	return func(o *ExecutionOptions) { o.MaxTokens = &n }
}

// WithTimeout sets the per-request timeout passed to the vendor client.
func WithTimeout(d time.Duration) ExecutionOption {
	return func(o *ExecutionOptions) { o.Timeout = d }
}

// WithRetries sets the retry budget passed to the vendor client.
func WithRetries(n int) ExecutionOption {
	return func(o *ExecutionOptions) { o.Retries = &n }
}

// NewExecutionOptions builds ExecutionOptions from functional options.
func NewExecutionOptions(opts ...ExecutionOption) *ExecutionOptions {
	o := &ExecutionOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// optionKeys maps accepted map keys (snake and camel case) to canonical names.
var optionKeys = map[string]string{
	"api_key":     "api_key",
	"apiKey":      "api_key",
	"model":       "model",
	"temperature": "temperature",
	"max_tokens":  "max_tokens",
	"maxTokens":   "max_tokens",
	"timeout":     "timeout",
	"retries":     "retries",
}

// OptionsFromMap reads well-known keys from a loosely typed map (e.g. decoded YAML).
// Unknown keys and values of the wrong type are ignored.
func OptionsFromMap(cfg map[string]any) *ExecutionOptions {
	out := &ExecutionOptions{}
	for k, v := range cfg {
		switch optionKeys[k] {
		case "api_key":
			if s, ok := v.(string); ok {
				out.APIKey = s
			}
		case "model":
			if s, ok := v.(string); ok {
				out.Model = s
			}
		case "temperature":
			if f, ok := cast.ToFloat64(v); ok {
				out.Temperature = &f
			}
		case "max_tokens":
			if i, ok := cast.ToInt64(v); ok {
				out.MaxTokens = &i
			}
		case "timeout":
			if d, ok := cast.ToDuration(v); ok {
				out.Timeout = d
			}
		case "retries":
			if i, ok := cast.ToInt64(v); ok {
				n := int(i)
				out.Retries = &n
			}
		}
	}
	return out
}

// Merge returns a copy of o with every field set in override taking precedence.
// Either side may be nil.
func (o *ExecutionOptions) Merge(override *ExecutionOptions) *ExecutionOptions {
	out := &ExecutionOptions{}
	if o != nil {
		*out = *o
	}
	if override == nil {
		return out
	}
	if override.APIKey != "" {
		out.APIKey = override.APIKey
	}
	if override.Model != "" {
		out.Model = override.Model
	}
	if override.Temperature != nil {
		out.Temperature = override.Temperature
	}
	if override.MaxTokens != nil {
		out.MaxTokens = override.MaxTokens
	}
	if override.Timeout != 0 {
		out.Timeout = override.Timeout
	}
	if override.Retries != nil {
		out.Retries = override.Retries
	}
	return out
}

// EffectiveModel returns the options model, else the request model, else fallback.
func EffectiveModel(req *Request, opts *ExecutionOptions, fallback string) string {
	if opts != nil && opts.Model != "" {
		return opts.Model
	}
	if req != nil && req.Model != "" {
		return req.Model
	}
	return fallback
}

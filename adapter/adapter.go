package adapter

import (
	"errors"
	"os"
	"regexp"
	"strings"

	"github.com/skosovsky/llmprovider"
	"github.com/skosovsky/llmprovider/internal/cast"
)

// Sentinel errors for adapter implementations. Callers should use errors.Is.
var (
	ErrUnsupportedRole = errors.New("adapter: unsupported message role for this provider")
	ErrMalformedSchema = errors.New("adapter: response schema is malformed")
)

// LookupEnv reads an environment variable. os.LookupEnv satisfies it; tests inject a map.
type LookupEnv func(key string) (string, bool)

// Partition is a request split into the instruction text and the conversation turns.
type Partition struct {
	System string
	Turns  []llmprovider.Message
}

// SplitMessages collects system and developer messages into one system prompt (joined by a blank
// line, trimmed) and keeps every other message, in order, as a turn.
// Unknown roles fail with ErrUnsupportedRole.
func SplitMessages(msgs []llmprovider.Message) (Partition, error) {
	var system []string
	turns := make([]llmprovider.Message, 0, len(msgs))
	for _, m := range msgs {
		if !m.Role.Valid() {
			return Partition{}, ErrUnsupportedRole
		}
		if m.Role.IsInstruction() {
			system = append(system, llmprovider.ContentString(m.Content))
			continue
		}
		turns = append(turns, m)
	}
	return Partition{
		System: strings.TrimSpace(strings.Join(system, "\n\n")),
		Turns:  turns,
	}, nil
}

// ResolveAPIKey returns the options key, else the value of envVar. Empty values count as absent.
// A nil lookup uses os.LookupEnv.
func ResolveAPIKey(opts *llmprovider.ExecutionOptions, envVar string, lookup LookupEnv) (string, bool) {
	if opts != nil && opts.APIKey != "" {
		return opts.APIKey, true
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(envVar); ok && v != "" {
		return v, true
	}
	return "", false
}

// ValidKey reports whether key matches pattern over its whole length.
func ValidKey(pattern *regexp.Regexp, key string) bool {
	loc := pattern.FindStringIndex(key)
	return loc != nil && loc[0] == 0 && loc[1] == len(key)
}

// Schema is a JSON Schema map split into the fields vendors model explicitly and the rest.
type Schema struct {
	Type       string
	Properties map[string]any
	Required   []string
	// Extra holds every other key ($defs, additionalProperties, enum, ...) unchanged.
	Extra map[string]any
}

// SchemaFields splits a JSON Schema map into type, properties, required and the remaining keys.
// Type defaults to "object". required may be []string or []any of strings; anything else is
// ErrMalformedSchema.
func SchemaFields(schema map[string]any) (Schema, error) {
	out := Schema{Type: "object"}
	for k, v := range schema {
		switch k {
		case "type":
			if t, ok := v.(string); ok && t != "" {
				out.Type = t
			}
		case "properties":
			p, ok := v.(map[string]any)
			if !ok {
				return Schema{}, ErrMalformedSchema
			}
			out.Properties = p
		case "required":
			if v == nil {
				continue
			}
			r, ok := cast.ToStringSlice(v)
			if !ok {
				return Schema{}, ErrMalformedSchema
			}
			out.Required = r
		default:
			if out.Extra == nil {
				out.Extra = make(map[string]any)
			}
			out.Extra[k] = v
		}
	}
	return out, nil
}

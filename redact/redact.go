// Package redact removes credential material from text before it leaves a provider.
//
// A Redactor is built once with the credential patterns it should recognize and
// handed to an adapter at construction time; nothing is registered globally.
package redact

import (
	"regexp"
	"slices"
	"strings"
)

// Placeholder replaces every redacted substring.
const Placeholder = "[REDACTED]"

// AnthropicKeyPattern matches Anthropic API keys: "sk-ant-", an optional "api<digits>-" segment,
// then letters, digits, '-' and '_'.
var AnthropicKeyPattern = regexp.MustCompile(`sk-ant-(?:api\d+-)?[A-Za-z0-9_-]+`)

// Sanitizer strips secrets from text. secrets are literal values known to the caller
// (e.g. the key used for the call) and are removed in addition to any configured patterns.
type Sanitizer interface {
	Sanitize(text string, secrets ...string) string
}

// Redactor is a Sanitizer driven by regular expressions. Safe for concurrent use.
type Redactor struct {
	patterns []*regexp.Regexp
}

// New returns a Redactor for the given patterns. Nil patterns are skipped.
func New(patterns ...*regexp.Regexp) *Redactor {
	r := &Redactor{}
	for _, p := range patterns {
		if p != nil {
			r.patterns = append(r.patterns, p)
		}
	}
	return r
}

// Sanitize replaces the literal secrets first (longest first, so a key that contains
// another secret is not split) and then every pattern match.
func (r *Redactor) Sanitize(text string, secrets ...string) string {
	if text == "" {
		return text
	}
	lits := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if s != "" {
			lits = append(lits, s)
		}
	}
	slices.SortFunc(lits, func(a, b string) int { return len(b) - len(a) })
	for _, s := range lits {
		text = strings.ReplaceAll(text, s, Placeholder)
	}
	for _, p := range r.patterns {
		text = p.ReplaceAllLiteralString(text, Placeholder)
	}
	return text
}

var _ Sanitizer = (*Redactor)(nil)

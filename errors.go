package llmprovider

import (
	"errors"
	"fmt"
)

// Sentinel errors for provider operations.
// All use prefix "llmprovider:" for identification. Callers should use errors.Is/errors.As.
var (
	ErrCredentialMissing = errors.New("llmprovider: API key is required")
	ErrInvalidCredential = errors.New("llmprovider: API key has invalid format")
	ErrTransport         = errors.New("llmprovider: provider call failed")
	ErrNilRequest        = errors.New("llmprovider: request must not be nil")
	ErrNoProvider        = errors.New("llmprovider: no provider supports model")
)

// ProviderError tags a failure with the provider that produced it.
// Message must already be free of credential material; providers sanitize before constructing it.
// Use errors.Is(err, ErrTransport) and errors.As(err, &providerErr) to inspect.
type ProviderError struct {
	Provider   string
	StatusCode int // vendor HTTP status, 0 when unknown
	Message    string
	Err        error   // sentinel classifying the failure
	Cause      []error // extra non-sensitive causes (e.g. context.Canceled)
}

// Error implements error.
func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("llmprovider: %s (status %d): %s", e.Provider, e.StatusCode, msg)
	}
	return fmt.Sprintf("llmprovider: %s: %s", e.Provider, msg)
}

// Unwrap returns the sentinel and any extra causes for errors.Is/errors.As.
func (e *ProviderError) Unwrap() []error {
	out := make([]error, 0, 1+len(e.Cause))
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return append(out, e.Cause...)
}

// Compile-time check that ProviderError implements error.
var _ error = (*ProviderError)(nil)

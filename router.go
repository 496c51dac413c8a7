package llmprovider

import (
	"context"
	"fmt"
)

// Router dispatches each call to the first provider whose SupportsModel accepts the effective model.
// Order of providers is the order of precedence. Router itself implements Provider.
type Router struct {
	providers []Provider
}

// NewRouter returns a Router over providers. Nil providers are skipped.
func NewRouter(providers ...Provider) *Router {
	r := &Router{providers: make([]Provider, 0, len(providers))}
	for _, p := range providers {
		if p != nil {
			r.providers = append(r.providers, p)
		}
	}
	return r
}

// Name returns "router".
func (r *Router) Name() string { return "router" }

// SupportsModel reports whether any registered provider supports model.
func (r *Router) SupportsModel(model string) bool {
	return r.Resolve(model) != nil
}

// Resolve returns the provider for model, or nil.
func (r *Router) Resolve(model string) Provider {
	for _, p := range r.providers {
		if p.SupportsModel(model) {
			return p
		}
	}
	return nil
}

// Execute forwards to the resolved provider. The model is taken from opts, then req.
func (r *Router) Execute(ctx context.Context, req *Request, opts *ExecutionOptions) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	model := EffectiveModel(req, opts, "")
	p := r.Resolve(model)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoProvider, model)
	}
	return p.Execute(ctx, req, opts)
}

var _ Provider = (*Router)(nil)

package bot

import (
	"context"
)

// Registry holds the fact lookup handlers in keyword priority order.
type Registry struct {
	handlers []Handler
	byIntent map[string]Handler
	chain    HandlerFunc
}

// NewRegistry creates a registry. Middlewares wrap every dispatch, the
// first one outermost.
func NewRegistry(middlewares ...Middleware) *Registry {
	return &Registry{
		handlers: make([]Handler, 0, 5),
		byIntent: make(map[string]Handler),
		chain:    Chain(middlewares...),
	}
}

// Register adds a handler. Keyword matching tries handlers in registration order.
func (r *Registry) Register(h Handler) {
	r.handlers = append(r.handlers, h)
	r.byIntent[h.Intent()] = h
}

// Handlers returns the registered handlers in priority order.
func (r *Registry) Handlers() []Handler {
	return r.handlers
}

// Match returns the first handler whose keywords occur in text.
func (r *Registry) Match(text string) Handler {
	for _, h := range r.handlers {
		if h.CanHandle(text) {
			return h
		}
	}
	return nil
}

// ForIntent returns the handler fulfilling an intent display name, or nil.
func (r *Registry) ForIntent(intent string) Handler {
	return r.byIntent[intent]
}

// Invoke runs h through the middleware chain.
func (r *Registry) Invoke(ctx context.Context, h Handler, bag Params, text string) string {
	return r.chain(ctx, h, bag, text)
}

// DispatchText runs the first keyword-matching handler with parameters
// inferred from text. ok is false when no handler matched.
func (r *Registry) DispatchText(ctx context.Context, text string) (response string, h Handler, ok bool) {
	h = r.Match(text)
	if h == nil {
		return "", nil, false
	}
	return r.Invoke(ctx, h, nil, text), h, true
}

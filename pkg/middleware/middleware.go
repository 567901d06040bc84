// Package middleware implements an ordered middleware stack plus the CORS
// and request-logging middleware used by the API module.
package middleware

import "net/http"

// System is an ordered middleware stack: Use appends, Apply wraps a handler
// so the first middleware added is the outermost.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type stack struct {
	chain []func(http.Handler) http.Handler
}

// New returns an empty stack.
func New() System {
	return &stack{chain: []func(http.Handler) http.Handler{}}
}

func (s *stack) Use(fn func(http.Handler) http.Handler) {
	s.chain = append(s.chain, fn)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.chain) - 1; i >= 0; i-- {
		handler = s.chain[i](handler)
	}
	return handler
}

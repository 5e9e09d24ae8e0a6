package middleware

import "net/http"

// Func wraps an http.Handler.
type Func = func(http.Handler) http.Handler

// System manages an ordered stack of HTTP middleware.
type System interface {
	Use(fn Func)
	Apply(handler http.Handler) http.Handler
}

type stack struct {
	fns []Func
}

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(fn Func) {
	s.fns = append(s.fns, fn)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	return Chain(s.fns...)(handler)
}

// Chain composes fns into one middleware. The first function is outermost.
func Chain(fns ...Func) Func {
	return func(h http.Handler) http.Handler {
		for i := len(fns) - 1; i >= 0; i-- {
			h = fns[i](h)
		}
		return h
	}
}

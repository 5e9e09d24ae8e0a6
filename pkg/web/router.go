package web

import "net/http"

// Router is an http.ServeMux whose unmatched requests go to a fallback
// handler instead of the default 404.
type Router struct {
	mux      *http.ServeMux
	fallback http.Handler
}

// NewRouter creates a Router. A nil fallback keeps the ServeMux 404.
func NewRouter(fallback http.HandlerFunc) *Router {
	r := &Router{mux: http.NewServeMux()}
	if fallback != nil {
		r.fallback = fallback
	}
	return r
}

// Handle registers handler for pattern.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

// HandleFunc registers handler for pattern.
func (r *Router) HandleFunc(pattern string, handler http.HandlerFunc) {
	r.mux.HandleFunc(pattern, handler)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.fallback != nil {
		if _, pattern := r.mux.Handler(req); pattern == "" {
			r.fallback.ServeHTTP(w, req)
			return
		}
	}
	r.mux.ServeHTTP(w, req)
}

package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Under returns the ServeMux pattern of r mounted below prefix.
func (r Route) Under(prefix string) string {
	return r.Method + " " + prefix + r.Pattern
}

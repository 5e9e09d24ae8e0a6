package routes

import (
	"net/http"
	"slices"

	"github.com/JaimeStill/wayfinder/pkg/middleware"
)

// Group organizes routes under a common prefix. Middleware wraps every route
// of the group and of its children, outermost first.
type Group struct {
	Prefix     string
	Routes     []Route
	Children   []Group
	Middleware []middleware.Func
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", nil, group)
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, inherited []middleware.Func, group Group) {
	prefix := parentPrefix + group.Prefix
	stack := slices.Concat(inherited, group.Middleware)
	chain := middleware.Chain(stack...)

	for _, route := range group.Routes {
		mux.Handle(route.Under(prefix), chain(route.Handler))
	}
	for _, child := range group.Children {
		registerGroup(mux, prefix, stack, child)
	}
}

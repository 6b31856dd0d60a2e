package router

import (
	"strings"

	"github.com/tofu345/http-library/http"
	"github.com/tofu345/http-library/http/status"
)

// Routes is a read-only set of routes. The zero value contains no routes and answers
// every request with 404.
type Routes struct {
	routes           []Route
	notFound         http.Handler
	methodNotAllowed http.Handler
}

// Resolve returns the first route, in the order of registration, whose pattern matches
// the path. Later routes are never considered, even if they'd match as well.
func (r Routes) Resolve(path string) (Route, bool) {
	for _, route := range r.routes {
		if route.Matches(path) {
			return route, true
		}
	}

	return Route{}, false
}

// Lookup picks the handler for the request: the route's one, the 405 handler if the route
// exists but doesn't allow the method, or the 404 handler if there's no such route.
func (r Routes) Lookup(req *http.Request) http.Handler {
	route, found := r.Resolve(req.Path)
	if !found {
		return handlerOr(r.notFound, NotFound)
	}

	if !route.HasMethod(req.Method) {
		return withAllow(handlerOr(r.methodNotAllowed, defaultMethodNotAllowed), route.Methods)
	}

	return route.Handler
}

func (r Routes) Len() int {
	return len(r.routes)
}

// NotFound is the default 404 handler.
func NotFound(*http.Request) *http.Response {
	return http.Error(status.ErrNotFound)
}

func defaultMethodNotAllowed(*http.Request) *http.Response {
	return http.Error(status.ErrMethodNotAllowed)
}

// withAllow makes sure the 405 response lists the methods, allowed for the route.
func withAllow(handler http.Handler, methods []string) http.Handler {
	allow := strings.Join(methods, ", ")

	return func(req *http.Request) *http.Response {
		resp := handler(req)
		if resp != nil {
			resp.Headers().SetDefault("Allow", allow)
		}

		return resp
	}
}

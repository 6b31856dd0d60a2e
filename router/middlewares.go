package router

import "github.com/tofu345/http-library/http"

// Middleware works like a chain of nested calls. It may call next, which is either the
// next middleware or the handler itself, or produce the response on its own.
type Middleware func(next http.Handler, request *http.Request) *http.Response

// Use adds middlewares, wrapping every handler of the table, the 404 and 405 ones
// included. They're applied when the snapshot is taken, so the order of Use and Add
// calls doesn't matter. The first added middleware is the outermost one.
func (t *Table) Use(middlewares ...Middleware) *Table {
	t.middlewares = append(t.middlewares, middlewares...)
	return t
}

func compose(handler http.Handler, middlewares []Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		middleware, next := middlewares[i], handler
		handler = func(request *http.Request) *http.Response {
			return middleware(next, request)
		}
	}

	return handler
}

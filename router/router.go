package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tofu345/http-library/http"
	"github.com/tofu345/http-library/http/status"
)

// Wildcard is the reserved token, which turns a pattern into a prefix match when placed
// at its very end. For example, "/files/:?" matches "/files/", "/files/a" and "/files/a/b",
// but not "/file".
const Wildcard = ":?"

var (
	ErrBadPattern = errors.New("router: bad route pattern")
	ErrNilHandler = errors.New("router: nil handler")
	ErrErrorCode  = errors.New("router: only 404 and 405 error handlers can be overridden")
)

// Route binds a path pattern and a set of allowed methods to a handler.
type Route struct {
	Pattern string
	Methods []string
	Handler http.Handler
	prefix  string
	isWild  bool
}

func newRoute(pattern string, handler http.Handler, methods []string) (Route, error) {
	if len(pattern) == 0 {
		return Route{}, fmt.Errorf("%w: empty pattern", ErrBadPattern)
	}

	if handler == nil {
		return Route{}, fmt.Errorf("%w: %s", ErrNilHandler, pattern)
	}

	prefix, isWild := strings.CutSuffix(pattern, Wildcard)
	if strings.Contains(prefix, Wildcard) {
		return Route{}, fmt.Errorf("%w: wildcard %q must be at the end: %s", ErrBadPattern, Wildcard, pattern)
	}

	return Route{
		Pattern: pattern,
		Methods: append([]string(nil), methods...),
		Handler: handler,
		prefix:  prefix,
		isWild:  isWild,
	}, nil
}

// Matches reports whether the path structurally matches the pattern. Methods are not
// taken into account.
func (r Route) Matches(path string) bool {
	if r.isWild {
		return strings.HasPrefix(path, r.prefix)
	}

	return r.Pattern == path
}

// HasMethod reports whether the method is allowed for the route. Comparison is exact, as
// methods are case-sensitive.
func (r Route) HasMethod(method string) bool {
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}

	return false
}

// Table collects routes during the configuration. The order of registration is the order
// of matching, so more specific patterns must come before broader wildcards, otherwise
// they'll be shadowed.
type Table struct {
	routes      []Route
	errHandlers map[status.Code]http.Handler
	middlewares []Middleware
}

func New() *Table {
	return &Table{
		errHandlers: make(map[status.Code]http.Handler),
	}
}

// Add appends a new route.
func (t *Table) Add(pattern string, handler http.Handler, methods ...string) error {
	route, err := newRoute(pattern, handler, methods)
	if err != nil {
		return err
	}

	t.routes = append(t.routes, route)
	return nil
}

// RouteError overrides the default handler of either 404 Not Found or 405 Method Not Allowed.
func (t *Table) RouteError(code status.Code, handler http.Handler) error {
	if handler == nil {
		return ErrNilHandler
	}

	switch code {
	case status.NotFound, status.MethodNotAllowed:
		t.errHandlers[code] = handler
		return nil
	default:
		return fmt.Errorf("%w: got %d", ErrErrorCode, code)
	}
}

// Routes returns an immutable snapshot of the table. Later changes to the table don't
// affect the snapshot, so it can be shared between goroutines without any locking.
func (t *Table) Routes() Routes {
	routes := make([]Route, len(t.routes))
	for i, route := range t.routes {
		route.Methods = append([]string(nil), route.Methods...)
		route.Handler = compose(route.Handler, t.middlewares)
		routes[i] = route
	}

	notFound := handlerOr(t.errHandlers[status.NotFound], NotFound)
	methodNotAllowed := handlerOr(t.errHandlers[status.MethodNotAllowed], defaultMethodNotAllowed)

	return Routes{
		routes:           routes,
		notFound:         compose(notFound, t.middlewares),
		methodNotAllowed: compose(methodNotAllowed, t.middlewares),
	}
}

func handlerOr(handler, otherwise http.Handler) http.Handler {
	if handler == nil {
		return otherwise
	}

	return handler
}

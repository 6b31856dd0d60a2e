package method

// Methods are kept as plain strings, exactly as they appear in the request line.
// Custom methods are allowed to be registered as well.
const (
	GET     = "GET"
	HEAD    = "HEAD"
	POST    = "POST"
	PUT     = "PUT"
	DELETE  = "DELETE"
	CONNECT = "CONNECT"
	OPTIONS = "OPTIONS"
	TRACE   = "TRACE"
	PATCH   = "PATCH"
)

// List contains all the standard HTTP methods.
var List = []string{GET, HEAD, POST, PUT, DELETE, CONNECT, OPTIONS, TRACE, PATCH}

// Known reports whether the method is one of the standard ones.
func Known(m string) bool {
	for _, known := range List {
		if known == m {
			return true
		}
	}

	return false
}

package http

import "strings"

// Request is an immutable view of a single decoded request. It is owned by the job
// processing the connection and must not be retained by handlers after they return.
type Request struct {
	Method string
	Path   string
	// Headers are stored exactly as received. Keys are case-sensitive, and a repeated
	// key keeps its last value.
	Headers map[string]string
	Body    string
}

// NewRequest returns a request with initialized headers map.
func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Headers: make(map[string]string),
	}
}

// Header returns the header value by its exact key.
func (r *Request) Header(key string) (value string, found bool) {
	value, found = r.Headers[key]
	return value, found
}

// Suffix returns the part of the path after the prefix. It's primarily useful for
// wildcard routes, e.g. "/echo/:?" handler needs everything after "/echo/".
func (r *Request) Suffix(prefix string) string {
	return strings.TrimPrefix(r.Path, prefix)
}

// Handler processes a request and produces a response. Configuration can be passed
// in by closures or method values.
type Handler func(*Request) *Response

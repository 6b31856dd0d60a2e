package http

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/tofu345/http-library/http/mime"
	"github.com/tofu345/http-library/http/status"
	"github.com/tofu345/http-library/kv"
)

// why 4? Content-Type, Content-Length and a couple of custom ones fit without growing.
const preallocRespHeaders = 4

// Response is built by a handler and consumed exactly once by the serializer.
type Response struct {
	Code     status.Code
	body     Body
	headers  *kv.Storage
	consumed bool
}

// NewResponse returns a response with a text body. Content-Type and Content-Length are
// derived from the body, but can be overridden by Header.
func NewResponse(code status.Code, text string) *Response {
	return WithBody(code, Text(text), mime.Plain)
}

// Empty returns a response carrying neither body nor headers.
func Empty(code status.Code) *Response {
	return &Response{
		Code:    code,
		headers: kv.New(),
	}
}

// WithBody returns a response with an arbitrary body kind and its Content-Type.
func WithBody(code status.Code, body Body, contentType mime.MIME) *Response {
	headers := kv.NewPrealloc(preallocRespHeaders).
		Set("Content-Type", contentType).
		Set("Content-Length", strconv.Itoa(body.Len()))

	return &Response{
		Code:    code,
		body:    body,
		headers: headers,
	}
}

// TryJSON returns a response with the model serialized as a JSON object.
func TryJSON(code status.Code, model any) (*Response, error) {
	body, err := KeyValue(model)
	if err != nil {
		return nil, err
	}

	return WithBody(code, body, mime.JSON), nil
}

// JSON does the same as TryJSON does, except the serialization error is turned into
// a response via Error.
func JSON(code status.Code, model any) *Response {
	resp, err := TryJSON(code, model)
	if err != nil {
		return Error(err)
	}

	return resp
}

// Bytes returns a response with raw bytes as the body.
func Bytes(code status.Code, b []byte) *Response {
	return WithBody(code, Raw(b), mime.OctetStream)
}

// TryFile reads the whole file into a response. The Content-Type is guessed by the
// extension. Missing files result in status.ErrNotFound.
func TryFile(code status.Code, path string) (*Response, error) {
	stat, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, status.ErrNotFound
	case err != nil:
		return nil, err
	case stat.IsDir():
		return nil, status.ErrNotFound
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return WithBody(code, Raw(contents), mime.ByPath(path)), nil
}

// File does the same as TryFile does, except errors are turned into responses via Error.
func File(code status.Code, path string) *Response {
	resp, err := TryFile(code, path)
	if err != nil {
		return Error(err)
	}

	return resp
}

// Error returns a response with the error message as a text body. The code is taken
// from status.HTTPError, otherwise it is 500 Internal Server Error.
func Error(err error) *Response {
	var httpErr status.HTTPError
	if errors.As(err, &httpErr) {
		return NewResponse(httpErr.Code, httpErr.Message)
	}

	return NewResponse(status.InternalServerError, err.Error())
}

// Header sets the header value, replacing the previous one with the same key. Has no
// effect once the response was encoded.
func (r *Response) Header(key, value string) *Response {
	if !r.consumed {
		r.Headers().Set(key, value)
	}

	return r
}

// Headers returns the response headers in the order they will be written.
func (r *Response) Headers() *kv.Storage {
	if r.headers == nil {
		r.headers = kv.New()
	}

	return r.headers
}

func (r *Response) Body() Body {
	return r.body
}

// Consume marks the response as encoded. It returns status.ErrResponseConsumed if it
// was already done before.
func (r *Response) Consume() error {
	if r.consumed {
		return status.ErrResponseConsumed
	}

	r.consumed = true
	return nil
}

package status

import "errors"

// HTTPError is an error which knows which response it must end up in.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

// CodeOf extracts the status code from an HTTPError, possibly wrapped. Any other
// error results in InternalServerError.
func CodeOf(err error) Code {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return InternalServerError
}

var (
	// ErrShutdown is returned by the server after it was stopped on purpose.
	ErrShutdown = errors.New("graceful shutdown")
	// ErrClientClosed means the peer closed the connection before sending a single byte.
	// No response is written in this case.
	ErrClientClosed = errors.New("client closed the connection before sending a request")
	// ErrResponseConsumed is returned on the attempt to encode the same response twice.
	ErrResponseConsumed = errors.New("response was already encoded")

	ErrBadRequest            = NewError(BadRequest, "bad request")
	ErrNotText               = NewError(BadRequest, "request is not a valid UTF-8 text")
	ErrMissingMethod         = NewError(BadRequest, "missing method in request")
	ErrMissingPath           = NewError(BadRequest, "missing path in request")
	ErrBadContentLength      = NewError(BadRequest, "invalid Content-Length value")
	ErrIncompleteBody        = NewError(BadRequest, "connection closed before the body was received")
	ErrForbidden             = NewError(Forbidden, "forbidden")
	ErrNotFound              = NewError(NotFound, "page not found")
	ErrMethodNotAllowed      = NewError(MethodNotAllowed, "method not allowed")
	ErrRequestTimeout        = NewError(RequestTimeout, "request timeout")
	ErrBodyTooLarge          = NewError(RequestEntityTooLarge, "request body is too large")
	ErrHeaderFieldsTooLarge  = NewError(RequestHeaderFieldsTooLarge, "too large headers section")
	ErrInternalServerError   = NewError(InternalServerError, "internal server error")
	ErrChunkedNotImplemented = NewError(NotImplemented, "chunked transfer-encoding is not supported")
)

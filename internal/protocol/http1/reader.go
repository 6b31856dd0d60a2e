package http1

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/indigo-web/utils/buffer"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"

	"github.com/tofu345/http-library/config"
	"github.com/tofu345/http-library/http"
	"github.com/tofu345/http-library/http/status"
)

// ReadRequest reads a single request from the stream. The head is read in chunks until
// the empty line is met, so a request is no longer required to arrive in a single read.
// The body is then bounded by Content-Length. Without Content-Length, whatever arrived
// together with the head is considered the body.
//
// If the peer closes the connection before sending anything, status.ErrClientClosed is
// returned. If it closes in the middle of the head, the received part is parsed as is.
func ReadRequest(r io.Reader, cfg *config.Config) (*http.Request, error) {
	data, bodyOffset, err := readHead(r, cfg)
	if err != nil {
		return nil, err
	}

	if bodyOffset == -1 {
		return Parse(data)
	}

	request, err := Parse(data[:bodyOffset])
	if err != nil {
		return nil, err
	}

	if isChunked(request.Headers) {
		return nil, status.ErrChunkedNotImplemented
	}

	body, err := readBody(r, cfg, request.Headers, data[bodyOffset:])
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(body) {
		return nil, status.ErrNotText
	}

	request.Body = string(body)

	return request, nil
}

// readHead accumulates the stream until the head terminator is found. The returned offset
// points right after the terminator, or is -1 if the stream ended before it.
func readHead(r io.Reader, cfg *config.Config) (data []byte, bodyOffset int, err error) {
	var (
		chunk  = make([]byte, cfg.NET.ReadBufferSize)
		head   = buffer.NewBuffer[byte](cfg.NET.ReadBufferSize, cfg.Headers.MaxSize+cfg.NET.ReadBufferSize)
		window = make([]byte, 0, cfg.NET.ReadBufferSize+len(headSeparator))
		total  int
	)

	bodyOffset = -1

	for bodyOffset == -1 {
		n, readErr := r.Read(chunk)
		if n > 0 {
			if !head.Append(chunk[:n]...) {
				return nil, -1, status.ErrHeaderFieldsTooLarge
			}

			// window holds the tail of the previous chunks, so the separator is found
			// even if it's split between two reads
			carried := len(window)
			window = append(window, chunk[:n]...)
			if idx := bytes.Index(window, uf.S2B(headSeparator)); idx != -1 {
				bodyOffset = total - carried + idx + len(headSeparator)
			}

			total += n
			window = keepTail(window, len(headSeparator)-1)

			if bodyOffset > cfg.Headers.MaxSize || (bodyOffset == -1 && total > cfg.Headers.MaxSize) {
				return nil, -1, status.ErrHeaderFieldsTooLarge
			}
		}

		switch {
		case readErr == nil:
		case errors.Is(readErr, io.EOF):
			if total == 0 {
				return nil, -1, status.ErrClientClosed
			}

			return head.Finish(), bodyOffset, nil
		case errors.Is(readErr, os.ErrDeadlineExceeded):
			return nil, -1, status.ErrRequestTimeout
		default:
			return nil, -1, readErr
		}
	}

	return head.Finish(), bodyOffset, nil
}

func keepTail(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}

	return append(b[:0], b[len(b)-n:]...)
}

// readBody completes the body up to the declared Content-Length. Surplus bytes are dropped,
// as neither keep-alive nor pipelining are supported.
func readBody(r io.Reader, cfg *config.Config, headers map[string]string, received []byte) ([]byte, error) {
	length, found, err := contentLength(headers)
	switch {
	case err != nil:
		return nil, err
	case !found:
		return received, nil
	case length > cfg.Body.MaxSize:
		return nil, status.ErrBodyTooLarge
	case length <= len(received):
		return received[:length], nil
	}

	body := make([]byte, length)
	copied := copy(body, received)

	_, err = io.ReadFull(r, body[copied:])
	switch {
	case err == nil:
		return body, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return nil, status.ErrIncompleteBody
	case errors.Is(err, os.ErrDeadlineExceeded):
		return nil, status.ErrRequestTimeout
	default:
		return nil, err
	}
}

func contentLength(headers map[string]string) (length int, found bool, err error) {
	value, found := lookupFold(headers, "content-length")
	if !found {
		return 0, false, nil
	}

	length, err = strconv.Atoi(strings.TrimSpace(value))
	if err != nil || length < 0 {
		return 0, true, status.ErrBadContentLength
	}

	return length, true, nil
}

func isChunked(headers map[string]string) bool {
	value, found := lookupFold(headers, "transfer-encoding")
	return found && strings.Contains(strings.ToLower(value), "chunked")
}

// lookupFold finds a header regardless of its case. Request headers are stored as
// received, but framing headers must be recognized in any spelling.
func lookupFold(headers map[string]string, key string) (string, bool) {
	for k, v := range headers {
		if strcomp.EqualFold(k, key) {
			return v, true
		}
	}

	return "", false
}

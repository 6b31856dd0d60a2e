package http1

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/indigo-web/utils/uf"

	"github.com/tofu345/http-library/http"
	"github.com/tofu345/http-library/http/status"
)

const (
	crlf            = "\r\n"
	headSeparator   = "\r\n\r\n"
	headerSeparator = ": "
)

// Parse decodes a complete request buffer. It doesn't retain the buffer, so calling it
// twice on the same data yields equal requests.
//
// Only the head (request line and headers) is cleared of NUL bytes, which may appear as
// padding. The body is taken verbatim, NULs included.
func Parse(data []byte) (*http.Request, error) {
	if !utf8.Valid(data) {
		return nil, status.ErrNotText
	}

	head, body := splitHead(data)
	if bytes.IndexByte(head, 0) != -1 {
		head = bytes.ReplaceAll(head, []byte{0}, nil)
	}

	// copying here detaches the request from the buffer, which is owned by the reader
	lines := strings.Split(string(head), crlf)

	method, path, err := parseRequestLine(lines[0])
	if err != nil {
		return nil, err
	}

	request := http.NewRequest(method, path)

	for _, line := range lines[1:] {
		if len(line) == 0 {
			break
		}

		key, value, found := strings.Cut(line, headerSeparator)
		if !found {
			continue
		}

		request.Headers[key] = value
	}

	request.Body = string(body)

	return request, nil
}

// splitHead returns the head without the terminating empty line and everything after
// it. If there's no empty line, the whole data is considered the head.
func splitHead(data []byte) (head, body []byte) {
	if idx := bytes.Index(data, uf.S2B(headSeparator)); idx != -1 {
		return data[:idx], data[idx+len(headSeparator):]
	}

	return data, nil
}

// parseRequestLine splits the request line on single spaces. The protocol version is
// ignored.
func parseRequestLine(line string) (method, path string, err error) {
	method, rest, _ := strings.Cut(line, " ")
	if len(method) == 0 {
		return "", "", status.ErrMissingMethod
	}

	path, _, _ = strings.Cut(rest, " ")
	if len(path) == 0 {
		return "", "", status.ErrMissingPath
	}

	return method, path, nil
}

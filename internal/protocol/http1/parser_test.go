package http1

import (
	"testing"

	"github.com/dchest/uniuri"
	"github.com/stretchr/testify/require"

	"github.com/tofu345/http-library/http/status"
)

func TestParse(t *testing.T) {
	t.Run("request line only", func(t *testing.T) {
		request, err := Parse([]byte("GET / HTTP/1.1\r\n\r\n"))
		require.NoError(t, err)
		require.Equal(t, "GET", request.Method)
		require.Equal(t, "/", request.Path)
		require.Empty(t, request.Headers)
		require.Empty(t, request.Body)
	})

	t.Run("headers and body", func(t *testing.T) {
		raw := "POST /files/a.txt HTTP/1.1\r\nHost: localhost:4221\r\nContent-Length: 5\r\n\r\nhello"
		request, err := Parse([]byte(raw))
		require.NoError(t, err)
		require.Equal(t, "POST", request.Method)
		require.Equal(t, "/files/a.txt", request.Path)
		require.Equal(t, map[string]string{
			"Host":           "localhost:4221",
			"Content-Length": "5",
		}, request.Headers)
		require.Equal(t, "hello", request.Body)
	})

	t.Run("header keys are case-sensitive", func(t *testing.T) {
		request, err := Parse([]byte("GET / HTTP/1.1\r\nuser-agent: curl\r\n\r\n"))
		require.NoError(t, err)
		_, found := request.Header("User-Agent")
		require.False(t, found)
		require.Equal(t, "curl", request.Headers["user-agent"])
	})

	t.Run("repeated header keeps the last value", func(t *testing.T) {
		request, err := Parse([]byte("GET / HTTP/1.1\r\nAccept: a\r\nAccept: b\r\n\r\n"))
		require.NoError(t, err)
		require.Equal(t, "b", request.Headers["Accept"])
	})

	t.Run("malformed header lines are skipped", func(t *testing.T) {
		request, err := Parse([]byte("GET / HTTP/1.1\r\nno-separator\r\nHost:nospace\r\nAccept: */*\r\n\r\n"))
		require.NoError(t, err)
		require.Equal(t, map[string]string{"Accept": "*/*"}, request.Headers)
	})

	t.Run("header value keeps further separators", func(t *testing.T) {
		request, err := Parse([]byte("GET / HTTP/1.1\r\nX-Pair: a: b\r\n\r\n"))
		require.NoError(t, err)
		require.Equal(t, "a: b", request.Headers["X-Pair"])
	})

	t.Run("no empty line", func(t *testing.T) {
		request, err := Parse([]byte("GET /echo/abc HTTP/1.1\r\nHost: x"))
		require.NoError(t, err)
		require.Equal(t, "/echo/abc", request.Path)
		require.Equal(t, "x", request.Headers["Host"])
		require.Empty(t, request.Body)
	})

	t.Run("body containing the separator", func(t *testing.T) {
		request, err := Parse([]byte("POST / HTTP/1.1\r\n\r\nfirst\r\n\r\nsecond"))
		require.NoError(t, err)
		require.Equal(t, "first\r\n\r\nsecond", request.Body)
	})

	t.Run("NUL bytes", func(t *testing.T) {
		request, err := Parse([]byte("GET /\x00echo HTTP/1.1\r\nHo\x00st: x\r\n\r\nbo\x00dy"))
		require.NoError(t, err)
		require.Equal(t, "/echo", request.Path)
		require.Equal(t, "x", request.Headers["Host"])
		require.Equal(t, "bo\x00dy", request.Body)
	})

	t.Run("idempotence", func(t *testing.T) {
		raw := []byte("PUT /" + uniuri.New() + " HTTP/1.1\r\nX-Random: " + uniuri.New() + "\r\n\r\n" + uniuri.NewLen(64))
		first, err := Parse(raw)
		require.NoError(t, err)
		second, err := Parse(raw)
		require.NoError(t, err)
		require.Equal(t, first, second)
	})

	t.Run("not a text", func(t *testing.T) {
		_, err := Parse([]byte("GET / HTTP/1.1\r\n\r\n\xff\xfe"))
		require.ErrorIs(t, err, status.ErrNotText)
		require.Equal(t, status.BadRequest, status.CodeOf(err))
	})

	t.Run("empty data", func(t *testing.T) {
		_, err := Parse(nil)
		require.ErrorIs(t, err, status.ErrMissingMethod)
	})

	t.Run("missing path", func(t *testing.T) {
		for _, raw := range []string{"GET\r\n\r\n", "GET \r\n\r\n", "GET  / HTTP/1.1\r\n\r\n"} {
			_, err := Parse([]byte(raw))
			require.ErrorIs(t, err, status.ErrMissingPath, raw)
		}
	})

	t.Run("missing method", func(t *testing.T) {
		_, err := Parse([]byte(" / HTTP/1.1\r\n\r\n"))
		require.ErrorIs(t, err, status.ErrMissingMethod)
	})
}

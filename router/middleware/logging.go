package middleware

import (
	"log/slog"
	"time"

	"github.com/tofu345/http-library/http"
	"github.com/tofu345/http-library/router"
)

// LogRequests writes a record per request with its method, path, status code and
// the time the handler took.
func LogRequests(logger *slog.Logger) router.Middleware {
	return func(next http.Handler, request *http.Request) *http.Response {
		start := time.Now()
		response := next(request)
		if response == nil {
			return nil
		}

		logger.Info("request",
			"method", request.Method,
			"path", request.Path,
			"code", int(response.Code),
			"took", time.Since(start),
		)

		return response
	}
}

package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/dchest/uniuri"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/tofu345/http-library/config"
	"github.com/tofu345/http-library/http"
	"github.com/tofu345/http-library/http/status"
	"github.com/tofu345/http-library/internal/obs"
	"github.com/tofu345/http-library/internal/protocol/http1"
	"github.com/tofu345/http-library/router"
)

const connIDLength = 8

type Option func(*Server)

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(s *Server) {
		s.tracerProvider = provider
	}
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(s *Server) {
		s.meterProvider = provider
	}
}

// Server serves exactly one request per connection. It holds no per-connection state,
// so a single instance is shared by all the workers.
type Server struct {
	routes         router.Routes
	cfg            *config.Config
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider

	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
	active   metric.Int64UpDownCounter
}

func NewServer(routes router.Routes, cfg *config.Config, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		routes:         routes,
		cfg:            cfg,
		logger:         obs.OrDiscard(logger),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.tracer = s.tracerProvider.Tracer(obs.Scope)
	meter := s.meterProvider.Meter(obs.Scope)
	s.requests = obs.Int64Counter(meter, "http.server.requests", "Responses written, by status code", "{request}")
	s.duration = obs.Float64Histogram(meter, "http.server.duration", "Time from accepting to closing a connection", "ms")
	s.active = obs.Int64UpDownCounter(meter, "http.server.active_connections", "Connections being served", "{connection}")

	return s
}

// Serve reads a single request from the connection, dispatches it and writes the response
// back. The connection is always closed before returning. Returned errors concern this
// connection only.
func (s *Server) Serve(conn net.Conn) error {
	start := time.Now()
	id := uniuri.NewLen(connIDLength)
	logger := s.logger.With("conn", id)

	ctx, span := s.tracer.Start(context.Background(), "http.connection",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("connection.id", id),
			attribute.String("network.peer.address", conn.RemoteAddr().String()),
		),
	)
	s.active.Add(ctx, 1)

	defer func() {
		_ = conn.Close()
		s.active.Add(ctx, -1)
		s.duration.Record(ctx, float64(time.Since(start))/float64(time.Millisecond))
		span.End()
	}()

	if err := setDeadline(conn.SetReadDeadline, s.cfg.NET.ReadTimeout); err != nil {
		return s.fail(span, fmt.Errorf("set read deadline: %w", err))
	}

	request, err := http1.ReadRequest(conn, s.cfg)
	switch {
	case err == nil:
	case errors.Is(err, status.ErrClientClosed):
		logger.Debug("connection closed before sending a request")
		return nil
	case isHTTPError(err):
		logger.Debug("bad request", "error", err)
		return s.respond(ctx, span, logger, conn, http.Error(err))
	default:
		logger.Warn("failed to read a request", "error", err)
		return s.fail(span, err)
	}

	span.SetAttributes(
		attribute.String("http.request.method", request.Method),
		attribute.String("url.path", request.Path),
	)

	return s.respond(ctx, span, logger, conn, s.handle(logger, request))
}

// handle calls the handler. A handler is not trusted to return a response or to not
// panic, both of these end up in 500 Internal Server Error.
func (s *Server) handle(logger *slog.Logger, request *http.Request) (response *http.Response) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("handler panicked", "method", request.Method, "path", request.Path, "panic", r)
			response = http.Error(status.ErrInternalServerError)
		}
	}()

	response = s.routes.Lookup(request)(request)
	if response == nil {
		logger.Error("handler returned no response", "method", request.Method, "path", request.Path)
		return http.Error(status.ErrInternalServerError)
	}

	return response
}

func (s *Server) respond(
	ctx context.Context, span trace.Span, logger *slog.Logger, conn net.Conn, response *http.Response,
) error {
	if err := setDeadline(conn.SetWriteDeadline, s.cfg.NET.WriteTimeout); err != nil {
		return s.fail(span, fmt.Errorf("set write deadline: %w", err))
	}

	err := http1.Write(conn, response)
	if errors.Is(err, status.ErrResponseConsumed) {
		// the handler returned a response which was already written somewhere else
		logger.Error("handler returned an already written response")
		response = http.Error(status.ErrInternalServerError)
		err = http1.Write(conn, response)
	}

	code := attribute.Int("http.response.status_code", int(response.Code))
	span.SetAttributes(code)

	if err != nil {
		logger.Debug("failed to write the response", "error", err)
		return s.fail(span, fmt.Errorf("write response: %w", err))
	}

	s.requests.Add(ctx, 1, metric.WithAttributes(code))
	if response.Code >= status.InternalServerError {
		span.SetStatus(codes.Error, string(status.Text(response.Code)))
	}

	logger.Debug("response written", "code", response.Code)

	return nil
}

func (s *Server) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}

func setDeadline(set func(time.Time) error, timeout time.Duration) error {
	if timeout <= 0 {
		return nil
	}

	return set(time.Now().Add(timeout))
}

func isHTTPError(err error) bool {
	var httpErr status.HTTPError
	return errors.As(err, &httpErr)
}

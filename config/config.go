package config

import (
	"log/slog"
	"time"
)

type (
	Pool struct {
		// Workers is the number of long-lived workers processing connections. Must be
		// positive, otherwise the server refuses to start.
		Workers int
	}

	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int
		// ReadTimeout limits how long a single read may block. Zero disables the timeout, so
		// a client that never sends data occupies its worker forever.
		ReadTimeout time.Duration `test:"nullable"`
		// WriteTimeout limits writing the response. Zero disables the timeout.
		WriteTimeout time.Duration `test:"nullable"`
	}

	Headers struct {
		// MaxSize limits the request line and headers together, terminating CRLF included.
		MaxSize int
	}

	Body struct {
		// MaxSize describes the maximal size of a body declared via Content-Length.
		MaxSize int
	}

	Log struct {
		// Level is the minimal level of records to be written.
		Level slog.Level `test:"nullable"`
		// Format is either "text" or "json". Ignored when telemetry is enabled, as records
		// are exported instead.
		Format string
	}

	Telemetry struct {
		// Enabled installs OTLP exporters for traces, metrics and logs. Otherwise, all the
		// instruments are no-op.
		Enabled bool `test:"nullable"`
		// ServiceName is reported as the service.name resource attribute.
		ServiceName string
		// Endpoint of the OTLP gRPC collector. Empty means the exporters' defaults, which
		// also honour the OTEL_EXPORTER_OTLP_* environment variables.
		Endpoint string `test:"nullable"`
	}
)

// Config holds settings used across the server, mainly limits and sizes.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Pool      Pool
	NET       NET
	Headers   Headers
	Body      Body
	Log       Log
	Telemetry Telemetry
}

// Default returns default config.
func Default() *Config {
	return &Config{
		Pool: Pool{
			Workers: 4,
		},
		NET: NET{
			ReadBufferSize: 4 * 1024,
		},
		Headers: Headers{
			MaxSize: 16 * 1024,
		},
		Body: Body{
			MaxSize: 8 * 1024 * 1024,
		},
		Log: Log{
			Level:  slog.LevelInfo,
			Format: "text",
		},
		Telemetry: Telemetry{
			ServiceName: "http-library",
		},
	}
}

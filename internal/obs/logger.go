package obs

import (
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/tofu345/http-library/config"
)

// Scope is the instrumentation scope name shared by the logger, the tracer and the meter.
const Scope = "github.com/tofu345/http-library"

// NewLogger builds the logger used across the server. With telemetry enabled, records
// are bridged into the OpenTelemetry logs pipeline installed by Setup.
func NewLogger(cfg *config.Config) *slog.Logger {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg *config.Config, out io.Writer) *slog.Logger {
	if cfg.Telemetry.Enabled {
		return otelslog.NewLogger(Scope)
	}

	opts := &slog.HandlerOptions{Level: cfg.Log.Level}

	switch cfg.Log.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(out, opts))
	default:
		return slog.New(slog.NewTextHandler(out, opts))
	}
}

// Discard returns a logger dropping every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns the logger itself, or a discarding one if nil was passed.
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}

	return logger
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	httplib "github.com/tofu345/http-library"
	"github.com/tofu345/http-library/config"
	"github.com/tofu345/http-library/http/method"
	"github.com/tofu345/http-library/http/status"
	"github.com/tofu345/http-library/internal/obs"
	"github.com/tofu345/http-library/router/middleware"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "httpd:", err)
		os.Exit(1)
	}
}

func run() error {
	defaults := config.Default()

	addr := flag.String("addr", "127.0.0.1:4221", "address to listen on")
	directory := flag.String("directory", ".", "directory to serve the files from and upload them into")
	workers := flag.Int("workers", defaults.Pool.Workers, "number of workers processing connections")
	logLevel := flag.String("log-level", "info", "minimal log level: debug, info, warn or error")
	withOTel := flag.Bool("otel", false, "export traces, metrics and logs via OTLP gRPC")
	flag.Parse()

	cfg := config.Default()
	cfg.Pool.Workers = *workers
	cfg.Telemetry.Enabled = *withOTel
	if err := cfg.Log.Level.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("bad log level: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := obs.Setup(ctx, cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}

		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	logger := obs.NewLogger(cfg)
	app := newApp(*addr, cfg, logger, handlers{root: *directory})

	go func() {
		<-ctx.Done()
		logger.Info("interrupted, shutting down")
		app.Stop()
	}()

	err := app.Serve()
	if errors.Is(err, status.ErrShutdown) {
		return nil
	}

	return err
}

func newApp(addr string, cfg *config.Config, logger *slog.Logger, h handlers) *httplib.App {
	return httplib.New(addr).
		Tune(cfg).
		Logger(logger).
		NotifyOnStart(func() {
			logger.Info("accepting connections", "addr", addr)
		}).
		Use(middleware.LogRequests(logger)).
		Route("/", h.Index, method.GET).
		Route(echoPrefix+":?", h.Echo, method.GET).
		Route("/user-agent", h.UserAgent, method.GET).
		Route(filesPrefix+":?", h.Files, method.GET, method.POST).
		Route("/json", h.JSON, method.GET)
}

package httplib

import (
	"log/slog"
	"net"
	"sync"

	"github.com/tofu345/http-library/config"
	"github.com/tofu345/http-library/http"
	"github.com/tofu345/http-library/http/status"
	"github.com/tofu345/http-library/internal/obs"
	"github.com/tofu345/http-library/internal/pool"
	httpserver "github.com/tofu345/http-library/internal/server/http"
	"github.com/tofu345/http-library/internal/server/tcp"
	"github.com/tofu345/http-library/router"
)

// App is the server entry point. Routes are registered before Serve is called, the
// routing table is frozen afterwards.
type App struct {
	addr     string
	cfg      *config.Config
	logger   *slog.Logger
	table    *router.Table
	hooks    hooks
	err      error
	stopCh   chan struct{}
	stopOnce sync.Once
}

// New returns a new App instance, listening on the addr once served.
func New(addr string) *App {
	return &App{
		addr:   addr,
		cfg:    config.Default(),
		table:  router.New(),
		stopCh: make(chan struct{}),
	}
}

// Tune replaces the default config.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// Logger replaces the logger, otherwise built from the config at the moment of Serve.
func (a *App) Logger(logger *slog.Logger) *App {
	a.logger = logger
	return a
}

// Route registers the handler for the pattern. Routes are matched in the same order they
// were registered, so specific patterns must go before broader wildcards.
//
// The first registration error is returned by Serve, so calls can be chained freely.
func (a *App) Route(pattern string, handler http.Handler, methods ...string) *App {
	if err := a.table.Add(pattern, handler, methods...); err != nil && a.err == nil {
		a.err = err
	}

	return a
}

// Use adds middlewares wrapping every handler, including the 404 and 405 ones.
func (a *App) Use(middlewares ...router.Middleware) *App {
	a.table.Use(middlewares...)
	return a
}

// RouteError replaces the handler for 404 Not Found or 405 Method Not Allowed.
func (a *App) RouteError(code status.Code, handler http.Handler) *App {
	if err := a.table.RouteError(code, handler); err != nil && a.err == nil {
		a.err = err
	}

	return a
}

// NotifyOnStart calls the callback at the moment the listener is bound. Connections
// arriving from this moment are queued by the OS until accepted.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback after the listener is closed and every accepted
// connection was served.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Serve binds the address and serves until Stop is called, in which case status.ErrShutdown
// is returned. Configuration errors are reported before binding.
func (a *App) Serve() error {
	if err := a.validate(); err != nil {
		return err
	}

	sock, err := net.Listen("tcp", a.addr)
	if err != nil {
		return err
	}

	return a.ServeListener(sock)
}

// ServeListener serves on an already bound listener, taking the ownership over it.
func (a *App) ServeListener(sock net.Listener) error {
	if err := a.validate(); err != nil {
		_ = sock.Close()
		return err
	}

	logger := a.getLogger()

	workers, err := pool.Build(a.cfg.Pool.Workers, pool.WithLogger(logger))
	if err != nil {
		_ = sock.Close()
		return err
	}

	routes := a.table.Routes()
	server := tcp.NewServer(sock, a.newTCPCallback(logger, workers, httpserver.NewServer(routes, a.cfg, logger)))

	done := make(chan struct{})
	go func() {
		select {
		case <-a.stopCh:
			_ = server.Stop()
		case <-done:
		}
	}()

	logger.Info("listening", "addr", server.Addr().String(), "workers", workers.Size(), "routes", routes.Len())
	callIfNotNil(a.hooks.OnStart)

	err = server.Start()
	close(done)
	_ = server.Stop()

	// connections already accepted are served till the end
	workers.Close()
	logger.Info("server stopped", "error", err)
	callIfNotNil(a.hooks.OnStop)

	return err
}

// Stop closes the listener. Connections which were already accepted are still served
// before Serve returns.
//
// NOTE: the call isn't blocking. Use NotifyOnStop in order to know when the server is down.
func (a *App) Stop() {
	a.stopOnce.Do(func() {
		close(a.stopCh)
	})
}

func (a *App) validate() error {
	if a.err != nil {
		return a.err
	}

	if a.cfg.Pool.Workers <= 0 {
		return pool.ErrZeroWorkers
	}

	return nil
}

func (a *App) getLogger() *slog.Logger {
	if a.logger == nil {
		a.logger = obs.NewLogger(a.cfg)
	}

	return a.logger
}

func (a *App) newTCPCallback(logger *slog.Logger, workers *pool.Pool, server *httpserver.Server) tcp.OnConn {
	return func(conn net.Conn) {
		err := workers.Execute(func() {
			if err := server.Serve(conn); err != nil {
				logger.Debug("connection terminated", "remote", conn.RemoteAddr().String(), "error", err)
			}
		})
		if err != nil {
			logger.Warn("connection rejected", "remote", conn.RemoteAddr().String(), "error", err)
			_ = conn.Close()
		}
	}
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}

package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/authservice/pkg/logger"
)

type config struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	server          *http.Server
	logger          *slog.Logger
	startHooks      []StartHook
	stopHooks       []StopHook
}

func defaultConfig() *config {
	return &config{
		addr:            ":8080",
		shutdownTimeout: 10 * time.Second,
		logger:          logger.Nop(),
	}
}

// Server wraps http.Server with graceful shutdown and lifecycle hooks.
type Server struct {
	cfg *config

	mu          sync.Mutex
	srv         *http.Server
	once        sync.Once
	shutdownErr error
}

// New returns a configured Server.
func New(opts ...Option) *Server {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.logger = cfg.logger.With(logger.Component("httpserver"))
	return &Server{cfg: cfg}
}

// Run starts the server and blocks until ctx is done, SIGINT/SIGTERM arrives
// or the listener fails. Listen failures are wrapped with ErrStart; a failed
// graceful shutdown or stop hook is wrapped with ErrShutdown.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	srv, err := s.prepare(handler)
	if err != nil {
		return err
	}

	for _, h := range s.cfg.startHooks {
		h(ctx, s.cfg.logger)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.cfg.logger.InfoContext(ctx, "http server started", slog.String("addr", srv.Addr))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr, shutdownErr error
	select {
	case <-ctx.Done():
		shutdownErr = s.Shutdown(context.WithoutCancel(ctx))
		runErr = <-errCh
	case sig := <-stop:
		s.cfg.logger.InfoContext(ctx, "shutdown signal received", slog.String("signal", sig.String()))
		shutdownErr = s.Shutdown(context.WithoutCancel(ctx))
		runErr = <-errCh
	case runErr = <-errCh:
		if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
			// Shutdown still runs the stop hooks for resources opened before Run.
			_ = s.Shutdown(context.WithoutCancel(ctx))
			return errors.Join(ErrStart, runErr)
		}
		// Closed by an external Shutdown call; wait for its hooks.
		shutdownErr = s.Shutdown(context.WithoutCancel(ctx))
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return errors.Join(ErrStart, runErr)
	}
	return shutdownErr
}

func (s *Server) prepare(handler http.Handler) (*http.Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return nil, errors.Join(ErrStart, ErrAlreadyRunning)
	}

	cfg := s.cfg
	srv := cfg.server
	if srv == nil {
		srv = &http.Server{}
	}
	if srv.Addr == "" {
		srv.Addr = cfg.addr
	}
	if srv.ReadTimeout == 0 {
		srv.ReadTimeout = cfg.readTimeout
	}
	if srv.WriteTimeout == 0 {
		srv.WriteTimeout = cfg.writeTimeout
	}
	if srv.IdleTimeout == 0 {
		srv.IdleTimeout = cfg.idleTimeout
	}
	if srv.ErrorLog == nil {
		srv.ErrorLog = slog.NewLogLogger(cfg.logger.Handler(), slog.LevelError)
	}
	srv.Handler = handler
	s.srv = srv
	return srv, nil
}

// Shutdown drains in-flight requests within the shutdown timeout, then runs
// the stop hooks. Repeated calls return the result of the first one.
func (s *Server) Shutdown(ctx context.Context) error {
	s.once.Do(func() {
		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
		defer cancel()

		var errs []error
		if srv != nil {
			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs = append(errs, err)
			}
		}
		for _, h := range s.cfg.stopHooks {
			if err := h(ctx, s.cfg.logger); err != nil {
				errs = append(errs, err)
			}
		}

		if len(errs) == 0 {
			s.cfg.logger.InfoContext(ctx, "http server stopped")
			return
		}

		err := errors.Join(append([]error{ErrShutdown}, errs...)...)
		s.cfg.logger.ErrorContext(ctx, "http server shutdown failed", logger.Error(err))
		s.mu.Lock()
		s.shutdownErr = err
		s.mu.Unlock()
	})

	return s.shutdownResult()
}

func (s *Server) shutdownResult() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdownErr
}

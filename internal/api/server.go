package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/nerrad567/switchhook/internal/infrastructure/config"
	"github.com/nerrad567/switchhook/internal/infrastructure/logging"
	"github.com/nerrad567/switchhook/internal/vswitch"
	"github.com/nerrad567/switchhook/internal/webhook"
)

// ErrPortInUse is returned by Start when the configured port is already
// bound. Callers should abort startup loudly rather than retry.
var ErrPortInUse = errors.New("api: address already in use")

// defaultShutdownTimeout bounds graceful shutdown when no timeout is
// configured.
const defaultShutdownTimeout = 5 * time.Second

// Deps holds the dependencies required by the HTTP server.
type Deps struct {
	Config     config.ServerConfig
	Security   config.SecurityConfig
	Logger     *logging.Logger
	Registry   *vswitch.Registry
	Dispatcher *webhook.Dispatcher
	Version    string
}

// Server is the HTTP server for the webhook surface.
//
// It manages the listener, routes, and middleware. The server is created
// with New() and started with Start().
type Server struct {
	cfg        config.ServerConfig
	secCfg     config.SecurityConfig
	logger     *logging.Logger
	registry   *vswitch.Registry
	dispatcher *webhook.Dispatcher
	version    string
	server     *http.Server
}

// New creates a new server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("switch registry is required")
	}
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("webhook dispatcher is required")
	}

	return &Server{
		cfg:        deps.Config,
		secCfg:     deps.Security,
		logger:     deps.Logger,
		registry:   deps.Registry,
		dispatcher: deps.Dispatcher,
		version:    deps.Version,
	}, nil
}

// Start binds the listener and begins serving in a background goroutine.
//
// The bind happens synchronously so a taken port fails Start itself
// rather than surfacing later from the serve loop. ErrPortInUse is
// returned for an occupied port; other bind failures come back as-is.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("%w: %s", ErrPortInUse, addr)
		}
		return fmt.Errorf("binding %s: %w", addr, err)
	}

	s.server = &http.Server{
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	s.logger.Info("webhook server listening",
		"address", listener.Addr().String(),
		"switches", s.registry.Count(),
	)

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("webhook server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the server.
//
// New connections stop being accepted immediately; in-flight requests
// get the configured shutdown timeout to finish, then remaining
// connections are forcibly closed and shutdown proceeds regardless.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	timeout := time.Duration(s.cfg.Timeouts.Shutdown) * time.Second
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("webhook server shutting down", "timeout", timeout)
	if err := s.server.Shutdown(ctx); err != nil {
		s.server.Close()
		return fmt.Errorf("shutting down webhook server: %w", err)
	}
	return nil
}

// HealthCheck verifies the server has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("webhook server not started")
	}

	return nil
}

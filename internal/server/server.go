package server

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzslog "github.com/hertz-contrib/logger/slog"

	"github.com/cadre-oss/pilot/internal/agent"
	"github.com/cadre-oss/pilot/internal/config"
	"github.com/cadre-oss/pilot/internal/telemetry"
)

// Server is the pilot chat HTTP server.
type Server struct {
	cfg     config.ServerConfig
	runtime *agent.Runtime
	metrics *telemetry.Metrics
	logger  *telemetry.Logger
}

// New creates a new server instance.
func New(cfg config.ServerConfig, runtime *agent.Runtime, metrics *telemetry.Metrics, logger *telemetry.Logger) *Server {
	if metrics == nil {
		metrics = telemetry.NewMetrics()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		cfg:     cfg,
		runtime: runtime,
		metrics: metrics,
		logger:  logger,
	}
}

// Build assembles the Hertz engine with middleware and routes bound to addr.
func (s *Server) Build(addr string) *server.Hertz {
	h := server.Default(
		server.WithHostPorts(addr),
		server.WithExitWaitTime(s.cfg.ShutdownTimeout),
		server.WithDisablePrintRoute(true),
	)
	h.Use(requestIDMiddleware(), s.accessLog(), corsMiddleware(s.cfg.CORS.AllowOrigins))
	s.setupRoutes(h)
	return h
}

// Start serves on the configured address and blocks until ctx is cancelled,
// then shuts down gracefully within server.shutdown_timeout.
func (s *Server) Start(ctx context.Context) error {
	UseLogger(s.logger)
	h := s.Build(s.cfg.Addr())

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting pilot chat server", "addr", s.cfg.Addr(), "agent", s.runtime.Agent().Name())
		if err := h.Run(); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := h.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) setupRoutes(h *server.Hertz) {
	// Chat
	h.POST("/chat", s.handleChat)
	h.GET("/history", s.handleHistory)

	// Operations
	h.GET("/health", s.handleHealth)
	h.GET("/metrics", s.handleMetrics)

	// Preflight; headers come from corsMiddleware.
	h.OPTIONS("/*path", handlePreflight)

	// Frontend
	s.setupStatic(h)
}

// UseLogger routes Hertz's internal logging through logger's writer and
// level, so a level change applies to both.
func UseLogger(logger *telemetry.Logger) {
	hlog.SetLogger(hertzslog.NewLogger(
		hertzslog.WithOutput(logger.Output()),
		hertzslog.WithLevel(logger.Level()),
	))
}

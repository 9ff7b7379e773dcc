package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"TSDB/internal/platform/config"
	"TSDB/internal/platform/server/handler/health"
	"TSDB/internal/platform/server/handler/sweep"
	"TSDB/internal/platform/server/handler/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	httpAddr  string
	engine    *chi.Mux
	telemetry *telemetry.TelemetryHandler
	sweep     *sweep.SweepHandler
	health    *health.HealthHandler
	logger    *zap.Logger
}

func NewServer(cfg config.Config,
	telemetryHandler *telemetry.TelemetryHandler,
	sweepHandler *sweep.SweepHandler,
	healthHandler *health.HealthHandler,
	logger *zap.Logger) *Server {
	srv := &Server{
		engine:    chi.NewRouter(),
		httpAddr:  fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		telemetry: telemetryHandler,
		sweep:     sweepHandler,
		health:    healthHandler,
		logger:    logger.Named("http"),
	}
	srv.engine.Use(middleware.RequestID)
	srv.engine.Use(middleware.Logger)
	srv.engine.Use(middleware.Recoverer)
	srv.registerRoutes()
	return srv
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.httpAddr,
		Handler: s.engine,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server running", zap.String("addr", s.httpAddr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down server")
		return httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.Get("/health", s.health.Check)
	s.engine.Post("/telemetry", s.telemetry.SaveRecord)
	s.engine.Put("/telemetry", s.telemetry.UpdateRecord)
	s.engine.Get("/query_by_id", s.telemetry.QueryById)
	s.engine.Post("/sweep", s.sweep.RunSweep)
}

// Package server exposes walk generation and summaries over HTTP.
//
// Each request builds its own generator from the server defaults overlaid
// with the request body; no generator or batch is shared between requests.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/san-kum/randwalk/internal/config"
	"github.com/san-kum/randwalk/internal/logging"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg      config.ServerConfig
	defaults *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics
	engine   *gin.Engine
}

// New builds the router. A nil registry gets a private one; a nil logger
// discards.
func New(cfg config.ServerConfig, defaults *config.Config, logger *slog.Logger, registry *prometheus.Registry) *Server {
	if defaults == nil {
		defaults = config.DefaultConfig()
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = config.DefaultMaxSteps
	}
	if cfg.MaxWalks <= 0 {
		cfg.MaxWalks = config.DefaultMaxWalks
	}
	if cfg.MaxValues <= 0 {
		cfg.MaxValues = config.DefaultMaxValues
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	s := &Server{
		cfg:      cfg,
		defaults: defaults.Clone(),
		logger:   logger,
		registry: registry,
		metrics:  newMetrics(registry),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.requestID(), s.observe(), gin.Recovery())

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api/v1")
	{
		api.GET("/presets", s.presets)
		api.GET("/kinds", s.kinds)
		api.POST("/walks", s.walks)
		api.POST("/simulations", s.simulations)
		api.POST("/summaries", s.summaries)
	}
	return r
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

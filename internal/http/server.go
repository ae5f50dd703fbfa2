// Package http provides the HTTP server, router and shared middleware.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	clipHTTP "github.com/allisson/clip/internal/clip/http"
	"github.com/allisson/clip/internal/metrics"
)

// ReadinessChecker reports whether the store can serve requests.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// RouterConfig carries the settings SetupRouter needs.
type RouterConfig struct {
	CORSEnabled      bool
	CORSAllowOrigins string

	RateLimitCreateEnabled        bool
	RateLimitCreateRequestsPerSec float64
	RateLimitCreateBurst          int

	// MaxBodyBytes caps request bodies on the create route. Zero disables the cap.
	MaxBodyBytes int64

	MetricsNamespace string
}

// Server represents the HTTP server.
type Server struct {
	server       *http.Server
	router       *gin.Engine
	readiness    ReadinessChecker
	logger       *slog.Logger
	shuttingDown atomic.Bool
}

// NewServer creates a new HTTP server. readiness may be nil, in which case
// the server never reports ready.
func NewServer(readiness ReadinessChecker, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		readiness: readiness,
		logger:    logger,
		server:    newListener(host, port),
	}
}

// SetupRouter registers middleware and routes. The rate limiter's cleanup
// goroutine stops when ctx is done. metricsProvider may be nil.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg RouterConfig,
	envelopeHandler *clipHTTP.EnvelopeHandler,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	api := router.Group("/api")
	{
		createChain := []gin.HandlerFunc{}
		if cfg.MaxBodyBytes > 0 {
			createChain = append(createChain, MaxBodyBytesMiddleware(cfg.MaxBodyBytes))
		}
		if cfg.RateLimitCreateEnabled {
			createChain = append(createChain, RateLimitMiddleware(
				ctx,
				cfg.RateLimitCreateRequestsPerSec,
				cfg.RateLimitCreateBurst,
				s.logger,
			))
		}
		createChain = append(createChain, envelopeHandler.CreateHandler)

		api.POST("/create", createChain...)
		api.GET("/secret/:id", envelopeHandler.FetchHandler)
		api.DELETE("/secret/:id", envelopeHandler.DeleteHandler)
		api.GET("/health", envelopeHandler.HealthHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown marks the server not ready and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shuttingDown.Store(true)
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler is the liveness probe.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler pings the store. It fails while shutting down.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.shuttingDown.Load() || s.readiness == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"store": "error"},
		})
		return
	}

	if err := s.readiness.Ready(c.Request.Context()); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"store": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"store": "ok"},
	})
}

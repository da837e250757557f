// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bv-cosmetics/storefront/internal/config"
	"github.com/bv-cosmetics/storefront/internal/interfaces/http/middleware"
	"github.com/bv-cosmetics/storefront/internal/interfaces/http/routes"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// maxBodySize bounds request bodies; cart payloads carry product snapshots
const maxBodySize = 1 << 20

// HealthChecker is a backend whose reachability gates readiness
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	log        *logrus.Logger
	deps       routes.Dependencies
	redis      *redis.Client
	checks     map[string]HealthChecker
	gin        *gin.Engine
	httpServer *http.Server
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance. redisClient enables rate
// limiting and may be nil; checks are probed by /ready.
func NewServer(cfg *config.Config, deps routes.Dependencies, redisClient *redis.Client, checks map[string]HealthChecker) *Server {
	if checks == nil {
		checks = map[string]HealthChecker{}
	}
	s := &Server{
		config:    cfg,
		log:       deps.Logger,
		deps:      deps,
		redis:     redisClient,
		checks:    checks,
		startedAt: time.Now(),
	}
	s.setup()
	return s
}

// Handler returns the configured gin engine
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.log.WithFields(logrus.Fields{
		"port":     s.config.Server.Port,
		"base_url": fmt.Sprintf("http://localhost:%s/api/v1", s.config.Server.Port),
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.log.Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.log.Info("HTTP server stopped gracefully")
	return nil
}

func (s *Server) setup() {
	// Set Gin mode based on environment
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	s.gin = gin.New()

	// Variant ids are Shopify GIDs containing "/", sent percent-encoded
	s.gin.UseRawPath = true
	s.gin.UnescapePathValues = true

	if len(s.config.Security.TrustedProxies) > 0 {
		if err := s.gin.SetTrustedProxies(s.config.Security.TrustedProxies); err != nil {
			s.log.WithError(err).Warn("Ignoring invalid trusted proxies")
		}
	} else {
		_ = s.gin.SetTrustedProxies(nil)
	}

	s.setupMiddleware()
	s.setupRoutes()
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Recovery(s.log))
	s.gin.Use(middleware.Logger(s.log))
	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.SecurityHeaders(s.config))
	s.gin.Use(middleware.RateLimit(s.config.Security.RateLimitPerMinute, s.redis, s.log))
	s.gin.Use(middleware.RequestSizeLimit(maxBodySize))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	apiV1 := s.gin.Group("/api/v1")
	routes.SetupRoutes(apiV1, s.deps, s.config)

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name,
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"products":    "/api/v1/products",
					"collections": "/api/v1/collections",
					"bundles":     "/api/v1/bundles",
					"cart":        "/api/v1/cart",
					"wishlist":    "/api/v1/wishlist",
					"i18n":        "/api/v1/i18n",
				},
			})
		})
	}
}

// healthCheck reports liveness; it never touches backends
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck probes every storage backend
func (s *Server) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(gin.H, len(s.checks))
	for name, check := range s.checks {
		if err := check.Health(ctx); err != nil {
			s.log.WithError(err).WithField("backend", name).Warn("Readiness check failed")
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not ready"
	}

	c.JSON(status, gin.H{
		"status":    state,
		"checks":    results,
		"storage":   s.config.Storage.Driver,
		"catalog":   s.config.Commerce.Source,
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

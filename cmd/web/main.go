package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/planner/planner-web/internal/cache"
	"github.com/dafibh/planner/planner-web/internal/client"
	"github.com/dafibh/planner/planner-web/internal/config"
	"github.com/dafibh/planner/planner-web/internal/handler"
	"github.com/dafibh/planner/planner-web/internal/middleware"
	"github.com/dafibh/planner/planner-web/internal/repository/remote"
	"github.com/dafibh/planner/planner-web/internal/service"
	"github.com/dafibh/planner/planner-web/internal/validation"
	"github.com/dafibh/planner/planner-web/internal/view"
	"github.com/dafibh/planner/planner-web/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const contentSecurityPolicy = "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'; connect-src 'self'"

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Read cache
	store, closeStore := newCacheStore(cfg)
	defer closeStore()
	readCache := cache.New(store, cfg.Cache.TTL)

	// Planner API
	api := client.New(cfg.APIBaseURL, cfg.APITimeout)
	log.Info().Str("base_url", cfg.APIBaseURL).Dur("timeout", cfg.APITimeout).Msg("Planner API configured")

	// Initialize repositories
	simulationRepo := remote.NewSimulationRepository(api, readCache)
	allocationRepo := remote.NewAllocationRepository(api, readCache)
	insuranceRepo := remote.NewInsuranceRepository(api, readCache)
	movementRepo := remote.NewMovementRepository(api, readCache)

	// Initialize WebSocket hub
	hub := websocket.NewHub()

	// Initialize services
	validator := validation.New()
	simulationService := service.NewSimulationService(simulationRepo, validator)
	simulationService.SetEventPublisher(hub)
	allocationService := service.NewAllocationService(allocationRepo, validator)
	allocationService.SetEventPublisher(hub)
	insuranceService := service.NewInsuranceService(insuranceRepo, validator)
	insuranceService.SetEventPublisher(hub)
	movementService := service.NewMovementService(movementRepo, validator)
	movementService.SetEventPublisher(hub)
	dashboardService := service.NewDashboardService(simulationRepo, cfg.ProjectionSettings())

	// Parse templates
	renderer, err := view.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse templates")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = validator

	// Request ID middleware
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.PropagateRequestID())

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: contentSecurityPolicy,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Rate limiting per client IP
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()
	e.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register page routes
	handler.RegisterRoutes(e, handler.Handlers{
		Home:       handler.NewHomeHandler(),
		Simulation: handler.NewSimulationHandler(simulationService),
		Allocation: handler.NewAllocationHandler(allocationService, simulationService),
		Insurance:  handler.NewInsuranceHandler(insuranceService, simulationService),
		Movement:   handler.NewMovementHandler(movementService, simulationService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		WebSocket:  handler.NewWebSocketHandler(hub, cfg.AllowedOrigins),
	})

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Hijacked WebSocket connections are not closed by e.Shutdown
	log.Info().Int("clients", hub.Shutdown()).Msg("Closed WebSocket clients")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// newCacheStore builds the configured cache backend. The returned func
// releases it.
func newCacheStore(cfg *config.Config) (cache.Store, func()) {
	if cfg.Cache.Backend != config.CacheRedis {
		log.Info().Dur("ttl", cfg.Cache.TTL).Msg("Using in-memory cache")
		return cache.NewMemoryStore(), func() {}
	}

	rdb, err := cache.ConnectRedis(context.Background(), cfg.Cache.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	return cache.NewRedisStore(rdb), func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Warn()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}

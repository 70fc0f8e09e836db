package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quoteshorts/api/internal/adapters/http/handlers"
	"github.com/quoteshorts/api/internal/adapters/http/middleware"
	"github.com/quoteshorts/api/internal/platform/config"
	"github.com/quoteshorts/api/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// RateLimit contains per-client throttling settings.
	RateLimit *config.RateLimitConfig

	// CORS contains cross-origin settings.
	CORS *config.CORSConfig

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// QuoteHandler handles the quote endpoints.
	QuoteHandler *handlers.QuoteHandler

	// CategoryHandler handles the category endpoints.
	CategoryHandler *handlers.CategoryHandler

	// StatsHandler handles the stats endpoint.
	StatsHandler *handlers.StatsHandler

	// Timeout is the default request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing and metrics
//  5. Logging - request logging (skips health endpoints)
//  6. CORS and rate limiting - applied to the public API group
//  7. Timeout - request deadline on the public API group
//
// Route groups:
//   - /-/ (internal): health endpoints, exempt from throttling
//   - /api/v1/ (public API): quote, category and stats endpoints
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Middleware(cfg.AppConfig.Name),
		middleware.Logging(cfg.Logger),
	)

	// Health endpoints stay outside the API group so probes are never
	// throttled or timed out.
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")

	if cfg.CORS != nil && cfg.CORS.Enabled {
		apiV1.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: cfg.CORS.AllowedMethods,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
		}))
	}

	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		apiV1.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	if cfg.Timeout > 0 {
		apiV1.Use(middleware.SimpleTimeout(cfg.Timeout))
	}

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(apiV1)
	}

	if cfg.CategoryHandler != nil {
		cfg.CategoryHandler.RegisterCategoryRoutes(apiV1)
	}

	if cfg.StatsHandler != nil {
		cfg.StatsHandler.RegisterStatsRoutes(apiV1)
	}
}

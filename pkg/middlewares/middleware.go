package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/andresv1112/taskflow-artisanal-auth/pkg/config"
)

func MetricsMiddleware(metrics *config.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections(c.Request.Context())
		defer metrics.DecrementActiveConnections(c.Request.Context())

		c.Next()

		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}

// SetupGinMiddleware installs the shared middleware chain: HTTPS
// enforcement, tracing, request logging, rate limiting and metrics.
// The response cache is installed per route group so its key can see
// the authenticated user.
func SetupGinMiddleware(router *gin.Engine, serviceName string, metrics *config.AppMetrics, logger *config.AppLogger, cfg *config.AppConfig) {
	enforcer := config.NewHTTPSEnforcer(cfg.EnforceHTTPS, logger.Logger.Logger)
	router.Use(enforcer.HTTPSMiddleware())

	router.Use(otelgin.Middleware(serviceName))
	router.Use(LoggingMiddleware(logger))

	if cfg.RateLimitEnabled {
		store := config.NewMemoryCounterStore()

		if cfg.RedisAddr != "" {
			store = config.NewRedisCounterStore(cfg.RedisAddr)
		}

		rateLimiter := config.NewRateLimiter(store, logger.Logger.Logger, metrics)

		for path, rule := range cfg.RateLimitConfigs {
			rateLimiter.SetRule(path, rule.Requests, rule.Window)
		}

		router.Use(rateLimiter.RateLimitMiddleware())
	}

	router.Use(MetricsMiddleware(metrics))
}

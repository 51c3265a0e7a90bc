package api

import (
	"github.com/gin-gonic/gin"

	"github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/http/handler"
	"github.com/andresv1112/taskflow-artisanal-auth/pkg/auth"
	"github.com/andresv1112/taskflow-artisanal-auth/pkg/config"
	"github.com/andresv1112/taskflow-artisanal-auth/pkg/middlewares"
	"github.com/andresv1112/taskflow-artisanal-auth/pkg/response"
)

type HandlersConfig struct {
	AuthHandler *handler.AuthHandler
	TaskHandler *handler.TaskHandler
}

func SetupRouter(handlers HandlersConfig, metrics *config.AppMetrics, logger *config.AppLogger, cfg *config.AppConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	middlewares.SetupGinMiddleware(router, "taskflow", metrics, logger, cfg)

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if handlers.AuthHandler != nil {
		setupPublicRoutes(router, handlers.AuthHandler)
	}

	if handlers.TaskHandler != nil {
		var cache *response.ResponseCache

		if cfg.CacheEnabled {
			cache = response.NewResponseCache(logger.Logger.Logger, metrics)

			for path, cacheConfig := range cfg.CacheConfigs {
				cache.SetConfig(path, cacheConfig)
			}
		}

		setupProtectedRoutes(router, handlers.TaskHandler, cache)
	}

	return router
}

func setupPublicRoutes(router *gin.Engine, authHandler *handler.AuthHandler) {
	public := router.Group("/")
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}
}

func setupProtectedRoutes(router *gin.Engine, taskHandler *handler.TaskHandler, cache *response.ResponseCache) {
	protected := router.Group("/")
	protected.Use(auth.GinJwtMiddleware())

	if cache != nil {
		protected.Use(cache.CacheMiddleware())
	}

	{
		protected.GET("/tasks", taskHandler.GetAllTasks)
		protected.POST("/tasks", taskHandler.CreateTask)
		protected.PUT("/tasks/:uuid", taskHandler.UpdateTask)
		protected.PATCH("/tasks/:uuid/toggle", taskHandler.ToggleTask)
		protected.DELETE("/tasks/:uuid", taskHandler.DeleteTask)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SetupRouterForTests wires only recovery and CORS so handler suites
// run without telemetry or rate limiting.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	if handlers.AuthHandler != nil {
		setupPublicRoutes(router, handlers.AuthHandler)
	}

	if handlers.TaskHandler != nil {
		setupProtectedRoutes(router, handlers.TaskHandler, nil)
	}

	return router
}

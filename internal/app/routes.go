package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	gh "github.com/quickai/server/internal/adapter/inbound/gin"
	"github.com/quickai/server/internal/shared/middleware"
)

func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if a.config.Server.MaxUploadSize > 0 {
		r.MaxMultipartMemory = a.config.Server.MaxUploadSize
	}

	corsCfg := middleware.DefaultCORSConfig()
	if len(a.config.Server.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = a.config.Server.AllowedOrigins
	}

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.CORS(corsCfg))

	r.GET("/health", a.health)
	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))

	return r
}

func (a *App) health(c *gin.Context) {
	status := gin.H{"status": "ok", "database": "ok", "redis": "disabled"}
	code := http.StatusOK

	if err := a.pingDatabase(c.Request.Context(), 2*time.Second); err != nil {
		status["status"] = "degraded"
		status["database"] = "unavailable"
		code = http.StatusServiceUnavailable
	}
	if a.redis != nil {
		status["redis"] = "ok"
		if err := a.redis.Ping(c.Request.Context()).Err(); err != nil {
			status["redis"] = "unavailable"
		}
	}
	c.JSON(code, status)
}

func (a *App) registerRoutes() {
	generationHandler := gh.NewGenerationHandler(a.generationDomain, a.config.Server.MaxUploadSize)
	creationHandler := gh.NewCreationHandler(a.creationDomain)

	rateLimit := middleware.DefaultRateLimitConfig()
	rateLimit.Limit = a.config.RateLimit.Limit
	rateLimit.Window = a.config.RateLimit.Window

	v1 := a.router.Group("/api/v1")
	v1.Use(middleware.RequireAuth(a.resolver))

	ai := v1.Group("/ai")
	ai.Use(middleware.RateLimit(a.limiter, rateLimit, a.zapLogger))
	{
		ai.POST("/generate-article", generationHandler.GenerateArticle)
		ai.POST("/generate-blog-title", generationHandler.GenerateBlogTitle)
		ai.POST("/generate-image", generationHandler.GenerateImage)
		ai.POST("/remove-image-background", generationHandler.RemoveImageBackground)
		ai.POST("/remove-image-object", generationHandler.RemoveImageObject)
		ai.POST("/resume-review", generationHandler.ReviewResume)
	}

	user := v1.Group("/user")
	{
		user.GET("/creations", creationHandler.ListOwn)
		user.GET("/published-creations", creationHandler.ListPublished)
		user.POST("/toggle-like-creation", creationHandler.ToggleLike)
		user.GET("/usage", generationHandler.Usage)
	}
}

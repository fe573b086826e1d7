package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/pingjob/config"
	_ "github.com/d60-Lab/pingjob/docs"
	"github.com/d60-Lab/pingjob/internal/api/handler"
	"github.com/d60-Lab/pingjob/internal/api/middleware"
)

// NewRouter 注册中间件与路由
func NewRouter(cfg *config.Config, h *handler.Handler, tokens middleware.TokenParser) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		sentrygin.New(sentrygin.Options{Repanic: true}),
		middleware.RequestID(),
		middleware.Logger(),
		gzip.Gzip(gzip.DefaultCompression),
	)
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.App.Name))
	}
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	r.GET("/health", h.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", h.Login)
		v1.GET("/platforms", h.Platforms)
		v1.GET("/jobs/:id/distributions", h.ListDistributions)

		secured := v1.Group("")
		secured.Use(middleware.JWTAuth(tokens))
		secured.POST("/distributions", h.Distribute)
		secured.POST("/jobs/:id/distribute", h.DistributeJob)
		secured.POST("/jobs/:id/announce", h.Announce)
	}
	return r
}

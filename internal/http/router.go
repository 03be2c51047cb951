package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/dsaquest-backend/internal/http/handlers"
	httpMW "github.com/yungbote/dsaquest-backend/internal/http/middleware"
	"github.com/yungbote/dsaquest-backend/internal/observability"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	ContentHandler      *httpH.ContentHandler
	ProgressHandler     *httpH.ProgressHandler
	NotificationHandler *httpH.NotificationHandler
	HealthHandler       *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.AttachRequestContext(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Admin content pipeline
	if cfg.ContentHandler != nil {
		admin := api.Group("/admin")
		if cfg.AuthMiddleware != nil {
			admin.Use(cfg.AuthMiddleware.RequireAdmin())
		}
		admin.POST("/content/reload", cfg.ContentHandler.Reload)
		admin.GET("/content/validation-report", cfg.ContentHandler.ValidationReport)
		admin.GET("/content/stats", cfg.ContentHandler.Stats)
		admin.GET("/content/activity", cfg.ContentHandler.Activity)
	}

	// Progress
	if cfg.ProgressHandler != nil {
		api.POST("/lessons/:externalId/complete", cfg.ProgressHandler.CompleteLesson)
		api.POST("/lessons/:externalId/steps/:index/complete", cfg.ProgressHandler.CompleteStep)
		api.GET("/me/progress", cfg.ProgressHandler.GetMyProgress)
	}

	// Notifications
	if cfg.NotificationHandler != nil {
		api.GET("/me/notifications", cfg.NotificationHandler.ListMine)
		api.POST("/me/notifications/:id/read", cfg.NotificationHandler.MarkRead)
	}

	return r
}

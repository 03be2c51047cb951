package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/dsaquest-backend/internal/http"
	httpH "github.com/yungbote/dsaquest-backend/internal/http/handlers"
	httpMW "github.com/yungbote/dsaquest-backend/internal/http/middleware"
	"github.com/yungbote/dsaquest-backend/internal/observability"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	Content      *httpH.ContentHandler
	Progress     *httpH.ProgressHandler
	Notification *httpH.NotificationHandler
}

// wireHandlers routes admin reloads through reloader when it is non-nil.
func wireHandlers(log *logger.Logger, db *gorm.DB, services Services, reloader httpH.ContentReloader) Handlers {
	log.Info("Wiring handlers...")
	var pinger httpH.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}
	return Handlers{
		Health:       httpH.NewHealthHandler(pinger),
		Content:      httpH.NewContentHandler(services.Content, reloader),
		Progress:     httpH.NewProgressHandler(services.Progress),
		Notification: httpH.NewNotificationHandler(services.Notification),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:                 log,
		Metrics:             metrics,
		ServiceName:         cfg.ServiceName,
		AllowedOrigins:      cfg.AllowedOrigins,
		AuthMiddleware:      middleware.Auth,
		HealthHandler:       handlers.Health,
		ContentHandler:      handlers.Content,
		ProgressHandler:     handlers.Progress,
		NotificationHandler: handlers.Notification,
	})
}

package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/dsaquest-backend/internal/data/repos"
	"github.com/yungbote/dsaquest-backend/internal/modules/learning/content"
	"github.com/yungbote/dsaquest-backend/internal/modules/learning/progression"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
	"github.com/yungbote/dsaquest-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Notification services.NotificationService
	Progress     services.ProgressService
	Content      services.ContentService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r repos.Repos, provider *content.Provider, clients Clients) Services {
	log.Info("Wiring services...")
	if cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY not set; every authenticated route will reject requests")
	}

	var locker services.ReloadLocker
	if clients.Locker != nil {
		locker = clients.Locker
	}

	notifications := services.NewNotificationService(db, log, r.Notification)
	return Services{
		Auth:         services.NewAuthService(log, cfg.JWTSecretKey, cfg.JWTIssuer),
		Notification: notifications,
		Progress: services.NewProgressService(
			db, log, r,
			progression.NewEngine(progression.DefaultRules()),
			notifications,
			progression.SystemClock,
		),
		Content: services.NewContentService(db, log, r, provider, locker, cfg.ReloadLockTTL),
	}
}

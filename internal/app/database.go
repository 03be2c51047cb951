package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/dsaquest-backend/internal/data/db"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

func openDatabase(log *logger.Logger, cfg Config) (*gorm.DB, error) {
	var (
		theDB *gorm.DB
		err   error
	)
	switch cfg.DatabaseDriver {
	case DriverSQLite:
		theDB, err = db.OpenSQLite(cfg.SQLitePath)
		if err == nil {
			log.Info("SQLite opened", "path", cfg.SQLitePath)
		}
	default:
		var pg *db.PostgresService
		pg, err = db.NewPostgresService(log)
		if err == nil {
			theDB = pg.DB()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("init %s: %w", cfg.DatabaseDriver, err)
	}
	if err := db.AutoMigrateAll(theDB); err != nil {
		_ = db.CloseDB(theDB)
		return nil, fmt.Errorf("%s automigrate: %w", cfg.DatabaseDriver, err)
	}
	return theDB, nil
}

package learning

import (
	"context"

	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ContentActivityLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*types.ContentActivityLog) ([]*types.ContentActivityLog, error)
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ContentActivityLog, error)
}

type contentActivityLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentActivityLogRepo(db *gorm.DB, baseLog *logger.Logger) ContentActivityLogRepo {
	repoLog := baseLog.With("repo", "ContentActivityLogRepo")
	return &contentActivityLogRepo{db: db, log: repoLog}
}

func (r *contentActivityLogRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.ContentActivityLog) ([]*types.ContentActivityLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(entries) == 0 {
		return []*types.ContentActivityLog{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *contentActivityLogRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ContentActivityLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if limit <= 0 {
		limit = 20
	}
	var results []*types.ContentActivityLog
	if err := transaction.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

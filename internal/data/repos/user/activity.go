package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserActivityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.UserActivity) ([]*types.UserActivity, error)
	ListByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.UserActivity, error)
}

type userActivityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserActivityRepo(db *gorm.DB, baseLog *logger.Logger) UserActivityRepo {
	repoLog := baseLog.With("repo", "UserActivityRepo")
	return &userActivityRepo{db: db, log: repoLog}
}

func (r *userActivityRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.UserActivity) ([]*types.UserActivity, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.UserActivity{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userActivityRepo) ListByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.UserActivity, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserActivity
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND action_time >= ?", userID, since).
		Order("action_time DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

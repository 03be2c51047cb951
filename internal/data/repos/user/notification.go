package user

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Notification) ([]*types.Notification, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, unreadOnly bool, limit int) ([]*types.Notification, error)
	MessagesByType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, typ string) ([]string, error)
	MarkRead(ctx context.Context, tx *gorm.DB, userID, notificationID uuid.UUID) (bool, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	repoLog := baseLog.With("repo", "NotificationRepo")
	return &notificationRepo{db: db, log: repoLog}
}

func (r *notificationRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Notification) ([]*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Notification{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, unreadOnly bool, limit int) ([]*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.Notification
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *notificationRepo) MessagesByType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, typ string) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var out []string
	if err := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("user_id = ? AND type = ?", userID, typ).
		Distinct().
		Pluck("message", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, userID, notificationID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

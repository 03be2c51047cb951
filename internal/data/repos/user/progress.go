package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.UserProgress) ([]*types.UserProgress, error)
	// Get returns (nil, nil) when no row exists. forUpdate takes a row lock
	// where the database supports one.
	Get(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID, forUpdate bool) (*types.UserProgress, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserProgress, error)
	CountCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	CompletionTimes(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]time.Time, error)
	// UpdateVersioned writes row only if its stored version still equals
	// row.Version, then bumps the version. It reports whether the write won.
	UpdateVersioned(ctx context.Context, tx *gorm.DB, row *types.UserProgress) (bool, error)
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	repoLog := baseLog.With("repo", "UserProgressRepo")
	return &userProgressRepo{db: db, log: repoLog}
}

func (r *userProgressRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.UserProgress) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.UserProgress{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userProgressRepo) Get(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID, forUpdate bool) (*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row types.UserProgress
	err := q.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *userProgressRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_updated DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userProgressRepo) CountCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var n int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *userProgressRepo) CompletionTimes(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]time.Time, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rows []*types.UserProgress
	if err := transaction.WithContext(ctx).
		Select("completed_at").
		Where("user_id = ? AND is_completed = ? AND completed_at IS NOT NULL", userID, true).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		if row.CompletedAt != nil {
			out = append(out, *row.CompletedAt)
		}
	}
	return out, nil
}

func (r *userProgressRepo) UpdateVersioned(ctx context.Context, tx *gorm.DB, row *types.UserProgress) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Where("id = ? AND version = ?", row.ID, row.Version).
		Updates(map[string]interface{}{
			"is_completed":       row.IsCompleted,
			"current_step_index": row.CurrentStepIndex,
			"started_at":         row.StartedAt,
			"completed_at":       row.CompletedAt,
			"last_updated":       row.LastUpdated,
			"xp_earned":          row.XPEarned,
			"version":            row.Version + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected != 1 {
		return false, nil
	}
	row.Version++
	return true, nil
}

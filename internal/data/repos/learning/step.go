package learning

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StepRepo interface {
	Create(ctx context.Context, tx *gorm.DB, steps []*types.Step) ([]*types.Step, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Step, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, stepIDs []uuid.UUID) ([]*types.Step, error)
	GetByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*types.Step, error)
	CountByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (int64, error)
	Upsert(ctx context.Context, tx *gorm.DB, steps []*types.Step) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type stepRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStepRepo(db *gorm.DB, baseLog *logger.Logger) StepRepo {
	repoLog := baseLog.With("repo", "StepRepo")
	return &stepRepo{db: db, log: repoLog}
}

func (r *stepRepo) Create(ctx context.Context, tx *gorm.DB, steps []*types.Step) ([]*types.Step, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(steps) == 0 {
		return []*types.Step{}, nil
	}

	if err := transaction.WithContext(ctx).Omit(clause.Associations).CreateInBatches(&steps, createBatchSize).Error; err != nil {
		return nil, err
	}
	return steps, nil
}

func (r *stepRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Step, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Step
	if err := transaction.WithContext(ctx).
		Order("lesson_id, sort_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *stepRepo) GetByIDs(ctx context.Context, tx *gorm.DB, stepIDs []uuid.UUID) ([]*types.Step, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Step
	if len(stepIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", stepIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *stepRepo) GetByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*types.Step, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Step
	if len(lessonIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("lesson_id IN ?", lessonIDs).
		Order("lesson_id, sort_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *stepRepo) CountByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var n int64
	if err := transaction.WithContext(ctx).
		Model(&types.Step{}).
		Where("lesson_id = ?", lessonID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *stepRepo) Upsert(ctx context.Context, tx *gorm.DB, steps []*types.Step) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(steps) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"lesson_id",
			"type",
			"title",
			"content",
			"code",
			"language",
			"image_url",
			"sort_order",
			"additional_data",
			"updated_at",
		}),
	}).CreateInBatches(&steps, createBatchSize).Error
}

func (r *stepRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var n int64
	if err := transaction.WithContext(ctx).Model(&types.Step{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

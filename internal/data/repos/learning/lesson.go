package learning

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) ([]*types.Lesson, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Lesson, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*types.Lesson, error)
	GetByExternalIDs(ctx context.Context, tx *gorm.DB, externalIDs []string) ([]*types.Lesson, error)
	GetByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*types.Lesson, error)
	ListWithoutSteps(ctx context.Context, tx *gorm.DB) ([]*types.Lesson, error)
	Upsert(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) Create(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lessons) == 0 {
		return []*types.Lesson{}, nil
	}

	if err := transaction.WithContext(ctx).CreateInBatches(&lessons, createBatchSize).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Lesson
	if err := transaction.WithContext(ctx).
		Order("module_id, external_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) GetByIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Lesson
	if len(lessonIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", lessonIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) GetByExternalIDs(ctx context.Context, tx *gorm.DB, externalIDs []string) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Lesson
	if len(externalIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("external_id IN ?", externalIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) GetByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Lesson
	if len(moduleIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("module_id IN ?", moduleIDs).
		Order("module_id, external_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) ListWithoutSteps(ctx context.Context, tx *gorm.DB) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Lesson
	if err := transaction.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM step WHERE step.lesson_id = lesson.id)").
		Order("external_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) Upsert(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lessons) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"module_id",
			"title",
			"description",
			"estimated_time",
			"xp_reward",
			"required_skills",
			"updated_at",
		}),
	}).CreateInBatches(&lessons, createBatchSize).Error
}

func (r *lessonRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var n int64
	if err := transaction.WithContext(ctx).Model(&types.Lesson{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

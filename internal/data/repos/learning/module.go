package learning

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// createBatchSize keeps multi-row inserts under SQLite's bound-parameter limit.
const createBatchSize = 50

type ModuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, modules []*types.Module) ([]*types.Module, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Module, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*types.Module, error)
	GetByExternalIDs(ctx context.Context, tx *gorm.DB, externalIDs []string) ([]*types.Module, error)
	Upsert(ctx context.Context, tx *gorm.DB, modules []*types.Module) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type moduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleRepo(db *gorm.DB, baseLog *logger.Logger) ModuleRepo {
	repoLog := baseLog.With("repo", "ModuleRepo")
	return &moduleRepo{db: db, log: repoLog}
}

func (r *moduleRepo) Create(ctx context.Context, tx *gorm.DB, modules []*types.Module) ([]*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(modules) == 0 {
		return []*types.Module{}, nil
	}

	if err := transaction.WithContext(ctx).CreateInBatches(&modules, createBatchSize).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *moduleRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Module
	if err := transaction.WithContext(ctx).
		Order("sort_order ASC, external_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *moduleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Module
	if len(moduleIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", moduleIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *moduleRepo) GetByExternalIDs(ctx context.Context, tx *gorm.DB, externalIDs []string) ([]*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Module
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

// Upsert inserts new rows and rewrites the content columns of existing ones,
// matching on the primary key.
func (r *moduleRepo) Upsert(ctx context.Context, tx *gorm.DB, modules []*types.Module) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(modules) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title",
			"description",
			"sort_order",
			"icon",
			"icon_color",
			"prerequisites",
			"updated_at",
		}),
	}).CreateInBatches(&modules, createBatchSize).Error
}

func (r *moduleRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var n int64
	if err := transaction.WithContext(ctx).Model(&types.Module{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

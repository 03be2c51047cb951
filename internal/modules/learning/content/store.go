package content

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/dsaquest-backend/internal/data/repos"
	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"gorm.io/gorm"
)

// Store is the persistence surface content sources work against.
type Store interface {
	ListModules(ctx context.Context) ([]*types.Module, error)
	ListLessons(ctx context.Context) ([]*types.Lesson, error)
	ListSteps(ctx context.Context) ([]*types.Step, error)
	LessonsByExternalID(ctx context.Context, externalIDs []string) ([]*types.Lesson, error)
	StepsByLesson(ctx context.Context, lessonID uuid.UUID) ([]*types.Step, error)
	LessonsWithoutSteps(ctx context.Context) ([]*types.Lesson, error)
	CountModules(ctx context.Context) (int64, error)
	CountLessons(ctx context.Context) (int64, error)
	CountSteps(ctx context.Context) (int64, error)

	// Save* insert new rows and update existing ones by primary key.
	SaveModules(ctx context.Context, modules []*types.Module) error
	SaveLessons(ctx context.Context, lessons []*types.Lesson) error
	SaveSteps(ctx context.Context, steps []*types.Step) error

	// InTx runs fn against a Store bound to one transaction. A non-nil error
	// from fn rolls back everything fn wrote.
	InTx(ctx context.Context, fn func(Store) error) error
}

// GormStore implements Store over the gorm repositories.
type GormStore struct {
	db    *gorm.DB
	tx    *gorm.DB
	repos repos.Repos
}

func NewGormStore(db *gorm.DB, r repos.Repos) *GormStore {
	return &GormStore{db: db, repos: r}
}

func (s *GormStore) ListModules(ctx context.Context) ([]*types.Module, error) {
	return s.repos.Module.List(ctx, s.tx)
}

func (s *GormStore) ListLessons(ctx context.Context) ([]*types.Lesson, error) {
	return s.repos.Lesson.List(ctx, s.tx)
}

func (s *GormStore) ListSteps(ctx context.Context) ([]*types.Step, error) {
	return s.repos.Step.List(ctx, s.tx)
}

func (s *GormStore) LessonsByExternalID(ctx context.Context, externalIDs []string) ([]*types.Lesson, error) {
	return s.repos.Lesson.GetByExternalIDs(ctx, s.tx, externalIDs)
}

func (s *GormStore) StepsByLesson(ctx context.Context, lessonID uuid.UUID) ([]*types.Step, error) {
	return s.repos.Step.GetByLessonIDs(ctx, s.tx, []uuid.UUID{lessonID})
}

func (s *GormStore) LessonsWithoutSteps(ctx context.Context) ([]*types.Lesson, error) {
	return s.repos.Lesson.ListWithoutSteps(ctx, s.tx)
}

func (s *GormStore) CountModules(ctx context.Context) (int64, error) {
	return s.repos.Module.Count(ctx, s.tx)
}

func (s *GormStore) CountLessons(ctx context.Context) (int64, error) {
	return s.repos.Lesson.Count(ctx, s.tx)
}

func (s *GormStore) CountSteps(ctx context.Context) (int64, error) {
	return s.repos.Step.Count(ctx, s.tx)
}

func (s *GormStore) SaveModules(ctx context.Context, modules []*types.Module) error {
	return s.repos.Module.Upsert(ctx, s.tx, modules)
}

func (s *GormStore) SaveLessons(ctx context.Context, lessons []*types.Lesson) error {
	return s.repos.Lesson.Upsert(ctx, s.tx, lessons)
}

func (s *GormStore) SaveSteps(ctx context.Context, steps []*types.Step) error {
	return s.repos.Step.Upsert(ctx, s.tx, steps)
}

func (s *GormStore) InTx(ctx context.Context, fn func(Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: s.db, tx: tx, repos: s.repos})
	})
}

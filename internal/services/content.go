package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	redisclient "github.com/yungbote/dsaquest-backend/internal/clients/redis"
	"github.com/yungbote/dsaquest-backend/internal/data/db"
	"github.com/yungbote/dsaquest-backend/internal/data/repos"
	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"github.com/yungbote/dsaquest-backend/internal/modules/learning/content"
	"github.com/yungbote/dsaquest-backend/internal/observability"
	"github.com/yungbote/dsaquest-backend/internal/platform/apierr"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

const (
	ContentActionReload   = "reload"
	ContentActionValidate = "validate"

	reloadLockKey = "content-reload"
)

// ReloadLocker excludes concurrent reloads across processes.
type ReloadLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

type ContentService interface {
	// Reload runs every registered source against the primary database.
	// Concurrent callers share one run.
	Reload(ctx context.Context, actor string) (content.Summary, error)
	// Validate runs the same sources against a disposable copy of the content
	// tables and reports what a reload would find.
	Validate(ctx context.Context) (content.Summary, error)
	Stats(ctx context.Context) (*content.ContentStats, error)
	RecentActivity(ctx context.Context, limit int) ([]*types.ContentActivityLog, error)
}

type contentService struct {
	db       *gorm.DB
	log      *logger.Logger
	repos    repos.Repos
	provider *content.Provider
	locker   ReloadLocker
	lockTTL  time.Duration

	group singleflight.Group
}

// NewContentService accepts a nil locker; reloads are then only collapsed
// within this process.
func NewContentService(db *gorm.DB, baseLog *logger.Logger, r repos.Repos, provider *content.Provider, locker ReloadLocker, lockTTL time.Duration) ContentService {
	if lockTTL <= 0 {
		lockTTL = 5 * time.Minute
	}
	return &contentService{
		db:       db,
		log:      baseLog.With("service", "ContentService"),
		repos:    r,
		provider: provider,
		locker:   locker,
		lockTTL:  lockTTL,
	}
}

func (s *contentService) Reload(ctx context.Context, actor string) (content.Summary, error) {
	// The shared run must not die with whichever caller started it.
	runCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do(ContentActionReload, func() (any, error) {
		return s.reload(runCtx, actor)
	})
	if err != nil {
		return content.Summary{}, err
	}
	if shared {
		s.log.Debug("Joined in-flight content reload", "actor", actor)
	}
	return v.(content.Summary), nil
}

func (s *contentService) reload(ctx context.Context, actor string) (content.Summary, error) {
	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, reloadLockKey, s.lockTTL)
		if errors.Is(err, redisclient.ErrLockHeld) {
			return content.Summary{}, fmt.Errorf("content reload already running elsewhere: %w", apierr.ErrConflict)
		}
		if err != nil {
			return content.Summary{}, fmt.Errorf("acquire reload lock: %w", err)
		}
		defer release()
	}

	started := time.Now()
	store := content.NewGormStore(s.db, s.repos)
	c := content.NewContext(store, s.log)
	s.provider.LoadAll(ctx, c)
	summary := c.Report.Summary()

	stats, err := content.Stats(ctx, store)
	if err != nil {
		s.log.Warn("Content stats unavailable after reload", "error", err)
	}
	took := time.Since(started)
	s.audit(ctx, ContentActionReload, actor, summary, stats, took)
	observability.Current().ObserveContentRun(ContentActionReload, summary.Success, summary.ErrorCount, summary.WarningCount, took)
	return summary, nil
}

func (s *contentService) Validate(ctx context.Context) (content.Summary, error) {
	shadow, err := s.snapshot(ctx)
	if err != nil {
		return content.Summary{}, err
	}
	defer func() {
		if err := db.CloseDB(shadow); err != nil {
			s.log.Warn("Failed to close validation database", "error", err)
		}
	}()

	store := content.NewGormStore(shadow, repos.New(shadow, s.log))
	c := content.NewContext(store, s.log)
	c.DryRun = true
	started := time.Now()
	s.provider.LoadAll(ctx, c)
	summary := c.Report.Summary()
	observability.Current().ObserveContentRun(ContentActionValidate, summary.Success, summary.ErrorCount, summary.WarningCount, time.Since(started))
	return summary, nil
}

// snapshot copies the content tables into a fresh in-memory database.
func (s *contentService) snapshot(ctx context.Context) (*gorm.DB, error) {
	modules, err := s.repos.Module.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot modules: %w", err)
	}
	lessons, err := s.repos.Lesson.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot lessons: %w", err)
	}
	steps, err := s.repos.Step.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot steps: %w", err)
	}

	shadow, err := db.OpenSQLite("")
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrateAll(shadow); err != nil {
		_ = db.CloseDB(shadow)
		return nil, err
	}
	r := repos.New(shadow, s.log)
	err = shadow.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.Module.Create(ctx, tx, modules); err != nil {
			return err
		}
		if _, err := r.Lesson.Create(ctx, tx, lessons); err != nil {
			return err
		}
		_, err := r.Step.Create(ctx, tx, steps)
		return err
	})
	if err != nil {
		_ = db.CloseDB(shadow)
		return nil, fmt.Errorf("populate validation database: %w", err)
	}
	return shadow, nil
}

func (s *contentService) Stats(ctx context.Context) (*content.ContentStats, error) {
	return content.Stats(ctx, content.NewGormStore(s.db, s.repos))
}

func (s *contentService) RecentActivity(ctx context.Context, limit int) ([]*types.ContentActivityLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repos.ContentActivityLog.ListRecent(ctx, nil, limit)
}

// audit failures are logged; the reload itself already happened.
func (s *contentService) audit(ctx context.Context, action, actor string, summary content.Summary, stats *content.ContentStats, took time.Duration) {
	counts := map[string]any{
		"issues":   summary.IssueCount,
		"errors":   summary.ErrorCount,
		"warnings": summary.WarningCount,
	}
	if stats != nil {
		counts["modules"] = stats.Modules
		counts["lessons"] = stats.Lessons
		counts["steps"] = stats.Steps
	}
	raw, err := json.Marshal(counts)
	if err != nil {
		s.log.Warn("Failed to encode content audit counts", "error", err)
		raw = []byte("{}")
	}

	msg := fmt.Sprintf("content %s finished with %d errors and %d warnings", action, summary.ErrorCount, summary.WarningCount)
	if _, err := s.repos.ContentActivityLog.Create(ctx, nil, []*types.ContentActivityLog{{
		Action:      action,
		Source:      content.ProviderSource,
		ContentType: "all",
		Actor:       actor,
		Message:     msg,
		Counts:      datatypes.JSON(raw),
	}}); err != nil {
		s.log.Error("Failed to write content activity log", "error", err)
	}
	s.log.Info("Content reload finished",
		"actor", actor,
		"success", summary.Success,
		"errors", summary.ErrorCount,
		"warnings", summary.WarningCount,
		"took", took.String(),
	)
}

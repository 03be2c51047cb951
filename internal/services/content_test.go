package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/yungbote/dsaquest-backend/internal/clients/redis"
	"github.com/yungbote/dsaquest-backend/internal/data/repos"
	"github.com/yungbote/dsaquest-backend/internal/data/repos/testutil"
	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"github.com/yungbote/dsaquest-backend/internal/modules/learning/content"
	"github.com/yungbote/dsaquest-backend/internal/platform/apierr"
)

type stubLocker struct {
	err      error
	acquired int
	released int
}

func (l *stubLocker) Acquire(context.Context, string, time.Duration) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired++
	return func() { l.released++ }, nil
}

func writeContentDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		content.ModulesFile: `[{"externalId": "linear", "title": "Linear structures", "order": 1}]`,
		content.LessonsFile: `[
  {"externalId": "stack-queue", "moduleId": "linear", "title": "Stacks and queues", "xpReward": 30},
  {"externalId": "orphan", "moduleId": "ghost", "title": "Orphan"}
]`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func newContentService(t *testing.T, locker ReloadLocker) (ContentService, repos.Repos) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.New(db, log)

	provider := content.NewProvider(log)
	provider.Register(content.NewJSONFileSource(content.DirFS(writeContentDir(t))))
	provider.Register(content.NewStackQueueAdapter())
	return NewContentService(db, log, r, provider, locker, time.Minute), r
}

func TestContentServiceReload(t *testing.T) {
	locker := &stubLocker{}
	svc, r := newContentService(t, locker)
	ctx := context.Background()

	summary, err := svc.Reload(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if !summary.Success || summary.WarningCount != 1 {
		t.Fatalf("Reload: unexpected summary %+v", summary)
	}
	if locker.acquired != 1 || locker.released != 1 {
		t.Fatalf("lock not acquired and released once: %+v", locker)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Modules != 1 || stats.Lessons != 1 || stats.Steps != 6 {
		t.Fatalf("Stats: unexpected %+v", stats)
	}

	logs, err := r.ContentActivityLog.ListRecent(ctx, nil, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != ContentActionReload || logs[0].Actor != "admin@example.com" {
		t.Fatalf("activity log: unexpected %+v", logs)
	}

	again, err := svc.Reload(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("Reload (repeat): %v", err)
	}
	if again.WarningCount != 1 {
		t.Fatalf("Reload (repeat): unexpected summary %+v", again)
	}
	stats, err = svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Steps != 6 {
		t.Fatalf("reload is not idempotent: %+v", stats)
	}
}

func TestContentServiceValidateLeavesPrimaryUntouched(t *testing.T) {
	svc, _ := newContentService(t, nil)
	ctx := context.Background()

	summary, err := svc.Validate(ctx)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !summary.Success || summary.WarningCount != 1 {
		t.Fatalf("Validate: unexpected summary %+v", summary)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Modules != 0 || stats.Lessons != 0 || stats.Steps != 0 {
		t.Fatalf("Validate wrote to the primary database: %+v", stats)
	}
}

func TestContentServiceValidateCopiesLargeStepTables(t *testing.T) {
	svc, r := newContentService(t, nil)
	ctx := context.Background()

	if _, err := svc.Reload(ctx, "admin@example.com"); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	lessons, err := r.Lesson.GetByExternalIDs(ctx, nil, []string{"stack-queue"})
	if err != nil || len(lessons) != 1 {
		t.Fatalf("lesson lookup: %v %v", lessons, err)
	}
	steps := make([]*types.Step, 0, 3000)
	for i := 0; i < 3000; i++ {
		steps = append(steps, &types.Step{
			ID:       uuid.New(),
			LessonID: lessons[0].ID,
			Type:     types.StepText,
			Title:    "extra",
			Order:    100 + i,
		})
	}
	if _, err := r.Step.Create(ctx, nil, steps); err != nil {
		t.Fatalf("seed steps: %v", err)
	}

	summary, err := svc.Validate(ctx)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !summary.Success {
		t.Fatalf("Validate: unexpected summary %+v", summary)
	}
}

func TestContentServiceReloadLockHeld(t *testing.T) {
	svc, _ := newContentService(t, &stubLocker{err: redisclient.ErrLockHeld})

	_, err := svc.Reload(context.Background(), "cron")
	if !errors.Is(err, apierr.ErrConflict) {
		t.Fatalf("Reload: expected ErrConflict, got %v", err)
	}
}

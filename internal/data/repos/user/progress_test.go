package user

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/dsaquest-backend/internal/data/repos/testutil"
	types "github.com/yungbote/dsaquest-backend/internal/domain"
)

func TestUserProgressRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewUserProgressRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "progress@example.com")
	m := testutil.SeedModule(t, ctx, tx, "m1", 1)
	l := testutil.SeedLesson(t, ctx, tx, m.ID, "l1", 25)

	missing, err := repo.Get(ctx, tx, u.ID, l.ID, false)
	if err != nil {
		t.Fatalf("Get (missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("Get (missing): expected nil, got %+v", missing)
	}

	now := time.Now().UTC()
	created, err := repo.Create(ctx, tx, []*types.UserProgress{{
		UserID:    u.ID,
		LessonID:  l.ID,
		StartedAt: testutil.PtrTime(now),
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	row, err := repo.Get(ctx, tx, u.ID, l.ID, true)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if row == nil || row.ID != created[0].ID {
		t.Fatalf("Get: unexpected row %+v", row)
	}

	stale := *row
	row.IsCompleted = true
	row.CompletedAt = testutil.PtrTime(now)
	row.XPEarned = 25
	ok, err := repo.UpdateVersioned(ctx, tx, row)
	if err != nil {
		t.Fatalf("UpdateVersioned: %v", err)
	}
	if !ok || row.Version != 1 {
		t.Fatalf("UpdateVersioned: expected win with version 1, got ok=%v version=%d", ok, row.Version)
	}

	stale.XPEarned = 50
	ok, err = repo.UpdateVersioned(ctx, tx, &stale)
	if err != nil {
		t.Fatalf("UpdateVersioned (stale): %v", err)
	}
	if ok {
		t.Fatalf("UpdateVersioned (stale): expected conflict")
	}

	count, err := repo.CountCompleted(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("CountCompleted: %v", err)
	}
	if count != 1 {
		t.Fatalf("CountCompleted: expected 1, got %d", count)
	}

	times, err := repo.CompletionTimes(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("CompletionTimes: %v", err)
	}
	if len(times) != 1 {
		t.Fatalf("CompletionTimes: expected 1, got %d", len(times))
	}
}

func TestNotificationRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewNotificationRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "notify@example.com")

	created, err := repo.Create(ctx, tx, []*types.Notification{
		{UserID: u.ID, Message: "first", Type: types.NotificationAchievement},
		{UserID: u.ID, Message: "level", Type: types.NotificationLevelUp},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	msgs, err := repo.MessagesByType(ctx, tx, u.ID, types.NotificationAchievement)
	if err != nil {
		t.Fatalf("MessagesByType: %v", err)
	}
	if len(msgs) != 1 || msgs[0] != "first" {
		t.Fatalf("MessagesByType: unexpected %v", msgs)
	}

	ok, err := repo.MarkRead(ctx, tx, u.ID, created[0].ID)
	if err != nil || !ok {
		t.Fatalf("MarkRead: ok=%v err=%v", ok, err)
	}
	unread, err := repo.ListByUser(ctx, tx, u.ID, true, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(unread) != 1 || unread[0].ID != created[1].ID {
		t.Fatalf("ListByUser: unexpected %+v", unread)
	}

	other := testutil.SeedUser(t, ctx, tx, "other@example.com")
	ok, err = repo.MarkRead(ctx, tx, other.ID, created[1].ID)
	if err != nil {
		t.Fatalf("MarkRead (other user): %v", err)
	}
	if ok {
		t.Fatalf("MarkRead: another user's notification was updated")
	}
}

func TestUserRepoExperience(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewUserRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "xp@example.com")

	if err := repo.UpdateExperience(ctx, tx, u.ID, 150, 2); err != nil {
		t.Fatalf("UpdateExperience: %v", err)
	}
	got, err := repo.GetForUpdate(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("GetForUpdate: %v", err)
	}
	if got == nil || got.ExperiencePoints != 150 || got.Level != 2 {
		t.Fatalf("GetForUpdate: unexpected %+v", got)
	}

	byEmail, err := repo.GetByEmails(ctx, tx, []string{"xp@example.com"})
	if err != nil {
		t.Fatalf("GetByEmails: %v", err)
	}
	if len(byEmail) != 1 {
		t.Fatalf("GetByEmails: expected 1, got %d", len(byEmail))
	}
}

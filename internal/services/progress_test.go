package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/dsaquest-backend/internal/data/repos"
	"github.com/yungbote/dsaquest-backend/internal/data/repos/testutil"
	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"github.com/yungbote/dsaquest-backend/internal/modules/learning/progression"
	"github.com/yungbote/dsaquest-backend/internal/platform/apierr"
)

var testNow = time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)

type progressFixture struct {
	db    *gorm.DB
	repos repos.Repos
	notes NotificationService
	svc   ProgressService
	user  *types.User
}

func newProgressFixture(t *testing.T) *progressFixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.New(db, log)
	notes := NewNotificationService(db, log, r.Notification)
	svc := NewProgressService(db, log, r, nil, notes, progression.FixedClock(testNow))
	user := testutil.SeedUser(t, context.Background(), db, "learner@example.com")
	return &progressFixture{db: db, repos: r, notes: notes, svc: svc, user: user}
}

func TestCompleteLessonAwardsOnce(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	m := testutil.SeedModule(t, ctx, f.db, "basics", 1)
	testutil.SeedLesson(t, ctx, f.db, m.ID, "arrays", 150)

	first, err := f.svc.CompleteLesson(ctx, f.user.ID, "arrays")
	if err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	if first.Outcome != OutcomeCompleted || first.XPAwarded != 150 || first.TotalXP != 150 {
		t.Fatalf("first completion: unexpected %+v", first)
	}
	if first.Level != 2 || !first.LeveledUp {
		t.Fatalf("first completion: expected level-up to 2, got %+v", first)
	}
	if first.Streak != 1 || first.BonusXP != 0 {
		t.Fatalf("first completion: streak=%d bonus=%d", first.Streak, first.BonusXP)
	}
	if len(first.Achievements) != 1 || first.Achievements[0] != "first-lesson" {
		t.Fatalf("first completion: achievements %v", first.Achievements)
	}

	second, err := f.svc.CompleteLesson(ctx, f.user.ID, "arrays")
	if err != nil {
		t.Fatalf("CompleteLesson (repeat): %v", err)
	}
	if second.Outcome != OutcomeAlreadyCompleted || second.XPAwarded != 0 || second.TotalXP != 150 {
		t.Fatalf("repeat completion: unexpected %+v", second)
	}

	users, err := f.repos.User.GetByIDs(ctx, nil, []uuid.UUID{f.user.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if users[0].ExperiencePoints != 150 || users[0].Level != 2 {
		t.Fatalf("user not updated once: %+v", users[0])
	}

	notes, err := f.notes.List(ctx, f.user.ID, false, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected level-up and achievement notifications, got %d", len(notes))
	}
}

func TestCompleteLessonStreakBonus(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	m := testutil.SeedModule(t, ctx, f.db, "basics", 1)
	earlier := []*types.Lesson{
		testutil.SeedLesson(t, ctx, f.db, m.ID, "day-1", 10),
		testutil.SeedLesson(t, ctx, f.db, m.ID, "day-2", 10),
	}
	testutil.SeedLesson(t, ctx, f.db, m.ID, "today", 20)
	testutil.SeedLesson(t, ctx, f.db, m.ID, "today-again", 20)

	for i, l := range earlier {
		done := testNow.AddDate(0, 0, -(i + 1))
		_, err := f.repos.UserProgress.Create(ctx, nil, []*types.UserProgress{{
			UserID:      f.user.ID,
			LessonID:    l.ID,
			IsCompleted: true,
			StartedAt:   testutil.PtrTime(done),
			CompletedAt: testutil.PtrTime(done),
			XPEarned:    10,
		}})
		if err != nil {
			t.Fatalf("seed progress: %v", err)
		}
	}

	res, err := f.svc.CompleteLesson(ctx, f.user.ID, "today")
	if err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	if res.Streak != 3 || res.BonusXP != 10 || res.TotalXP != 30 {
		t.Fatalf("streak completion: unexpected %+v", res)
	}

	streakMsgs, err := f.notes.NotifiedMessages(ctx, nil, f.user.ID, types.NotificationStreak)
	if err != nil {
		t.Fatalf("NotifiedMessages: %v", err)
	}
	if len(streakMsgs) != 1 {
		t.Fatalf("expected one streak milestone notification, got %v", streakMsgs)
	}

	again, err := f.svc.CompleteLesson(ctx, f.user.ID, "today-again")
	if err != nil {
		t.Fatalf("CompleteLesson (same day): %v", err)
	}
	if again.BonusXP != 0 || again.TotalXP != 50 {
		t.Fatalf("second completion today should carry no bonus: %+v", again)
	}
}

func TestCompleteStepAdvancesAndGradesQuiz(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	m := testutil.SeedModule(t, ctx, f.db, "linear", 1)
	l := testutil.SeedLesson(t, ctx, f.db, m.ID, "stack", 40)
	testutil.SeedStep(t, ctx, f.db, l.ID, 1, types.StepText, "")
	testutil.SeedStep(t, ctx, f.db, l.ID, 2, types.StepQuiz, `{"question":"LIFO?","options":[{"id":"1","text":"Stack","correct":true},{"id":"2","text":"Queue"}],"correctAnswer":"1"}`)

	if _, err := f.svc.CompleteStep(ctx, f.user.ID, "stack", 1, "1"); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("skipping ahead: expected ErrInvalidArgument, got %v", err)
	}

	res, err := f.svc.CompleteStep(ctx, f.user.ID, "stack", 0, "")
	if err != nil {
		t.Fatalf("CompleteStep(0): %v", err)
	}
	if res.CurrentStepIndex != 1 || res.Completion != nil {
		t.Fatalf("CompleteStep(0): unexpected %+v", res)
	}

	res, err = f.svc.CompleteStep(ctx, f.user.ID, "stack", 1, "2")
	if err != nil {
		t.Fatalf("CompleteStep(wrong): %v", err)
	}
	if res.Correct || res.CurrentStepIndex != 1 {
		t.Fatalf("wrong answer should not advance: %+v", res)
	}

	res, err = f.svc.CompleteStep(ctx, f.user.ID, "stack", 1, "1")
	if err != nil {
		t.Fatalf("CompleteStep(right): %v", err)
	}
	if !res.Correct || res.Completion == nil || res.Completion.Outcome != OutcomeCompleted {
		t.Fatalf("last step should complete the lesson: %+v", res)
	}
	if res.Completion.XPAwarded != 40 {
		t.Fatalf("completion XP: %+v", res.Completion)
	}

	if _, err := f.svc.CompleteStep(ctx, f.user.ID, "stack", 5, ""); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("out of range step: expected ErrNotFound, got %v", err)
	}
}

func TestCompleteStepGradesNumericAnswerKeys(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	m := testutil.SeedModule(t, ctx, f.db, "linear", 1)
	l := testutil.SeedLesson(t, ctx, f.db, m.ID, "stack", 50)
	testutil.SeedStep(t, ctx, f.db, l.ID, 1, types.StepQuiz, `{"question":"LIFO?","options":[{"id":1,"text":"Stack","correct":true},{"id":2,"text":"Queue"}],"correctAnswer":1}`)

	res, err := f.svc.CompleteStep(ctx, f.user.ID, "stack", 0, "2")
	if err != nil {
		t.Fatalf("CompleteStep(wrong): %v", err)
	}
	if res.Correct || res.Completion != nil {
		t.Fatalf("wrong answer accepted: %+v", res)
	}

	res, err = f.svc.CompleteStep(ctx, f.user.ID, "stack", 0, "1")
	if err != nil {
		t.Fatalf("CompleteStep(right): %v", err)
	}
	if !res.Correct || res.Completion == nil || res.Completion.XPAwarded != 50 {
		t.Fatalf("right answer should complete the lesson: %+v", res)
	}
}

func TestCompleteStepRejectsUnreadableQuiz(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	m := testutil.SeedModule(t, ctx, f.db, "linear", 1)
	l := testutil.SeedLesson(t, ctx, f.db, m.ID, "stack", 50)
	testutil.SeedStep(t, ctx, f.db, l.ID, 1, types.StepQuiz, `{"question":"LIFO?","correctAnswer":{"id":1}}`)

	if _, err := f.svc.CompleteStep(ctx, f.user.ID, "stack", 0, "anything"); err == nil {
		t.Fatalf("unreadable quiz payload graded as correct")
	}
	sum, err := f.svc.Summary(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.ExperiencePoints != 0 || sum.CompletedLessons != 0 {
		t.Fatalf("XP awarded for an ungraded quiz: %+v", sum)
	}
}

func TestProgressSummary(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	m := testutil.SeedModule(t, ctx, f.db, "basics", 1)
	testutil.SeedLesson(t, ctx, f.db, m.ID, "arrays", 120)

	if _, err := f.svc.CompleteLesson(ctx, f.user.ID, "arrays"); err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	sum, err := f.svc.Summary(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.ExperiencePoints != 120 || sum.Level != 2 || sum.CompletedLessons != 1 || sum.Streak != 1 {
		t.Fatalf("Summary: unexpected %+v", sum)
	}
	if sum.NextLevelXP != progression.XPForLevel(3) || sum.XPToNextLevel != progression.XPForLevel(3)-120 {
		t.Fatalf("Summary: next level %+v", sum)
	}
}

func TestProgressNotFound(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CompleteLesson(ctx, f.user.ID, "missing"); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("unknown lesson: expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Summary(ctx, uuid.New()); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("unknown user: expected ErrNotFound, got %v", err)
	}
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/dsaquest-backend/internal/data/aggregates"
	"github.com/yungbote/dsaquest-backend/internal/data/repos"
	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"github.com/yungbote/dsaquest-backend/internal/domain/learning"
	"github.com/yungbote/dsaquest-backend/internal/modules/learning/progression"
	"github.com/yungbote/dsaquest-backend/internal/observability"
	"github.com/yungbote/dsaquest-backend/internal/platform/apierr"
	"github.com/yungbote/dsaquest-backend/internal/platform/dbctx"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

type CompletionOutcome string

const (
	OutcomeCompleted        CompletionOutcome = "completed"
	OutcomeAlreadyCompleted CompletionOutcome = "already_completed"
)

type CompletionResult struct {
	Outcome      CompletionOutcome `json:"outcome"`
	Lesson       string            `json:"lesson"`
	XPAwarded    int               `json:"xpAwarded"`
	BonusXP      int               `json:"bonusXp"`
	TotalXP      int               `json:"totalXp"`
	Level        int               `json:"level"`
	LeveledUp    bool              `json:"leveledUp"`
	Streak       int               `json:"streak"`
	Achievements []string          `json:"achievements"`
}

type StepResult struct {
	Lesson           string            `json:"lesson"`
	StepIndex        int               `json:"stepIndex"`
	Correct          bool              `json:"correct"`
	CurrentStepIndex int               `json:"currentStepIndex"`
	TotalSteps       int               `json:"totalSteps"`
	Completion       *CompletionResult `json:"completion,omitempty"`
}

type ProgressSummary struct {
	UserID           uuid.UUID `json:"userId"`
	ExperiencePoints int       `json:"experiencePoints"`
	Level            int       `json:"level"`
	NextLevelXP      int       `json:"nextLevelXp"`
	XPToNextLevel    int       `json:"xpToNextLevel"`
	Streak           int       `json:"streak"`
	CompletedLessons int64     `json:"completedLessons"`
}

type ProgressService interface {
	CompleteLesson(ctx context.Context, userID uuid.UUID, lessonExternalID string) (*CompletionResult, error)
	CompleteStep(ctx context.Context, userID uuid.UUID, lessonExternalID string, stepIndex int, answer string) (*StepResult, error)
	Summary(ctx context.Context, userID uuid.UUID) (*ProgressSummary, error)
}

type progressService struct {
	log           *logger.Logger
	tx            aggregates.TxRunner
	repos         repos.Repos
	engine        *progression.Engine
	notifications NotificationService
	clock         progression.Clock
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	r repos.Repos,
	engine *progression.Engine,
	notifications NotificationService,
	clock progression.Clock,
) ProgressService {
	if engine == nil {
		engine = progression.NewEngine(progression.DefaultRules())
	}
	if clock == nil {
		clock = progression.SystemClock
	}
	return &progressService{
		log:           baseLog.With("service", "ProgressService"),
		tx:            aggregates.NewGormTxRunner(db),
		repos:         r,
		engine:        engine,
		notifications: notifications,
		clock:         clock,
	}
}

func (s *progressService) CompleteLesson(ctx context.Context, userID uuid.UUID, lessonExternalID string) (*CompletionResult, error) {
	var out *CompletionResult
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		user, lesson, err := s.loadUserAndLesson(dbc, userID, lessonExternalID)
		if err != nil {
			return err
		}
		prog, err := s.progressFor(dbc, user.ID, lesson.ID)
		if err != nil {
			return err
		}
		if prog.IsCompleted {
			out = alreadyCompleted(user, lesson)
			return nil
		}
		out, err = s.award(dbc, user, lesson, prog)
		return err
	})
	if err != nil {
		return nil, aggregates.MapError("complete lesson", err)
	}
	recordCompletion(out)
	return out, nil
}

// recordCompletion runs after commit so rolled back awards are never counted.
func recordCompletion(out *CompletionResult) {
	m := observability.Current()
	if m == nil || out == nil {
		return
	}
	m.IncLessonCompletion(string(out.Outcome))
	if out.Outcome != OutcomeCompleted {
		return
	}
	m.AddXP("lesson", out.XPAwarded)
	m.AddXP("streak_bonus", out.BonusXP)
	for _, key := range out.Achievements {
		m.IncAchievement(key)
	}
}

func (s *progressService) CompleteStep(ctx context.Context, userID uuid.UUID, lessonExternalID string, stepIndex int, answer string) (*StepResult, error) {
	var out *StepResult
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		user, lesson, err := s.loadUserAndLesson(dbc, userID, lessonExternalID)
		if err != nil {
			return err
		}
		steps, err := s.repos.Step.GetByLessonIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{lesson.ID})
		if err != nil {
			return err
		}
		if stepIndex < 0 || stepIndex >= len(steps) {
			return fmt.Errorf("step %d of lesson %q: %w", stepIndex, lessonExternalID, apierr.ErrNotFound)
		}
		prog, err := s.progressFor(dbc, user.ID, lesson.ID)
		if err != nil {
			return err
		}

		out = &StepResult{
			Lesson:           lesson.ExternalID,
			StepIndex:        stepIndex,
			Correct:          true,
			CurrentStepIndex: prog.CurrentStepIndex,
			TotalSteps:       len(steps),
		}
		if prog.IsCompleted {
			out.Completion = alreadyCompleted(user, lesson)
			return nil
		}
		if stepIndex > prog.CurrentStepIndex {
			return fmt.Errorf("step %d is not unlocked yet: %w", stepIndex, apierr.ErrInvalidArgument)
		}

		step := steps[stepIndex]
		action := types.ActionStepCompleted
		if step.Type == types.StepQuiz {
			action = types.ActionQuizCompleted
			correct, err := checkQuiz(step, answer)
			if err != nil {
				return err
			}
			if !correct {
				out.Correct = false
				return nil
			}
		}
		if stepIndex < prog.CurrentStepIndex {
			// Revisiting an earlier step changes nothing.
			return nil
		}

		now := s.clock.Now().UTC()
		prog.CurrentStepIndex++
		prog.LastUpdated = &now
		if _, err := s.repos.UserActivity.Create(dbc.Ctx, dbc.Tx, []*types.UserActivity{{
			UserID:      user.ID,
			ActionType:  action,
			ActionTime:  now,
			ReferenceID: step.ID.String(),
		}}); err != nil {
			return err
		}

		if prog.CurrentStepIndex >= len(steps) {
			out.CurrentStepIndex = len(steps)
			out.Completion, err = s.award(dbc, user, lesson, prog)
			return err
		}
		won, err := s.repos.UserProgress.UpdateVersioned(dbc.Ctx, dbc.Tx, prog)
		if err != nil {
			return err
		}
		if !won {
			return fmt.Errorf("progress changed concurrently: %w", apierr.ErrConflict)
		}
		out.CurrentStepIndex = prog.CurrentStepIndex
		return nil
	})
	if err != nil {
		return nil, aggregates.MapError("complete step", err)
	}
	if out.Completion != nil && out.Completion.Outcome == OutcomeCompleted {
		recordCompletion(out.Completion)
	}
	return out, nil
}

func (s *progressService) Summary(ctx context.Context, userID uuid.UUID) (*ProgressSummary, error) {
	var out *ProgressSummary
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		users, err := s.repos.User.GetByIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{userID})
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return fmt.Errorf("user %s: %w", userID, apierr.ErrNotFound)
		}
		user := users[0]
		completed, err := s.repos.UserProgress.CountCompleted(dbc.Ctx, dbc.Tx, userID)
		if err != nil {
			return err
		}
		streak, err := s.streak(dbc, userID)
		if err != nil {
			return err
		}
		level := progression.LevelForXP(user.ExperiencePoints)
		out = &ProgressSummary{
			UserID:           user.ID,
			ExperiencePoints: user.ExperiencePoints,
			Level:            level,
			NextLevelXP:      progression.XPForNextLevel(level),
			XPToNextLevel:    progression.XPToNextLevel(user.ExperiencePoints),
			Streak:           streak,
			CompletedLessons: completed,
		}
		return nil
	})
	if err != nil {
		return nil, aggregates.MapError("progress summary", err)
	}
	return out, nil
}

func (s *progressService) loadUserAndLesson(dbc dbctx.Context, userID uuid.UUID, lessonExternalID string) (*types.User, *types.Lesson, error) {
	user, err := s.repos.User.GetForUpdate(dbc.Ctx, dbc.Tx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, fmt.Errorf("user %s: %w", userID, apierr.ErrNotFound)
	}
	lessons, err := s.repos.Lesson.GetByExternalIDs(dbc.Ctx, dbc.Tx, []string{lessonExternalID})
	if err != nil {
		return nil, nil, err
	}
	if len(lessons) == 0 {
		return nil, nil, fmt.Errorf("lesson %q: %w", lessonExternalID, apierr.ErrNotFound)
	}
	return user, lessons[0], nil
}

// progressFor returns the row-locked progress row, creating it on first touch.
func (s *progressService) progressFor(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.UserProgress, error) {
	prog, err := s.repos.UserProgress.Get(dbc.Ctx, dbc.Tx, userID, lessonID, true)
	if err != nil || prog != nil {
		return prog, err
	}
	now := s.clock.Now().UTC()
	created, err := s.repos.UserProgress.Create(dbc.Ctx, dbc.Tx, []*types.UserProgress{{
		UserID:      userID,
		LessonID:    lessonID,
		StartedAt:   &now,
		LastUpdated: &now,
	}})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

// award completes prog and applies every consequence: XP, level, streak
// bonus, notifications and achievements. A lost version race reports
// AlreadyCompleted and awards nothing.
func (s *progressService) award(dbc dbctx.Context, user *types.User, lesson *types.Lesson, prog *types.UserProgress) (*CompletionResult, error) {
	ctx, tx := dbc.Ctx, dbc.Tx
	now := s.clock.Now().UTC()

	prog.IsCompleted = true
	prog.CompletedAt = &now
	prog.LastUpdated = &now
	prog.XPEarned = lesson.XPReward
	won, err := s.repos.UserProgress.UpdateVersioned(ctx, tx, prog)
	if err != nil {
		return nil, err
	}
	if !won {
		s.log.Warn("Lost completion race", "user_id", user.ID, "lesson", lesson.ExternalID)
		return alreadyCompleted(user, lesson), nil
	}

	if _, err := s.repos.UserActivity.Create(ctx, tx, []*types.UserActivity{{
		UserID:      user.ID,
		ActionType:  types.ActionLessonCompleted,
		ActionTime:  now,
		ReferenceID: lesson.ExternalID,
	}}); err != nil {
		return nil, err
	}

	times, err := s.repos.UserProgress.CompletionTimes(ctx, tx, user.ID)
	if err != nil {
		return nil, err
	}
	today := progression.Today(s.clock)
	streak := progression.CalculateStreak(times, today)
	bonus := 0
	if completionsOn(times, today) == 1 {
		bonus = progression.StreakBonusXP(streak)
	}

	prevXP, prevLevel := user.ExperiencePoints, progression.LevelForXP(user.ExperiencePoints)
	newXP := prevXP + lesson.XPReward + bonus
	newLevel := progression.LevelForXP(newXP)
	if err := s.repos.User.UpdateExperience(ctx, tx, user.ID, newXP, newLevel); err != nil {
		return nil, err
	}

	out := &CompletionResult{
		Outcome:      OutcomeCompleted,
		Lesson:       lesson.ExternalID,
		XPAwarded:    lesson.XPReward,
		BonusXP:      bonus,
		TotalXP:      newXP,
		Level:        newLevel,
		LeveledUp:    newLevel > prevLevel,
		Streak:       streak,
		Achievements: []string{},
	}
	if s.notifications == nil {
		return out, nil
	}

	sink := s.notifications.Sink(tx)
	if out.LeveledUp {
		msg := fmt.Sprintf("Congratulations! You reached level %d!", newLevel)
		if err := sink.Send(ctx, user.ID, msg, types.NotificationLevelUp); err != nil {
			return nil, err
		}
	}
	if bonus > 0 && progression.IsStreakMilestone(streak) {
		msg := fmt.Sprintf("%d-day learning streak! +%d bonus XP", streak, bonus)
		if err := sink.Send(ctx, user.ID, msg, types.NotificationStreak); err != nil {
			return nil, err
		}
	}

	completed, err := s.repos.UserProgress.CountCompleted(ctx, tx, user.ID)
	if err != nil {
		return nil, err
	}
	notified, err := s.notifications.NotifiedMessages(ctx, tx, user.ID, progression.AchievementType)
	if err != nil {
		return nil, err
	}
	achCtx := progression.Context{
		PreviousXP:       prevXP,
		CurrentXP:        newXP,
		PreviousLevel:    prevLevel,
		CurrentLevel:     newLevel,
		CompletedLessons: int(completed),
		Streak:           streak,
	}
	earned := s.engine.Evaluate(achCtx, notified)
	if _, err := s.engine.Notify(ctx, user.ID, achCtx, notified, sink); err != nil {
		return nil, err
	}
	for _, r := range earned {
		out.Achievements = append(out.Achievements, r.Key)
	}

	s.log.Info("Lesson completed",
		"user_id", user.ID,
		"lesson", lesson.ExternalID,
		"xp", lesson.XPReward,
		"bonus_xp", bonus,
		"level", newLevel,
		"streak", streak,
		"achievements", len(out.Achievements),
	)
	return out, nil
}

func (s *progressService) streak(dbc dbctx.Context, userID uuid.UUID) (int, error) {
	times, err := s.repos.UserProgress.CompletionTimes(dbc.Ctx, dbc.Tx, userID)
	if err != nil {
		return 0, err
	}
	return progression.CalculateStreak(times, progression.Today(s.clock)), nil
}

func alreadyCompleted(user *types.User, lesson *types.Lesson) *CompletionResult {
	return &CompletionResult{
		Outcome:      OutcomeAlreadyCompleted,
		Lesson:       lesson.ExternalID,
		TotalXP:      user.ExperiencePoints,
		Level:        progression.LevelForXP(user.ExperiencePoints),
		Achievements: []string{},
	}
}

func completionsOn(times []time.Time, day time.Time) int {
	n := 0
	for _, t := range times {
		t = t.UTC()
		if t.Year() == day.Year() && t.YearDay() == day.YearDay() {
			n++
		}
	}
	return n
}

func checkQuiz(step *types.Step, answer string) (bool, error) {
	p, err := step.Payload()
	if err != nil {
		return false, fmt.Errorf("quiz step %s has an unreadable payload: %w", step.ID, err)
	}
	quiz, ok := p.(*learning.QuizPayload)
	if !ok || quiz == nil || !gradable(quiz) {
		return true, nil
	}
	if answer == "" {
		return false, fmt.Errorf("quiz answer required: %w", apierr.ErrInvalidArgument)
	}
	return quiz.Check(answer), nil
}

func gradable(q *learning.QuizPayload) bool {
	if q.CorrectAnswer != "" {
		return true
	}
	for _, o := range q.Options {
		if o.Correct {
			return true
		}
	}
	return false
}

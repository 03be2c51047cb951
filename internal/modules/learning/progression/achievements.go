package progression

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const AchievementType = "achievement"

// Context is the per-check snapshot rules are evaluated against.
type Context struct {
	PreviousXP       int
	CurrentXP        int
	PreviousLevel    int
	CurrentLevel     int
	CompletedLessons int
	Streak           int
}

// Rule is one achievement. Message doubles as the de-duplication key for a
// user's already-delivered notifications.
type Rule struct {
	Key       string
	Message   string
	Type      string
	Condition func(Context) bool
}

// Sink delivers a newly earned achievement.
type Sink interface {
	Send(ctx context.Context, userID uuid.UUID, message, typ string) error
}

type SinkFunc func(ctx context.Context, userID uuid.UUID, message, typ string) error

func (f SinkFunc) Send(ctx context.Context, userID uuid.UUID, message, typ string) error {
	return f(ctx, userID, message, typ)
}

// DefaultRules returns a fresh copy of the stock catalogue.
func DefaultRules() []Rule {
	return []Rule{
		{
			Key:       "first-lesson",
			Message:   "Achievement unlocked: you completed your first lesson!",
			Type:      AchievementType,
			Condition: func(c Context) bool { return c.CompletedLessons >= 1 },
		},
		{
			Key:       "10-lessons",
			Message:   "Achievement unlocked: 10 lessons completed!",
			Type:      AchievementType,
			Condition: func(c Context) bool { return c.CompletedLessons >= 10 },
		},
		{
			Key:       "1000-xp",
			Message:   "Achievement unlocked: 1000 XP earned!",
			Type:      AchievementType,
			Condition: func(c Context) bool { return c.PreviousXP < 1000 && c.CurrentXP >= 1000 },
		},
		{
			Key:       "level-5",
			Message:   "Achievement unlocked: level 5 reached!",
			Type:      AchievementType,
			Condition: func(c Context) bool { return c.PreviousLevel < 5 && c.CurrentLevel >= 5 },
		},
		{
			Key:       "streak-7",
			Message:   "Achievement unlocked: 7-day learning streak!",
			Type:      AchievementType,
			Condition: func(c Context) bool { return c.Streak >= 7 },
		},
	}
}

// Engine evaluates a fixed rule list. The list is copied on construction and
// never mutated, so one Engine is safe for concurrent use.
type Engine struct {
	rules []Rule
}

func NewEngine(rules []Rule) *Engine {
	cp := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Condition == nil || r.Message == "" {
			continue
		}
		if r.Type == "" {
			r.Type = AchievementType
		}
		cp = append(cp, r)
	}
	return &Engine{rules: cp}
}

func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Evaluate returns, in rule order, every rule whose condition holds and whose
// message is not in notified.
func (e *Engine) Evaluate(c Context, notified map[string]bool) []Rule {
	var out []Rule
	seen := make(map[string]bool, len(e.rules))
	for _, r := range e.rules {
		if notified[r.Message] || seen[r.Message] {
			continue
		}
		if !r.Condition(c) {
			continue
		}
		seen[r.Message] = true
		out = append(out, r)
	}
	return out
}

// Notify sends every newly earned achievement to sink and records it in
// notified. It stops at the first sink failure and returns how many were sent.
func (e *Engine) Notify(ctx context.Context, userID uuid.UUID, c Context, notified map[string]bool, sink Sink) (int, error) {
	if sink == nil {
		return 0, nil
	}
	if notified == nil {
		notified = map[string]bool{}
	}
	sent := 0
	for _, r := range e.Evaluate(c, notified) {
		if err := sink.Send(ctx, userID, r.Message, r.Type); err != nil {
			return sent, fmt.Errorf("send achievement %q: %w", r.Key, err)
		}
		notified[r.Message] = true
		sent++
	}
	return sent, nil
}

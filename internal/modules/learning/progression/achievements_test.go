package progression

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type recordingSink struct {
	messages []string
	err      error
}

func (s *recordingSink) Send(_ context.Context, _ uuid.UUID, message, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, message)
	return nil
}

func TestEngineFiresOnceAcrossChecks(t *testing.T) {
	engine := NewEngine(DefaultRules())
	sink := &recordingSink{}
	notified := map[string]bool{}
	userID := uuid.New()

	first := Context{PreviousXP: 0, CurrentXP: 50, PreviousLevel: 1, CurrentLevel: 1, CompletedLessons: 1}
	n, err := engine.Notify(context.Background(), userID, first, notified, sink)
	if err != nil || n != 1 {
		t.Fatalf("first Notify = %d, %v", n, err)
	}

	second := Context{PreviousXP: 50, CurrentXP: 100, PreviousLevel: 1, CurrentLevel: 2, CompletedLessons: 2}
	n, err = engine.Notify(context.Background(), userID, second, notified, sink)
	if err != nil || n != 0 {
		t.Fatalf("second Notify = %d, %v", n, err)
	}
	if len(sink.messages) != 1 {
		t.Fatalf("messages = %v", sink.messages)
	}
}

func TestEngineEdgeTriggeredXP(t *testing.T) {
	engine := NewEngine(DefaultRules())
	crossed := engine.Evaluate(Context{PreviousXP: 900, CurrentXP: 1100, PreviousLevel: 4, CurrentLevel: 5}, nil)
	keys := map[string]bool{}
	for _, r := range crossed {
		keys[r.Key] = true
	}
	if !keys["1000-xp"] || !keys["level-5"] {
		t.Fatalf("expected xp and level rules, got %v", keys)
	}

	after := engine.Evaluate(Context{PreviousXP: 1100, CurrentXP: 1200, PreviousLevel: 5, CurrentLevel: 5}, nil)
	for _, r := range after {
		if r.Key == "1000-xp" || r.Key == "level-5" {
			t.Fatalf("rule %s re-fired after threshold", r.Key)
		}
	}
}

func TestEngineRulesAreCopied(t *testing.T) {
	rules := DefaultRules()
	engine := NewEngine(rules)
	rules[0].Condition = func(Context) bool { return false }

	got := engine.Evaluate(Context{CompletedLessons: 1}, nil)
	if len(got) != 1 || got[0].Key != "first-lesson" {
		t.Fatalf("engine observed caller mutation: %v", got)
	}

	custom := append(DefaultRules(), Rule{
		Key:       "night-owl",
		Message:   "night owl",
		Condition: func(c Context) bool { return c.Streak >= 2 },
	})
	got = NewEngine(custom).Evaluate(Context{Streak: 2}, nil)
	if len(got) != 1 || got[0].Type != AchievementType {
		t.Fatalf("custom rule not evaluated: %v", got)
	}
}

func TestEngineNotifyStopsOnSinkError(t *testing.T) {
	engine := NewEngine(DefaultRules())
	notified := map[string]bool{}
	sink := &recordingSink{err: errors.New("down")}
	n, err := engine.Notify(context.Background(), uuid.New(), Context{CompletedLessons: 10}, notified, sink)
	if err == nil || n != 0 {
		t.Fatalf("Notify = %d, %v", n, err)
	}
	if len(notified) != 0 {
		t.Fatalf("failed send was recorded as notified: %v", notified)
	}
}

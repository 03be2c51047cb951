package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: "Learner",
		Level:       1,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedModule(tb testing.TB, ctx context.Context, tx *gorm.DB, externalID string, order int) *types.Module {
	tb.Helper()
	m := &types.Module{
		ID:            uuid.New(),
		ExternalID:    externalID,
		Title:         "module " + externalID,
		Order:         order,
		Prerequisites: datatypes.JSONSlice[string]{},
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed module: %v", err)
	}
	return m
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, externalID string, xp int) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID:             uuid.New(),
		ExternalID:     externalID,
		ModuleID:       moduleID,
		Title:          "lesson " + externalID,
		XPReward:       xp,
		RequiredSkills: datatypes.JSONSlice[string]{},
	}
	if err := tx.WithContext(ctx).Omit("Module").Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedStep(tb testing.TB, ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, order int, typ types.StepType, payload string) *types.Step {
	tb.Helper()
	s := &types.Step{
		ID:       uuid.New(),
		LessonID: lessonID,
		Type:     typ,
		Title:    "step",
		Content:  "content",
		Order:    order,
	}
	if payload != "" {
		s.AdditionalData = datatypes.JSON([]byte(payload))
	}
	if err := tx.WithContext(ctx).Omit("Lesson").Create(s).Error; err != nil {
		tb.Fatalf("seed step: %v", err)
	}
	return s
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }

package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActionType string

const (
	ActionLessonCompleted ActionType = "lesson_completed"
	ActionStepCompleted   ActionType = "step_completed"
	ActionQuizCompleted   ActionType = "quiz_completed"
)

type UserActivity struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ActionType     ActionType `gorm:"column:action_type;not null;index" json:"action_type"`
	ActionTime     time.Time  `gorm:"column:action_time;not null;index" json:"action_time"`
	ReferenceID    string     `gorm:"column:reference_id" json:"reference_id,omitempty"`
	AdditionalInfo string     `gorm:"column:additional_info;type:text" json:"additional_info,omitempty"`
}

func (UserActivity) TableName() string { return "user_activity" }

func (a *UserActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.ActionTime.IsZero() {
		a.ActionTime = time.Now().UTC()
	}
	return nil
}

package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProgress is keyed by (user_id, lesson_id). Version is bumped on every
// update and guards the completion transition against concurrent writers.
type UserProgress struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_progress_user_lesson" json:"user_id"`
	LessonID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_progress_user_lesson;index" json:"lesson_id"`
	IsCompleted      bool       `gorm:"column:is_completed;not null;default:false;index" json:"is_completed"`
	CurrentStepIndex int        `gorm:"column:current_step_index;not null;default:0" json:"current_step_index"`
	StartedAt        *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt      *time.Time `gorm:"column:completed_at;index" json:"completed_at,omitempty"`
	LastUpdated      *time.Time `gorm:"column:last_updated" json:"last_updated,omitempty"`
	XPEarned         int        `gorm:"column:xp_earned;not null;default:0" json:"xp_earned"`
	Version          int        `gorm:"column:version;not null;default:0" json:"-"`
}

func (UserProgress) TableName() string { return "user_progress" }

func (p *UserProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ActivityDate is the timestamp that counts towards streaks.
func (p *UserProgress) ActivityDate() (time.Time, bool) {
	switch {
	case p.CompletedAt != nil:
		return *p.CompletedAt, true
	case p.StartedAt != nil:
		return *p.StartedAt, true
	default:
		return time.Time{}, false
	}
}

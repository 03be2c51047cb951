package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User holds the gamification state of a learner. Level is a cache derived
// from ExperiencePoints and is rewritten whenever XP changes.
type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email            string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	DisplayName      string    `gorm:"column:display_name" json:"display_name"`
	ExperiencePoints int       `gorm:"column:experience_points;not null;default:0" json:"experience_points"`
	Level            int       `gorm:"column:level;not null;default:1" json:"level"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Level < 1 {
		u.Level = 1
	}
	return nil
}

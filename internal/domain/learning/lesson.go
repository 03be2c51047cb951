package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Lesson struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID     string                      `gorm:"column:external_id;not null;uniqueIndex" json:"external_id" validate:"required"`
	ModuleID       uuid.UUID                   `gorm:"type:uuid;not null;index" json:"module_id"`
	Module         *Module                     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty" validate:"-"`
	Title          string                      `gorm:"column:title;not null" json:"title" validate:"required"`
	Description    string                      `gorm:"column:description;type:text" json:"description"`
	EstimatedTime  string                      `gorm:"column:estimated_time" json:"estimated_time,omitempty"`
	XPReward       int                         `gorm:"column:xp_reward;not null;default:0" json:"xp_reward" validate:"gte=0"`
	RequiredSkills datatypes.JSONSlice[string] `gorm:"column:required_skills" json:"required_skills"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.RequiredSkills == nil {
		l.RequiredSkills = datatypes.JSONSlice[string]{}
	}
	return nil
}

func (l *Lesson) ApplyFrom(src *Lesson) {
	l.Title = src.Title
	l.Description = src.Description
	l.ModuleID = src.ModuleID
	l.EstimatedTime = src.EstimatedTime
	l.XPReward = src.XPReward
	l.RequiredSkills = src.RequiredSkills
}

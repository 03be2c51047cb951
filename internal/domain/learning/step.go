package learning

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StepType string

const (
	StepText        StepType = "text"
	StepImage       StepType = "image"
	StepCode        StepType = "code"
	StepQuiz        StepType = "quiz"
	StepInteractive StepType = "interactive"
	StepChallenge   StepType = "challenge"
	StepCoding      StepType = "coding"
	StepList        StepType = "list"
	StepVideo       StepType = "video"
)

// ParseStepType normalises a raw type tag. ok is false for unknown tags.
func ParseStepType(raw string) (StepType, bool) {
	t := StepType(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case StepText, StepImage, StepCode, StepQuiz, StepInteractive,
		StepChallenge, StepCoding, StepList, StepVideo:
		return t, true
	default:
		return t, false
	}
}

type Step struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_step_lesson_order" json:"lesson_id"`
	Lesson         *Lesson        `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Type           StepType       `gorm:"column:type;not null" json:"type"`
	Title          string         `gorm:"column:title" json:"title"`
	Content        string         `gorm:"column:content;type:text" json:"content"`
	Code           string         `gorm:"column:code;type:text" json:"code,omitempty"`
	Language       string         `gorm:"column:language" json:"language,omitempty"`
	ImageURL       string         `gorm:"column:image_url" json:"image_url,omitempty"`
	Order          int            `gorm:"column:sort_order;not null;default:0;index:idx_step_lesson_order" json:"order"`
	AdditionalData datatypes.JSON `gorm:"column:additional_data" json:"additional_data,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Step) TableName() string { return "step" }

func (s *Step) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *Step) ApplyFrom(src *Step) {
	s.LessonID = src.LessonID
	s.Type = src.Type
	s.Title = src.Title
	s.Content = src.Content
	s.Code = src.Code
	s.Language = src.Language
	s.ImageURL = src.ImageURL
	s.Order = src.Order
	s.AdditionalData = src.AdditionalData
}

// Payload decodes AdditionalData into its typed variant.
func (s *Step) Payload() (Payload, error) {
	return DecodePayload(s.Type, s.AdditionalData)
}

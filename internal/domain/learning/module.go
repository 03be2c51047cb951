package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Module groups lessons. ExternalID is the stable key used by content files.
type Module struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID    string                      `gorm:"column:external_id;not null;uniqueIndex" json:"external_id" validate:"required"`
	Title         string                      `gorm:"column:title;not null" json:"title" validate:"required"`
	Description   string                      `gorm:"column:description;type:text" json:"description"`
	Order         int                         `gorm:"column:sort_order;not null;default:0" json:"order" validate:"gte=0"`
	Icon          string                      `gorm:"column:icon" json:"icon,omitempty"`
	IconColor     string                      `gorm:"column:icon_color" json:"icon_color,omitempty"`
	Prerequisites datatypes.JSONSlice[string] `gorm:"column:prerequisites" json:"prerequisites"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Module) TableName() string { return "module" }

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Prerequisites == nil {
		m.Prerequisites = datatypes.JSONSlice[string]{}
	}
	return nil
}

// ApplyFrom copies the mutable content fields of src onto m.
func (m *Module) ApplyFrom(src *Module) {
	m.Title = src.Title
	m.Description = src.Description
	m.Order = src.Order
	m.Icon = src.Icon
	m.IconColor = src.IconColor
	m.Prerequisites = src.Prerequisites
}

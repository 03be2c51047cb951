package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentActivityLog is an audit row written once per content reload. It keeps
// summary counts only; individual validation issues are never persisted.
type ContentActivityLog struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Action      string         `gorm:"column:action;not null;index" json:"action"`
	Source      string         `gorm:"column:source;not null" json:"source"`
	ContentType string         `gorm:"column:content_type" json:"content_type"`
	Actor       string         `gorm:"column:actor" json:"actor"`
	Message     string         `gorm:"column:message;type:text" json:"message"`
	Counts      datatypes.JSON `gorm:"column:counts" json:"counts"`
	Timestamp   time.Time      `gorm:"column:timestamp;not null;index" json:"timestamp"`
}

func (ContentActivityLog) TableName() string { return "content_activity_log" }

func (l *ContentActivityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	return nil
}

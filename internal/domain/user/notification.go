package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationAchievement = "achievement"
	NotificationLevelUp     = "level-up"
	NotificationStreak      = "streak"
	NotificationInfo        = "info"
)

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_notification_user_type" json:"user_id"`
	Message   string    `gorm:"column:message;type:text;not null" json:"message"`
	Type      string    `gorm:"column:type;not null;index:idx_notification_user_type" json:"type"`
	IsRead    bool      `gorm:"column:is_read;not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string { return "notification" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

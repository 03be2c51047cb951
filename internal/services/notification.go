package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/dsaquest-backend/internal/data/repos"
	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"github.com/yungbote/dsaquest-backend/internal/modules/learning/progression"
	"github.com/yungbote/dsaquest-backend/internal/platform/apierr"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

type NotificationService interface {
	// Send persists a notification outside any caller transaction.
	Send(ctx context.Context, userID uuid.UUID, message, typ string) error
	// Sink returns an achievement sink that writes through tx.
	Sink(tx *gorm.DB) progression.Sink
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*types.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	// NotifiedMessages is the de-duplication set for typ.
	NotifiedMessages(ctx context.Context, tx *gorm.DB, userID uuid.UUID, typ string) (map[string]bool, error)
}

type notificationService struct {
	db    *gorm.DB
	log   *logger.Logger
	notes repos.NotificationRepo
}

func NewNotificationService(db *gorm.DB, baseLog *logger.Logger, notes repos.NotificationRepo) NotificationService {
	return &notificationService{db: db, log: baseLog.With("service", "NotificationService"), notes: notes}
}

func (s *notificationService) Send(ctx context.Context, userID uuid.UUID, message, typ string) error {
	return s.send(ctx, nil, userID, message, typ)
}

func (s *notificationService) send(ctx context.Context, tx *gorm.DB, userID uuid.UUID, message, typ string) error {
	if userID == uuid.Nil || message == "" {
		return fmt.Errorf("notification: %w", apierr.ErrInvalidArgument)
	}
	if typ == "" {
		typ = types.NotificationInfo
	}
	_, err := s.notes.Create(ctx, tx, []*types.Notification{{
		UserID:  userID,
		Message: message,
		Type:    typ,
	}})
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	s.log.Debug("Notification created", "user_id", userID, "type", typ)
	return nil
}

func (s *notificationService) Sink(tx *gorm.DB) progression.Sink {
	return progression.SinkFunc(func(ctx context.Context, userID uuid.UUID, message, typ string) error {
		return s.send(ctx, tx, userID, message, typ)
	})
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*types.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.notes.ListByUser(ctx, nil, userID, unreadOnly, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	ok, err := s.notes.MarkRead(ctx, nil, userID, notificationID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !ok {
		return fmt.Errorf("notification %s: %w", notificationID, apierr.ErrNotFound)
	}
	return nil
}

func (s *notificationService) NotifiedMessages(ctx context.Context, tx *gorm.DB, userID uuid.UUID, typ string) (map[string]bool, error) {
	msgs, err := s.notes.MessagesByType(ctx, tx, userID, typ)
	if err != nil {
		return nil, fmt.Errorf("load notified messages: %w", err)
	}
	out := make(map[string]bool, len(msgs))
	for _, m := range msgs {
		out[m] = true
	}
	return out, nil
}

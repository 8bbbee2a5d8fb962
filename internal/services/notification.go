package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lusohomes/marketplace-backend/internal/apierr"
	"github.com/lusohomes/marketplace-backend/internal/logger"
	"github.com/lusohomes/marketplace-backend/internal/repos"
	"github.com/lusohomes/marketplace-backend/internal/types"
)

// SendNotificationInput describes one notification request. SenderID is nil
// for system-generated notifications.
type SendNotificationInput struct {
	SenderID      *uuid.UUID
	RecipientID   uuid.UUID
	Message       string
	Type          types.NotificationType
	Priority      types.NotificationPriority
	ReferenceID   *uuid.UUID
	ReferenceType string
}

// NotificationService persists and delivers notifications. Send is
// fire-and-forget from the workflow's perspective: callers log its error
// but never fail on it.
type NotificationService interface {
	Send(ctx context.Context, tx *gorm.DB, input SendNotificationInput) (*types.Notification, error)
	MarkAsRead(ctx context.Context, notificationID uuid.UUID) (*types.Notification, error)
	GetByRecipient(ctx context.Context, recipientID uuid.UUID) ([]*types.Notification, error)
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
}

func NewNotificationService(db *gorm.DB, log *logger.Logger, notificationRepo repos.NotificationRepo) NotificationService {
	return &notificationService{
		db:               db,
		log:              log.With("service", "NotificationService"),
		notificationRepo: notificationRepo,
	}
}

func (ns *notificationService) Send(ctx context.Context, tx *gorm.DB, input SendNotificationInput) (*types.Notification, error) {
	if input.RecipientID == uuid.Nil {
		return nil, fmt.Errorf("recipient id required")
	}
	if input.Message == "" {
		return nil, fmt.Errorf("message required")
	}

	now := time.Now().UTC()
	notification := &types.Notification{
		ID:             uuid.New(),
		SenderID:       input.SenderID,
		RecipientID:    input.RecipientID,
		Message:        input.Message,
		Status:         types.NotificationUnread,
		Type:           input.Type,
		Priority:       input.Priority,
		ReferenceID:    input.ReferenceID,
		ReferenceType:  input.ReferenceType,
		ExpirationDate: types.NotificationExpiration(input.Type, now),
	}

	if err := ns.notificationRepo.Create(ctx, tx, notification); err != nil {
		return nil, fmt.Errorf("error saving notification: %w", err)
	}
	return notification, nil
}

func (ns *notificationService) MarkAsRead(ctx context.Context, notificationID uuid.UUID) (*types.Notification, error) {
	var out *types.Notification
	if err := ns.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		notification, err := ns.notificationRepo.GetByID(ctx, tx, notificationID)
		if err != nil {
			return err
		}
		if notification == nil {
			return apierr.NotFound("NotFound", "Notificação não encontrada.")
		}
		notification.MarkAsRead()
		if err := ns.notificationRepo.Save(ctx, tx, notification); err != nil {
			return err
		}
		out = notification
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (ns *notificationService) GetByRecipient(ctx context.Context, recipientID uuid.UUID) ([]*types.Notification, error) {
	return ns.notificationRepo.GetByRecipient(ctx, nil, recipientID)
}

package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lusohomes/marketplace-backend/internal/logger"
	"github.com/lusohomes/marketplace-backend/internal/types"
)

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, notification *types.Notification) error
	GetByID(ctx context.Context, tx *gorm.DB, notificationID uuid.UUID) (*types.Notification, error)
	GetByRecipient(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) ([]*types.Notification, error)
	Save(ctx context.Context, tx *gorm.DB, notification *types.Notification) error
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (nr *notificationRepo) Create(ctx context.Context, tx *gorm.DB, notification *types.Notification) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	return transaction.WithContext(ctx).Create(notification).Error
}

func (nr *notificationRepo) GetByID(ctx context.Context, tx *gorm.DB, notificationID uuid.UUID) (*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var result types.Notification
	err := transaction.WithContext(ctx).Where("id = ?", notificationID).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (nr *notificationRepo) GetByRecipient(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) ([]*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*types.Notification
	if err := transaction.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *notificationRepo) Save(ctx context.Context, tx *gorm.DB, notification *types.Notification) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	return transaction.WithContext(ctx).Save(notification).Error
}

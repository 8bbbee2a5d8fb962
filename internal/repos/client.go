package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lusohomes/marketplace-backend/internal/logger"
	"github.com/lusohomes/marketplace-backend/internal/types"
)

type ClientRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*types.Client, error)
}

type clientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
	return &clientRepo{db: db, log: baseLog.With("repo", "ClientRepo")}
}

// GetByID loads the client with its user profile for notification
// personalization.
func (cr *clientRepo) GetByID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*types.Client, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Client
	err := transaction.WithContext(ctx).
		Preload("User").
		Where("id = ?", clientID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

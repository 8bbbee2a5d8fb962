package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lusohomes/marketplace-backend/internal/logger"
	"github.com/lusohomes/marketplace-backend/internal/types"
)

type PropertyRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) (*types.Property, error)
	GetByIDWithAgent(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) (*types.Property, error)
	Save(ctx context.Context, tx *gorm.DB, property *types.Property) error
}

type propertyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPropertyRepo(db *gorm.DB, baseLog *logger.Logger) PropertyRepo {
	return &propertyRepo{db: db, log: baseLog.With("repo", "PropertyRepo")}
}

func (pr *propertyRepo) GetByID(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) (*types.Property, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Property
	err := transaction.WithContext(ctx).Where("id = ?", propertyID).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *propertyRepo) GetByIDWithAgent(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) (*types.Property, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Property
	err := transaction.WithContext(ctx).
		Preload("Agent").
		Preload("Agent.User").
		Where("id = ?", propertyID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *propertyRepo) Save(ctx context.Context, tx *gorm.DB, property *types.Property) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Omit(clause.Associations).Save(property).Error
}

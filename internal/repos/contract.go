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

type ContractRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contract *types.Contract) error
	GetByID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error)
	GetByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*types.Contract, error)
	Save(ctx context.Context, tx *gorm.DB, contract *types.Contract) error
}

type contractRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
	return &contractRepo{db: db, log: baseLog.With("repo", "ContractRepo")}
}

func (cr *contractRepo) Create(ctx context.Context, tx *gorm.DB, contract *types.Contract) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).Omit(clause.Associations).Create(contract).Error
}

func (cr *contractRepo) GetByID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Contract
	err := transaction.WithContext(ctx).Where("id = ?", contractID).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *contractRepo) GetByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*types.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Contract
	if err := transaction.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *contractRepo) Save(ctx context.Context, tx *gorm.DB, contract *types.Contract) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).Omit(clause.Associations).Save(contract).Error
}

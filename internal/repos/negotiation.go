package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lusohomes/marketplace-backend/internal/logger"
	"github.com/lusohomes/marketplace-backend/internal/types"
)

type NegotiationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, negotiation *types.Negotiation) error
	GetByID(ctx context.Context, tx *gorm.DB, negotiationID uuid.UUID) (*types.Negotiation, error)
	GetByProposal(ctx context.Context, tx *gorm.DB, proposalID uuid.UUID) ([]*types.Negotiation, error)
	Save(ctx context.Context, tx *gorm.DB, negotiation *types.Negotiation) error
}

type negotiationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNegotiationRepo(db *gorm.DB, baseLog *logger.Logger) NegotiationRepo {
	return &negotiationRepo{db: db, log: baseLog.With("repo", "NegotiationRepo")}
}

func (nr *negotiationRepo) Create(ctx context.Context, tx *gorm.DB, negotiation *types.Negotiation) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	return transaction.WithContext(ctx).Create(negotiation).Error
}

func (nr *negotiationRepo) GetByID(ctx context.Context, tx *gorm.DB, negotiationID uuid.UUID) (*types.Negotiation, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var result types.Negotiation
	err := transaction.WithContext(ctx).Where("id = ?", negotiationID).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (nr *negotiationRepo) GetByProposal(ctx context.Context, tx *gorm.DB, proposalID uuid.UUID) ([]*types.Negotiation, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*types.Negotiation
	if err := transaction.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Order("sent_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *negotiationRepo) Save(ctx context.Context, tx *gorm.DB, negotiation *types.Negotiation) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	return transaction.WithContext(ctx).Save(negotiation).Error
}

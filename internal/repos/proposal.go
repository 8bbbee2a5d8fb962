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

type ProposalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, proposal *types.Proposal) error
	GetByID(ctx context.Context, tx *gorm.DB, proposalID uuid.UUID) (*types.Proposal, error)
	GetByProperty(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, statuses []types.ProposalStatus) ([]*types.Proposal, error)
	GetByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*types.Proposal, error)
	HasLiveProposal(ctx context.Context, tx *gorm.DB, clientID, propertyID uuid.UUID) (bool, error)
	Save(ctx context.Context, tx *gorm.DB, proposal *types.Proposal) error
}

type proposalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProposalRepo(db *gorm.DB, baseLog *logger.Logger) ProposalRepo {
	return &proposalRepo{db: db, log: baseLog.With("repo", "ProposalRepo")}
}

func (pr *proposalRepo) Create(ctx context.Context, tx *gorm.DB, proposal *types.Proposal) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Create(proposal).Error
}

// GetByID loads the proposal with its negotiation ledger.
func (pr *proposalRepo) GetByID(ctx context.Context, tx *gorm.DB, proposalID uuid.UUID) (*types.Proposal, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Proposal
	err := transaction.WithContext(ctx).
		Preload("Negotiations", func(db *gorm.DB) *gorm.DB {
			return db.Order("sent_at ASC")
		}).
		Where("id = ?", proposalID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *proposalRepo) GetByProperty(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, statuses []types.ProposalStatus) ([]*types.Proposal, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	query := transaction.WithContext(ctx).Where("property_id = ?", propertyID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var results []*types.Proposal
	if err := query.Order("created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *proposalRepo) GetByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*types.Proposal, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Proposal
	if err := transaction.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *proposalRepo) HasLiveProposal(ctx context.Context, tx *gorm.DB, clientID, propertyID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Proposal{}).
		Where("client_id = ? AND property_id = ? AND status IN ?", clientID, propertyID, types.LiveProposalStatuses).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (pr *proposalRepo) Save(ctx context.Context, tx *gorm.DB, proposal *types.Proposal) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Omit(clause.Associations).Save(proposal).Error
}

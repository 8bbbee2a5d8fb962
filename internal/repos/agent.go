package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lusohomes/marketplace-backend/internal/logger"
	"github.com/lusohomes/marketplace-backend/internal/types"
)

type AgentRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, agentID uuid.UUID) (*types.Agent, error)
}

type agentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAgentRepo(db *gorm.DB, baseLog *logger.Logger) AgentRepo {
	return &agentRepo{db: db, log: baseLog.With("repo", "AgentRepo")}
}

func (ar *agentRepo) GetByID(ctx context.Context, tx *gorm.DB, agentID uuid.UUID) (*types.Agent, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var result types.Agent
	err := transaction.WithContext(ctx).
		Preload("User").
		Where("id = ?", agentID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lusohomes/marketplace-backend/internal/apierr"
	"github.com/lusohomes/marketplace-backend/internal/logger"
	"github.com/lusohomes/marketplace-backend/internal/repos"
	"github.com/lusohomes/marketplace-backend/internal/types"
)

type CreateContractInput struct {
	PropertyID         uuid.UUID
	ClientID           uuid.UUID
	AgentID            uuid.UUID
	Type               types.ContractType
	Value              float64
	StartDate          time.Time
	EndDate            *time.Time
	MonthlyRent        *float64
	SecurityDeposit    *float64
	Commission         *float64
	PaymentFrequency   *types.PaymentFrequency
	PaymentDay         *int
	AutoRenewal        bool
	TermsAndConditions string
}

// ContractService creates and manages contracts. CreateTx validates its own
// inputs regardless of caller: it serves both the approval workflow and the
// manual creation endpoint.
type ContractService interface {
	Create(ctx context.Context, input CreateContractInput) (*types.Contract, error)
	CreateTx(ctx context.Context, tx *gorm.DB, input CreateContractInput) (*types.Contract, error)
	Activate(ctx context.Context, contractID uuid.UUID) (*types.Contract, error)
	GetByID(ctx context.Context, contractID uuid.UUID) (*types.Contract, error)
	GetByClient(ctx context.Context, clientID uuid.UUID) ([]*types.Contract, error)
}

type contractService struct {
	db           *gorm.DB
	log          *logger.Logger
	contractRepo repos.ContractRepo
	propertyRepo repos.PropertyRepo
	clientRepo   repos.ClientRepo
	agentRepo    repos.AgentRepo
}

func NewContractService(db *gorm.DB, log *logger.Logger, contractRepo repos.ContractRepo, propertyRepo repos.PropertyRepo, clientRepo repos.ClientRepo, agentRepo repos.AgentRepo) ContractService {
	return &contractService{
		db:           db,
		log:          log.With("service", "ContractService"),
		contractRepo: contractRepo,
		propertyRepo: propertyRepo,
		clientRepo:   clientRepo,
		agentRepo:    agentRepo,
	}
}

func (cs *contractService) Create(ctx context.Context, input CreateContractInput) (*types.Contract, error) {
	var out *types.Contract
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contract, err := cs.CreateTx(ctx, tx, input)
		if err != nil {
			return err
		}
		out = contract
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *contractService) CreateTx(ctx context.Context, tx *gorm.DB, input CreateContractInput) (*types.Contract, error) {
	property, err := cs.propertyRepo.GetByID(ctx, tx, input.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		cs.log.Warn("Property not found", "property_id", input.PropertyID)
		return nil, apierr.ErrPropertyNotFound
	}
	// Reserved and UnderContract are allowed: that is exactly the state a
	// property is in when a contract is being created from an approved
	// proposal.
	if property.IsDisposed() {
		cs.log.Warn("Property no longer available", "property_id", input.PropertyID, "status", property.Status)
		return nil, apierr.ErrPropertyUnavailable
	}

	client, err := cs.clientRepo.GetByID(ctx, tx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		cs.log.Warn("Client not found", "client_id", input.ClientID)
		return nil, apierr.ErrClientNotFound
	}

	agent, err := cs.agentRepo.GetByID(ctx, tx, input.AgentID)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		cs.log.Warn("Agent not found", "agent_id", input.AgentID)
		return nil, apierr.ErrAgentNotFound
	}

	if input.Value <= 0 {
		return nil, apierr.Validation("O valor do contrato deve ser maior que zero.")
	}
	if input.EndDate != nil && !input.EndDate.After(input.StartDate) {
		return nil, apierr.ErrInvalidContractDates
	}

	contract := &types.Contract{
		ID:                 uuid.New(),
		PropertyID:         input.PropertyID,
		ClientID:           input.ClientID,
		AgentID:            input.AgentID,
		Type:               input.Type,
		Status:             types.ContractDraft,
		Value:              input.Value,
		StartDate:          input.StartDate,
		EndDate:            input.EndDate,
		SignatureDate:      time.Now().UTC(),
		MonthlyRent:        input.MonthlyRent,
		SecurityDeposit:    input.SecurityDeposit,
		Commission:         input.Commission,
		PaymentFrequency:   input.PaymentFrequency,
		PaymentDay:         input.PaymentDay,
		AutoRenewal:        input.AutoRenewal,
		TermsAndConditions: input.TermsAndConditions,
	}

	if err := cs.contractRepo.Create(ctx, tx, contract); err != nil {
		return nil, err
	}

	cs.log.Info("Contract created", "contract_id", contract.ID, "property_id", input.PropertyID, "client_id", input.ClientID)
	return contract, nil
}

func (cs *contractService) Activate(ctx context.Context, contractID uuid.UUID) (*types.Contract, error) {
	var out *types.Contract
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contract, err := cs.contractRepo.GetByID(ctx, tx, contractID)
		if err != nil {
			return err
		}
		if contract == nil {
			return apierr.ErrContractNotFound
		}
		if contract.Status != types.ContractDraft && contract.Status != types.ContractPendingSignature {
			return apierr.Business("ContractNotActivatable", "Só é possível ativar contratos em rascunho ou pendentes de assinatura.")
		}
		contract.Activate()
		if err := cs.contractRepo.Save(ctx, tx, contract); err != nil {
			return err
		}
		out = contract
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *contractService) GetByID(ctx context.Context, contractID uuid.UUID) (*types.Contract, error) {
	contract, err := cs.contractRepo.GetByID(ctx, nil, contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, apierr.ErrContractNotFound
	}
	return contract, nil
}

func (cs *contractService) GetByClient(ctx context.Context, clientID uuid.UUID) ([]*types.Contract, error) {
	return cs.contractRepo.GetByClient(ctx, nil, clientID)
}

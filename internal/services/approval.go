package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lusohomes/marketplace-backend/internal/apierr"
	"github.com/lusohomes/marketplace-backend/internal/logger"
	"github.com/lusohomes/marketplace-backend/internal/repos"
	"github.com/lusohomes/marketplace-backend/internal/types"
)

// CompetingProposalRejectionReason is stamped on every live competitor when
// a proposal on the same property is approved.
const CompetingProposalRejectionReason = "Outra proposta foi aprovada para este imóvel."

// ApprovalResult is the tagged outcome of one approval: the primary outcome
// (approval, property mutation, cascade) plus the secondary contract and
// notification outcomes, which can fail without failing the approval.
type ApprovalResult struct {
	ProposalID          uuid.UUID            `json:"proposal_id"`
	ProposalStatus      types.ProposalStatus `json:"proposal_status"`
	PropertyID          uuid.UUID            `json:"property_id"`
	PropertyStatus      types.PropertyStatus `json:"property_status"`
	RejectedProposalIDs []uuid.UUID          `json:"rejected_proposal_ids"`
	ContractID          *uuid.UUID           `json:"contract_id,omitempty"`
	ContractError       string               `json:"contract_error,omitempty"`
	NotifiedClient      bool                 `json:"notified_client"`
	NotifiedAgent       bool                 `json:"notified_agent"`
}

// ApprovalService runs the approval workflow: guard checks, proposal and
// property mutation, competitor cascade, automatic draft contract and
// notifications.
type ApprovalService interface {
	Approve(ctx context.Context, proposalID uuid.UUID) (*ApprovalResult, error)
}

type approvalService struct {
	db                  *gorm.DB
	log                 *logger.Logger
	proposalRepo        repos.ProposalRepo
	propertyRepo        repos.PropertyRepo
	clientRepo          repos.ClientRepo
	agentRepo           repos.AgentRepo
	userRepo            repos.UserRepo
	contractService     ContractService
	notificationService NotificationService
}

func NewApprovalService(db *gorm.DB, log *logger.Logger, proposalRepo repos.ProposalRepo, propertyRepo repos.PropertyRepo, clientRepo repos.ClientRepo, agentRepo repos.AgentRepo, userRepo repos.UserRepo, contractService ContractService, notificationService NotificationService) ApprovalService {
	return &approvalService{
		db:                  db,
		log:                 log.With("service", "ApprovalService"),
		proposalRepo:        proposalRepo,
		propertyRepo:        propertyRepo,
		clientRepo:          clientRepo,
		agentRepo:           agentRepo,
		userRepo:            userRepo,
		contractService:     contractService,
		notificationService: notificationService,
	}
}

// guardApprovable pre-checks the status explicitly instead of relying on
// the state machine, so callers get the specific error kind for the state
// the proposal is actually in.
func guardApprovable(status types.ProposalStatus) *apierr.Error {
	switch status {
	case types.ProposalApproved:
		return apierr.ErrProposalAlreadyApproved
	case types.ProposalRejected:
		return apierr.ErrProposalAlreadyRejected
	case types.ProposalCancelled:
		return apierr.ErrProposalCancelled
	case types.ProposalCompleted:
		return apierr.ErrProposalCompleted
	default:
		return nil
	}
}

// Approve executes the whole workflow inside a single transaction: every
// proposal/property/competitor/contract write commits atomically or not at
// all. The property is read inside the same transaction that writes it, so
// two concurrent approvals on the same property cannot both pass the
// availability check and commit. Notifications are sent after the commit
// and never roll it back.
func (as *approvalService) Approve(ctx context.Context, proposalID uuid.UUID) (*ApprovalResult, error) {
	var (
		proposal    *types.Proposal
		property    *types.Property
		client      *types.Client
		agent       *types.Agent
		contract    *types.Contract
		contractErr error
		rejectedIDs []uuid.UUID
	)

	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		proposal, err = as.proposalRepo.GetByID(ctx, tx, proposalID)
		if err != nil {
			return err
		}
		if proposal == nil {
			return apierr.ErrProposalNotFound
		}

		if guardErr := guardApprovable(proposal.Status); guardErr != nil {
			return guardErr
		}

		property, err = as.propertyRepo.GetByID(ctx, tx, proposal.PropertyID)
		if err != nil {
			return err
		}
		if property == nil {
			as.log.Warn("Property not found", "property_id", proposal.PropertyID)
			return apierr.ErrPropertyNotFound
		}
		if property.IsDisposed() {
			as.log.Warn("Property no longer available", "property_id", property.ID, "status", property.Status)
			return apierr.ErrPropertyUnavailable
		}

		client, err = as.clientRepo.GetByID(ctx, tx, proposal.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			as.log.Warn("Client not found", "client_id", proposal.ClientID)
			return apierr.ErrClientNotFound
		}

		proposal.Approve()

		// A purchase reserves the property; a rental commits it to a
		// contract. Both block other proposals but carry different
		// downstream cancellation semantics.
		if proposal.Type == types.ProposalPurchase {
			property.UpdateStatus(types.PropertyReserved)
		} else {
			property.UpdateStatus(types.PropertyUnderContract)
		}

		// Cascade: a property has exactly one live path to disposition.
		competitors, err := as.proposalRepo.GetByProperty(ctx, tx, proposal.PropertyID, types.LiveProposalStatuses)
		if err != nil {
			return err
		}
		for _, competitor := range competitors {
			if competitor.ID == proposal.ID {
				continue
			}
			competitor.Reject(CompetingProposalRejectionReason)
			if err := as.proposalRepo.Save(ctx, tx, competitor); err != nil {
				return err
			}
			rejectedIDs = append(rejectedIDs, competitor.ID)
			as.log.Info("Competing proposal auto-rejected", "proposal_id", competitor.ID, "approved_proposal_id", proposal.ID)
		}

		agent, err = as.agentRepo.GetByID(ctx, tx, property.AgentID)
		if err != nil {
			return err
		}
		if agent == nil {
			as.log.Warn("Agent not found", "agent_id", property.AgentID)
			return apierr.ErrAgentNotFound
		}
		// A missing user link only degrades agent notification delivery,
		// it must not abort contract creation.
		if agent.User == nil && agent.UserID != uuid.Nil {
			agentUser, userErr := as.userRepo.GetByID(ctx, tx, agent.UserID)
			if userErr != nil || agentUser == nil {
				as.log.Warn("Agent user not found", "agent_id", agent.ID, "user_id", agent.UserID, "error", userErr)
			} else {
				agent.User = agentUser
			}
		}

		terms := DeriveContractTerms(proposal, nowUTC())
		contract, contractErr = as.contractService.CreateTx(ctx, tx, CreateContractInput{
			PropertyID:         proposal.PropertyID,
			ClientID:           proposal.ClientID,
			AgentID:            property.AgentID,
			Type:               terms.Type,
			Value:              terms.Value,
			StartDate:          terms.StartDate,
			EndDate:            terms.EndDate,
			MonthlyRent:        terms.MonthlyRent,
			SecurityDeposit:    terms.SecurityDeposit,
			Commission:         &terms.Commission,
			PaymentFrequency:   terms.PaymentFrequency,
			PaymentDay:         terms.PaymentDay,
			AutoRenewal:        terms.AutoRenewal,
			TermsAndConditions: terms.TermsAndConditions,
		})
		if contractErr == nil {
			proposal.Status = types.ProposalCompleted
			as.log.Info("Contract auto-created after approval", "contract_id", contract.ID, "proposal_id", proposal.ID)
		} else {
			// The approval stands: the contract can be created manually
			// later.
			contract = nil
			as.log.Warn("Contract auto-creation failed after approval", "proposal_id", proposal.ID, "error", contractErr)
		}

		if err := as.proposalRepo.Save(ctx, tx, proposal); err != nil {
			return err
		}
		return as.propertyRepo.Save(ctx, tx, property)
	}); err != nil {
		return nil, err
	}

	result := &ApprovalResult{
		ProposalID:          proposal.ID,
		ProposalStatus:      proposal.Status,
		PropertyID:          property.ID,
		PropertyStatus:      property.Status,
		RejectedProposalIDs: rejectedIDs,
	}
	if contract != nil {
		result.ContractID = &contract.ID
	}
	if contractErr != nil {
		result.ContractError = contractErr.Error()
	}

	as.sendApprovalNotifications(ctx, result, proposal, property, client, agent, contract)
	return result, nil
}

func (as *approvalService) sendApprovalNotifications(ctx context.Context, result *ApprovalResult, proposal *types.Proposal, property *types.Property, client *types.Client, agent *types.Agent, contract *types.Contract) {
	var clientMessage string
	if contract != nil {
		clientMessage = fmt.Sprintf(
			"🎉 Ótimas notícias! Sua proposta de €%.2f para o imóvel '%s' foi APROVADA! Um contrato foi criado automaticamente e está aguardando revisão. Entraremos em contato em breve para finalizar os detalhes.",
			proposal.ProposedValue, property.Title,
		)
	} else {
		clientMessage = fmt.Sprintf(
			"🎉 Ótimas notícias! Sua proposta de €%.2f para o imóvel '%s' foi APROVADA! Entraremos em contato em breve para os próximos passos e criação do contrato.",
			proposal.ProposedValue, property.Title,
		)
	}

	if _, err := as.notificationService.Send(ctx, nil, SendNotificationInput{
		RecipientID:   client.UserID,
		Message:       clientMessage,
		Type:          types.NotificationProposal,
		Priority:      types.NotificationHigh,
		ReferenceID:   &proposal.ID,
		ReferenceType: "ProposalApproved",
	}); err != nil {
		as.log.Warn("Failed to notify client about approval", "proposal_id", proposal.ID, "error", err)
	} else {
		result.NotifiedClient = true
	}

	if contract == nil {
		return
	}
	if agent == nil || agent.User == nil || agent.UserID == uuid.Nil {
		as.log.Warn("Agent user missing or unlinked, skipping contract notification", "proposal_id", proposal.ID)
		return
	}

	clientName := "Cliente"
	if client.User != nil {
		clientName = client.User.FullName()
	}
	agentMessage := fmt.Sprintf(
		"📄 Novo contrato criado! Um contrato foi gerado automaticamente após a aprovação da proposta %s do cliente %s para o imóvel '%s'. O contrato está em rascunho e aguarda sua revisão.",
		proposal.ProposalNumber, clientName, property.Title,
	)
	if _, err := as.notificationService.Send(ctx, nil, SendNotificationInput{
		RecipientID:   agent.UserID,
		Message:       agentMessage,
		Type:          types.NotificationContract,
		Priority:      types.NotificationMedium,
		ReferenceID:   &contract.ID,
		ReferenceType: "ContractCreated",
	}); err != nil {
		as.log.Warn("Failed to notify agent about contract", "agent_id", agent.ID, "contract_id", contract.ID, "error", err)
	} else {
		result.NotifiedAgent = true
	}
}

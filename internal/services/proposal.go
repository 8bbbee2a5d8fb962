package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lusohomes/marketplace-backend/internal/apierr"
	"github.com/lusohomes/marketplace-backend/internal/logger"
	"github.com/lusohomes/marketplace-backend/internal/repos"
	"github.com/lusohomes/marketplace-backend/internal/types"
)

const maxProposalValue = 100_000_000

type CreateProposalInput struct {
	PropertyID       uuid.UUID
	ClientID         uuid.UUID
	ProposedValue    float64
	Type             types.ProposalType
	PaymentMethod    string
	IntendedMoveDate *time.Time
	AdditionalNotes  string
}

// ProposalService owns the proposal lifecycle short of approval: submission,
// analysis, rejection, cancellation and the negotiation ledger. Approval
// lives in ApprovalService because of its cross-entity side effects.
type ProposalService interface {
	Create(ctx context.Context, input CreateProposalInput) (*types.Proposal, error)
	GetByID(ctx context.Context, proposalID uuid.UUID) (*types.Proposal, error)
	GetByProperty(ctx context.Context, propertyID uuid.UUID, statuses []types.ProposalStatus) ([]*types.Proposal, error)
	GetByClient(ctx context.Context, clientID uuid.UUID) ([]*types.Proposal, error)
	StartAnalysis(ctx context.Context, proposalID uuid.UUID) (*types.Proposal, error)
	Reject(ctx context.Context, proposalID uuid.UUID, reason string) (*types.Proposal, error)
	Cancel(ctx context.Context, proposalID uuid.UUID) (*types.Proposal, error)
	AddNegotiation(ctx context.Context, proposalID, senderID uuid.UUID, message string, counterOffer *float64) (*types.Negotiation, error)
	UpdateNegotiationStatus(ctx context.Context, negotiationID uuid.UUID, status types.NegotiationStatus) (*types.Negotiation, error)
}

type proposalService struct {
	db                  *gorm.DB
	log                 *logger.Logger
	proposalRepo        repos.ProposalRepo
	negotiationRepo     repos.NegotiationRepo
	propertyRepo        repos.PropertyRepo
	clientRepo          repos.ClientRepo
	notificationService NotificationService
}

func NewProposalService(db *gorm.DB, log *logger.Logger, proposalRepo repos.ProposalRepo, negotiationRepo repos.NegotiationRepo, propertyRepo repos.PropertyRepo, clientRepo repos.ClientRepo, notificationService NotificationService) ProposalService {
	return &proposalService{
		db:                  db,
		log:                 log.With("service", "ProposalService"),
		proposalRepo:        proposalRepo,
		negotiationRepo:     negotiationRepo,
		propertyRepo:        propertyRepo,
		clientRepo:          clientRepo,
		notificationService: notificationService,
	}
}

func validateCreateProposal(input CreateProposalInput) *apierr.Error {
	if input.PropertyID == uuid.Nil {
		return apierr.Validation("O ID do imóvel é obrigatório.")
	}
	if input.ClientID == uuid.Nil {
		return apierr.Validation("O ID do cliente é obrigatório.")
	}
	if input.ProposedValue <= 0 {
		return apierr.Validation("O valor proposto deve ser maior que zero.")
	}
	if input.ProposedValue >= maxProposalValue {
		return apierr.Validation("O valor proposto não pode exceder 100 milhões.")
	}
	if input.Type != types.ProposalPurchase && input.Type != types.ProposalRent {
		return apierr.Validation("Tipo de proposta inválido.")
	}
	// Bounds count characters, not bytes: accented Portuguese text must not
	// shift the limits.
	if utf8.RuneCountInString(input.PaymentMethod) > 100 {
		return apierr.Validation("O método de pagamento não pode exceder 100 caracteres.")
	}
	if utf8.RuneCountInString(input.AdditionalNotes) > 2000 {
		return apierr.Validation("As notas adicionais não podem exceder 2000 caracteres.")
	}
	if input.IntendedMoveDate != nil {
		now := time.Now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if input.IntendedMoveDate.Before(today) {
			return apierr.Validation("A data de mudança deve ser futura.")
		}
	}
	return nil
}

func (ps *proposalService) Create(ctx context.Context, input CreateProposalInput) (*types.Proposal, error) {
	if verr := validateCreateProposal(input); verr != nil {
		return nil, verr
	}

	var (
		proposal *types.Proposal
		property *types.Property
		client   *types.Client
	)
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		property, err = ps.propertyRepo.GetByIDWithAgent(ctx, tx, input.PropertyID)
		if err != nil {
			return err
		}
		if property == nil {
			return apierr.ErrPropertyNotFound
		}

		client, err = ps.clientRepo.GetByID(ctx, tx, input.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return apierr.ErrClientNotFound
		}

		hasLive, err := ps.proposalRepo.HasLiveProposal(ctx, tx, input.ClientID, input.PropertyID)
		if err != nil {
			return err
		}
		if hasLive {
			return apierr.ErrProposalAlreadyExists
		}

		proposal = types.NewProposal(input.PropertyID, input.ClientID, input.ProposedValue, input.Type, input.PaymentMethod, input.IntendedMoveDate)
		proposal.AdditionalNotes = input.AdditionalNotes
		return ps.proposalRepo.Create(ctx, tx, proposal)
	}); err != nil {
		return nil, err
	}

	ps.log.Info("Proposal created", "proposal_id", proposal.ID, "proposal_number", proposal.ProposalNumber, "property_id", property.ID)

	clientMessage := fmt.Sprintf(
		"✅ Sua proposta de €%.2f para o imóvel '%s' foi enviada com sucesso! O agente responsável analisará sua proposta e entrará em contato em breve.",
		input.ProposedValue, property.Title,
	)
	ps.notifyClient(ctx, client, clientMessage, types.NotificationMedium, proposal.ID, "ProposalCreated")

	if property.Agent != nil && property.Agent.UserID != uuid.Nil {
		clientName := "Cliente"
		if client.User != nil {
			clientName = client.User.FullName()
		}
		proposalKind := "Compra"
		if input.Type == types.ProposalRent {
			proposalKind = "Arrendamento"
		}
		agentMessage := fmt.Sprintf(
			"📋 Nova proposta recebida! Cliente %s enviou uma proposta de €%.2f para o imóvel '%s'. Tipo: %s.",
			clientName, input.ProposedValue, property.Title, proposalKind,
		)
		if _, err := ps.notificationService.Send(ctx, nil, SendNotificationInput{
			RecipientID:   property.Agent.UserID,
			Message:       agentMessage,
			Type:          types.NotificationProposal,
			Priority:      types.NotificationHigh,
			ReferenceID:   &proposal.ID,
			ReferenceType: "ProposalCreated",
		}); err != nil {
			ps.log.Warn("Failed to notify agent about new proposal", "proposal_id", proposal.ID, "error", err)
		}
	}

	return proposal, nil
}

func (ps *proposalService) GetByID(ctx context.Context, proposalID uuid.UUID) (*types.Proposal, error) {
	proposal, err := ps.proposalRepo.GetByID(ctx, nil, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, apierr.ErrProposalNotFound
	}
	return proposal, nil
}

func (ps *proposalService) GetByProperty(ctx context.Context, propertyID uuid.UUID, statuses []types.ProposalStatus) ([]*types.Proposal, error) {
	return ps.proposalRepo.GetByProperty(ctx, nil, propertyID, statuses)
}

func (ps *proposalService) GetByClient(ctx context.Context, clientID uuid.UUID) ([]*types.Proposal, error) {
	return ps.proposalRepo.GetByClient(ctx, nil, clientID)
}

func (ps *proposalService) StartAnalysis(ctx context.Context, proposalID uuid.UUID) (*types.Proposal, error) {
	var (
		proposal *types.Proposal
		property *types.Property
		client   *types.Client
	)
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		proposal, err = ps.proposalRepo.GetByID(ctx, tx, proposalID)
		if err != nil {
			return err
		}
		if proposal == nil {
			return apierr.ErrProposalNotFound
		}

		switch proposal.Status {
		case types.ProposalUnderAnalysis:
			return apierr.ErrProposalAlreadyUnderAnalysis
		case types.ProposalApproved:
			return apierr.ErrProposalAlreadyApproved
		case types.ProposalRejected:
			return apierr.ErrProposalAlreadyRejected
		case types.ProposalCancelled:
			return apierr.ErrProposalCancelled
		case types.ProposalCompleted:
			return apierr.ErrProposalCompleted
		}

		property, err = ps.propertyRepo.GetByID(ctx, tx, proposal.PropertyID)
		if err != nil {
			return err
		}
		client, err = ps.clientRepo.GetByID(ctx, tx, proposal.ClientID)
		if err != nil {
			return err
		}

		proposal.StartAnalysis()
		return ps.proposalRepo.Save(ctx, tx, proposal)
	}); err != nil {
		return nil, err
	}

	if property != nil && client != nil {
		message := fmt.Sprintf(
			"📋 Sua proposta de €%.2f para o imóvel '%s' está agora em análise. Entraremos em contato em breve.",
			proposal.ProposedValue, property.Title,
		)
		ps.notifyClient(ctx, client, message, types.NotificationMedium, proposal.ID, "ProposalUnderAnalysis")
	}

	return proposal, nil
}

func (ps *proposalService) Reject(ctx context.Context, proposalID uuid.UUID, reason string) (*types.Proposal, error) {
	var (
		proposal *types.Proposal
		property *types.Property
		client   *types.Client
	)
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		proposal, err = ps.proposalRepo.GetByID(ctx, tx, proposalID)
		if err != nil {
			return err
		}
		if proposal == nil {
			return apierr.ErrProposalNotFound
		}

		switch proposal.Status {
		case types.ProposalRejected:
			return apierr.ErrProposalAlreadyRejected
		case types.ProposalApproved:
			return apierr.ErrProposalAlreadyApproved
		case types.ProposalCancelled:
			return apierr.ErrProposalCancelled
		case types.ProposalCompleted:
			return apierr.ErrProposalCompleted
		}

		property, err = ps.propertyRepo.GetByID(ctx, tx, proposal.PropertyID)
		if err != nil {
			return err
		}
		client, err = ps.clientRepo.GetByID(ctx, tx, proposal.ClientID)
		if err != nil {
			return err
		}

		proposal.Reject(reason)
		return ps.proposalRepo.Save(ctx, tx, proposal)
	}); err != nil {
		return nil, err
	}

	if property != nil && client != nil {
		message := fmt.Sprintf("❌ Sua proposta de €%.2f para o imóvel '%s' foi recusada. ", proposal.ProposedValue, property.Title)
		if reason != "" {
			message += fmt.Sprintf("Motivo: %s. ", reason)
		}
		message += "Sinta-se à vontade para fazer uma nova proposta ou explorar outros imóveis."
		ps.notifyClient(ctx, client, message, types.NotificationMedium, proposal.ID, "ProposalRejected")
	}

	return proposal, nil
}

func (ps *proposalService) Cancel(ctx context.Context, proposalID uuid.UUID) (*types.Proposal, error) {
	var proposal *types.Proposal
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		proposal, err = ps.proposalRepo.GetByID(ctx, tx, proposalID)
		if err != nil {
			return err
		}
		if proposal == nil {
			return apierr.ErrProposalNotFound
		}

		switch proposal.Status {
		case types.ProposalCancelled:
			return apierr.ErrProposalAlreadyCancelled
		case types.ProposalApproved:
			return apierr.ErrProposalAlreadyApproved
		case types.ProposalCompleted:
			return apierr.ErrProposalCompleted
		}

		proposal.Cancel()
		return ps.proposalRepo.Save(ctx, tx, proposal)
	}); err != nil {
		return nil, err
	}

	// Agent notification is best-effort: a missing property or unlinked
	// agent degrades delivery, never the cancellation itself.
	property, err := ps.propertyRepo.GetByIDWithAgent(ctx, nil, proposal.PropertyID)
	if err != nil || property == nil {
		ps.log.Warn("Property not found for cancelled proposal, skipping agent notification", "proposal_id", proposal.ID, "error", err)
		return proposal, nil
	}
	if property.Agent == nil || property.Agent.UserID == uuid.Nil {
		ps.log.Warn("Agent missing or unlinked, skipping cancellation notification", "property_id", property.ID)
		return proposal, nil
	}
	message := fmt.Sprintf("ℹ️ A proposta de €%.2f para o imóvel '%s' foi cancelada pelo cliente.", proposal.ProposedValue, property.Title)
	if _, err := ps.notificationService.Send(ctx, nil, SendNotificationInput{
		RecipientID:   property.Agent.UserID,
		Message:       message,
		Type:          types.NotificationProposal,
		Priority:      types.NotificationLow,
		ReferenceID:   &proposal.ID,
		ReferenceType: "ProposalCancelled",
	}); err != nil {
		ps.log.Warn("Failed to notify agent about cancelled proposal", "proposal_id", proposal.ID, "error", err)
	}

	return proposal, nil
}

func (ps *proposalService) AddNegotiation(ctx context.Context, proposalID, senderID uuid.UUID, message string, counterOffer *float64) (*types.Negotiation, error) {
	if senderID == uuid.Nil {
		return nil, apierr.Validation("O ID do remetente é obrigatório.")
	}
	if utf8.RuneCountInString(message) < 5 {
		return nil, apierr.Validation("A mensagem deve ter pelo menos 5 caracteres.")
	}
	if utf8.RuneCountInString(message) > 2000 {
		return nil, apierr.Validation("A mensagem não pode exceder 2000 caracteres.")
	}
	if counterOffer != nil {
		if *counterOffer <= 0 {
			return nil, apierr.Validation("A contraoferta deve ser maior que zero.")
		}
		if *counterOffer >= maxProposalValue {
			return nil, apierr.Validation("A contraoferta não pode exceder 100 milhões.")
		}
	}

	var negotiation *types.Negotiation
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		proposal, err := ps.proposalRepo.GetByID(ctx, tx, proposalID)
		if err != nil {
			return err
		}
		if proposal == nil {
			return apierr.ErrProposalNotFound
		}

		switch proposal.Status {
		case types.ProposalApproved:
			return apierr.ErrProposalAlreadyApproved
		case types.ProposalRejected:
			return apierr.ErrProposalAlreadyRejected
		case types.ProposalCancelled:
			return apierr.ErrProposalCancelled
		case types.ProposalCompleted:
			return apierr.ErrProposalCompleted
		}

		negotiation = proposal.AddNegotiation(senderID, message, counterOffer)
		if err := ps.negotiationRepo.Create(ctx, tx, negotiation); err != nil {
			return err
		}
		return ps.proposalRepo.Save(ctx, tx, proposal)
	}); err != nil {
		return nil, err
	}

	return negotiation, nil
}

func (ps *proposalService) UpdateNegotiationStatus(ctx context.Context, negotiationID uuid.UUID, status types.NegotiationStatus) (*types.Negotiation, error) {
	var negotiation *types.Negotiation
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		negotiation, err = ps.negotiationRepo.GetByID(ctx, tx, negotiationID)
		if err != nil {
			return err
		}
		if negotiation == nil {
			return apierr.ErrNegotiationNotFound
		}

		switch status {
		case types.NegotiationViewed:
			negotiation.MarkAsViewed()
		case types.NegotiationAccepted:
			negotiation.Accept()
		case types.NegotiationRejected:
			negotiation.Reject()
		case types.NegotiationSent:
			return apierr.ErrInvalidNegotiationStatus
		default:
			return apierr.Business("INVALID_STATUS", "Estado inválido.")
		}

		return ps.negotiationRepo.Save(ctx, tx, negotiation)
	}); err != nil {
		return nil, err
	}
	return negotiation, nil
}

func (ps *proposalService) notifyClient(ctx context.Context, client *types.Client, message string, priority types.NotificationPriority, referenceID uuid.UUID, referenceType string) {
	if _, err := ps.notificationService.Send(ctx, nil, SendNotificationInput{
		RecipientID:   client.UserID,
		Message:       message,
		Type:          types.NotificationProposal,
		Priority:      priority,
		ReferenceID:   &referenceID,
		ReferenceType: referenceType,
	}); err != nil {
		ps.log.Warn("Failed to notify client", "client_id", client.ID, "reference_type", referenceType, "error", err)
	}
}

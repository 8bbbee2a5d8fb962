package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lusohomes/marketplace-backend/internal/apierr"
	"github.com/lusohomes/marketplace-backend/internal/types"
)

func TestApprovePurchaseProposal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	agentUser := seedUser(t, env.db, "Rui", "Agente")
	agent := seedAgent(t, env.db, agentUser)
	property := seedProperty(t, env.db, agent, "T2 no Porto", 210000, types.PropertyAvailable)

	clientUser1 := seedUser(t, env.db, "Ana", "Silva")
	client1 := seedClient(t, env.db, clientUser1)
	clientUser2 := seedUser(t, env.db, "Bruno", "Costa")
	client2 := seedClient(t, env.db, clientUser2)

	winner := seedProposal(t, env.db, property, client1, 200000, types.ProposalPurchase, types.ProposalPending)
	competitor := seedProposal(t, env.db, property, client2, 195000, types.ProposalPurchase, types.ProposalUnderAnalysis)

	result, err := env.approvalService.Approve(ctx, winner.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if result.ProposalStatus != types.ProposalCompleted {
		t.Errorf("proposal status = %s, want %s", result.ProposalStatus, types.ProposalCompleted)
	}
	if result.PropertyStatus != types.PropertyReserved {
		t.Errorf("property status = %s, want %s", result.PropertyStatus, types.PropertyReserved)
	}
	if len(result.RejectedProposalIDs) != 1 || result.RejectedProposalIDs[0] != competitor.ID {
		t.Errorf("rejected ids = %v, want [%s]", result.RejectedProposalIDs, competitor.ID)
	}
	if result.ContractID == nil {
		t.Fatal("expected a contract to be created")
	}
	if result.ContractError != "" {
		t.Errorf("unexpected contract error: %s", result.ContractError)
	}
	if !result.NotifiedClient {
		t.Error("expected client to be notified")
	}
	if !result.NotifiedAgent {
		t.Error("expected agent to be notified")
	}

	reloaded, err := env.proposalRepo.GetByID(ctx, nil, winner.ID)
	if err != nil {
		t.Fatalf("reload winner: %v", err)
	}
	if reloaded.Status != types.ProposalCompleted {
		t.Errorf("persisted winner status = %s, want %s", reloaded.Status, types.ProposalCompleted)
	}
	if reloaded.ResponseDate == nil {
		t.Error("winner response date not stamped")
	}

	loser, err := env.proposalRepo.GetByID(ctx, nil, competitor.ID)
	if err != nil {
		t.Fatalf("reload competitor: %v", err)
	}
	if loser.Status != types.ProposalRejected {
		t.Errorf("competitor status = %s, want %s", loser.Status, types.ProposalRejected)
	}
	if loser.RejectionReason != CompetingProposalRejectionReason {
		t.Errorf("competitor rejection reason = %q, want %q", loser.RejectionReason, CompetingProposalRejectionReason)
	}

	reloadedProperty, err := env.propertyRepo.GetByID(ctx, nil, property.ID)
	if err != nil {
		t.Fatalf("reload property: %v", err)
	}
	if reloadedProperty.Status != types.PropertyReserved {
		t.Errorf("persisted property status = %s, want %s", reloadedProperty.Status, types.PropertyReserved)
	}

	contract, err := env.contractRepo.GetByID(ctx, nil, *result.ContractID)
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	if contract == nil {
		t.Fatal("contract row not found")
	}
	if contract.Type != types.ContractSale {
		t.Errorf("contract type = %s, want %s", contract.Type, types.ContractSale)
	}
	if contract.Status != types.ContractDraft {
		t.Errorf("contract status = %s, want %s", contract.Status, types.ContractDraft)
	}
	if contract.Value != 200000 {
		t.Errorf("contract value = %v, want 200000", contract.Value)
	}
	if contract.Commission == nil || *contract.Commission != 10000 {
		t.Errorf("contract commission = %v, want 10000", contract.Commission)
	}
	if contract.EndDate != nil {
		t.Errorf("sale contract should have no end date, got %v", contract.EndDate)
	}
	if contract.MonthlyRent != nil {
		t.Errorf("sale contract should have no monthly rent, got %v", contract.MonthlyRent)
	}

	if got := countNotifications(t, env.db, clientUser1.ID); got != 1 {
		t.Errorf("client notifications = %d, want 1", got)
	}
	if got := countNotifications(t, env.db, agentUser.ID); got != 1 {
		t.Errorf("agent notifications = %d, want 1", got)
	}
}

func TestApproveRentProposal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	agentUser := seedUser(t, env.db, "Rui", "Agente")
	agent := seedAgent(t, env.db, agentUser)
	property := seedProperty(t, env.db, agent, "T1 em Lisboa", 1100, types.PropertyAvailable)
	clientUser := seedUser(t, env.db, "Ana", "Silva")
	client := seedClient(t, env.db, clientUser)

	moveDate := time.Now().UTC().AddDate(0, 0, 10)
	proposal := types.NewProposal(property.ID, client.ID, 1000, types.ProposalRent, "Transferência", &moveDate)
	if err := env.db.Create(proposal).Error; err != nil {
		t.Fatalf("seed proposal: %v", err)
	}

	result, err := env.approvalService.Approve(ctx, proposal.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if result.PropertyStatus != types.PropertyUnderContract {
		t.Errorf("property status = %s, want %s", result.PropertyStatus, types.PropertyUnderContract)
	}
	if result.ContractID == nil {
		t.Fatal("expected a contract to be created")
	}

	contract, err := env.contractRepo.GetByID(ctx, nil, *result.ContractID)
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	if contract.Type != types.ContractRent {
		t.Errorf("contract type = %s, want %s", contract.Type, types.ContractRent)
	}
	if contract.MonthlyRent == nil || *contract.MonthlyRent != 1000 {
		t.Errorf("monthly rent = %v, want 1000", contract.MonthlyRent)
	}
	if contract.SecurityDeposit == nil || *contract.SecurityDeposit != 2000 {
		t.Errorf("security deposit = %v, want 2000", contract.SecurityDeposit)
	}
	if contract.Commission == nil || *contract.Commission != 50 {
		t.Errorf("commission = %v, want 50", contract.Commission)
	}
	if contract.PaymentFrequency == nil || *contract.PaymentFrequency != types.PaymentMonthly {
		t.Errorf("payment frequency = %v, want Monthly", contract.PaymentFrequency)
	}
	if !contract.AutoRenewal {
		t.Error("rent contract should auto-renew")
	}
	if contract.EndDate == nil {
		t.Fatal("rent contract should have an end date")
	}
	wantEnd := contract.StartDate.AddDate(1, 0, 0)
	if !contract.EndDate.Equal(wantEnd) {
		t.Errorf("end date = %v, want %v", contract.EndDate, wantEnd)
	}
}

func TestApproveGuards(t *testing.T) {
	tests := []struct {
		status  types.ProposalStatus
		wantErr *apierr.Error
	}{
		{types.ProposalApproved, apierr.ErrProposalAlreadyApproved},
		{types.ProposalRejected, apierr.ErrProposalAlreadyRejected},
		{types.ProposalCancelled, apierr.ErrProposalCancelled},
		{types.ProposalCompleted, apierr.ErrProposalCompleted},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()

			agent := seedAgent(t, env.db, seedUser(t, env.db, "Rui", "Agente"))
			property := seedProperty(t, env.db, agent, "T3 em Braga", 300000, types.PropertyAvailable)
			client := seedClient(t, env.db, seedUser(t, env.db, "Ana", "Silva"))
			proposal := seedProposal(t, env.db, property, client, 280000, types.ProposalPurchase, tt.status)

			_, err := env.approvalService.Approve(ctx, proposal.ID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Approve err = %v, want %v", err, tt.wantErr)
			}

			reloadedProperty, err := env.propertyRepo.GetByID(ctx, nil, property.ID)
			if err != nil {
				t.Fatalf("reload property: %v", err)
			}
			if reloadedProperty.Status != types.PropertyAvailable {
				t.Errorf("property status changed to %s on guarded approval", reloadedProperty.Status)
			}
		})
	}
}

func TestApprovePropertyDisposed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	agent := seedAgent(t, env.db, seedUser(t, env.db, "Rui", "Agente"))
	property := seedProperty(t, env.db, agent, "Moradia vendida", 500000, types.PropertySold)
	client := seedClient(t, env.db, seedUser(t, env.db, "Ana", "Silva"))
	proposal := seedProposal(t, env.db, property, client, 480000, types.ProposalPurchase, types.ProposalPending)

	_, err := env.approvalService.Approve(ctx, proposal.ID)
	if !errors.Is(err, apierr.ErrPropertyUnavailable) {
		t.Fatalf("Approve err = %v, want %v", err, apierr.ErrPropertyUnavailable)
	}

	reloaded, err := env.proposalRepo.GetByID(ctx, nil, proposal.ID)
	if err != nil {
		t.Fatalf("reload proposal: %v", err)
	}
	if reloaded.Status != types.ProposalPending {
		t.Errorf("proposal status = %s, want Pending after rollback", reloaded.Status)
	}
}

func TestApproveProposalNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.approvalService.Approve(context.Background(), uuid.New())
	if !errors.Is(err, apierr.ErrProposalNotFound) {
		t.Fatalf("Approve err = %v, want %v", err, apierr.ErrProposalNotFound)
	}
}

func TestApproveAgentMissingRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	agent := seedAgent(t, env.db, seedUser(t, env.db, "Rui", "Agente"))
	property := seedProperty(t, env.db, agent, "T2 sem agente", 150000, types.PropertyAvailable)
	// Point the property at an agent that does not exist.
	property.AgentID = uuid.New()
	if err := env.db.Save(property).Error; err != nil {
		t.Fatalf("update property: %v", err)
	}

	client1 := seedClient(t, env.db, seedUser(t, env.db, "Ana", "Silva"))
	client2 := seedClient(t, env.db, seedUser(t, env.db, "Bruno", "Costa"))
	proposal := seedProposal(t, env.db, property, client1, 140000, types.ProposalPurchase, types.ProposalPending)
	competitor := seedProposal(t, env.db, property, client2, 139000, types.ProposalPurchase, types.ProposalPending)

	_, err := env.approvalService.Approve(ctx, proposal.ID)
	if !errors.Is(err, apierr.ErrAgentNotFound) {
		t.Fatalf("Approve err = %v, want %v", err, apierr.ErrAgentNotFound)
	}

	// Nothing commits: the competitor cascade and the property mutation
	// must both roll back with the failed approval.
	reloaded, err := env.proposalRepo.GetByID(ctx, nil, competitor.ID)
	if err != nil {
		t.Fatalf("reload competitor: %v", err)
	}
	if reloaded.Status != types.ProposalPending {
		t.Errorf("competitor status = %s, want Pending after rollback", reloaded.Status)
	}
	reloadedProperty, err := env.propertyRepo.GetByID(ctx, nil, property.ID)
	if err != nil {
		t.Fatalf("reload property: %v", err)
	}
	if reloadedProperty.Status != types.PropertyAvailable {
		t.Errorf("property status = %s, want Available after rollback", reloadedProperty.Status)
	}
}

type failingContractService struct{}

var errContractDown = errors.New("contract creation unavailable")

func (f *failingContractService) Create(ctx context.Context, input CreateContractInput) (*types.Contract, error) {
	return nil, errContractDown
}

func (f *failingContractService) CreateTx(ctx context.Context, tx *gorm.DB, input CreateContractInput) (*types.Contract, error) {
	return nil, errContractDown
}

func (f *failingContractService) Activate(ctx context.Context, contractID uuid.UUID) (*types.Contract, error) {
	return nil, errContractDown
}

func (f *failingContractService) GetByID(ctx context.Context, contractID uuid.UUID) (*types.Contract, error) {
	return nil, errContractDown
}

func (f *failingContractService) GetByClient(ctx context.Context, clientID uuid.UUID) ([]*types.Contract, error) {
	return nil, errContractDown
}

func TestApproveSurvivesContractFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	log := testLogger()
	approval := NewApprovalService(env.db, log, env.proposalRepo, env.propertyRepo, env.clientRepo, env.agentRepo, env.userRepo, &failingContractService{}, env.notificationService)

	agentUser := seedUser(t, env.db, "Rui", "Agente")
	agent := seedAgent(t, env.db, agentUser)
	property := seedProperty(t, env.db, agent, "T2 no Porto", 210000, types.PropertyAvailable)
	clientUser1 := seedUser(t, env.db, "Ana", "Silva")
	client1 := seedClient(t, env.db, clientUser1)
	client2 := seedClient(t, env.db, seedUser(t, env.db, "Bruno", "Costa"))

	proposal := seedProposal(t, env.db, property, client1, 200000, types.ProposalPurchase, types.ProposalPending)
	competitor := seedProposal(t, env.db, property, client2, 195000, types.ProposalPurchase, types.ProposalInNegotiation)

	result, err := approval.Approve(ctx, proposal.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}

	// The approval stands even though the contract could not be created.
	if result.ProposalStatus != types.ProposalApproved {
		t.Errorf("proposal status = %s, want %s", result.ProposalStatus, types.ProposalApproved)
	}
	if result.ContractID != nil {
		t.Errorf("contract id = %v, want nil", result.ContractID)
	}
	if result.ContractError == "" {
		t.Error("expected contract error to be reported")
	}
	if result.NotifiedAgent {
		t.Error("agent must not be notified when no contract exists")
	}
	if !result.NotifiedClient {
		t.Error("client must still be notified of the approval")
	}

	reloaded, err := env.proposalRepo.GetByID(ctx, nil, proposal.ID)
	if err != nil {
		t.Fatalf("reload proposal: %v", err)
	}
	if reloaded.Status != types.ProposalApproved {
		t.Errorf("persisted proposal status = %s, want Approved", reloaded.Status)
	}
	loser, err := env.proposalRepo.GetByID(ctx, nil, competitor.ID)
	if err != nil {
		t.Fatalf("reload competitor: %v", err)
	}
	if loser.Status != types.ProposalRejected {
		t.Errorf("competitor status = %s, want Rejected", loser.Status)
	}
	reloadedProperty, err := env.propertyRepo.GetByID(ctx, nil, property.ID)
	if err != nil {
		t.Fatalf("reload property: %v", err)
	}
	if reloadedProperty.Status != types.PropertyReserved {
		t.Errorf("property status = %s, want Reserved", reloadedProperty.Status)
	}
}

package services

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lusohomes/marketplace-backend/internal/types"
)

func TestDeriveContractTermsPurchase(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)
	proposal := types.NewProposal(uuid.New(), uuid.New(), 200000, types.ProposalPurchase, "Crédito habitação", nil)

	terms := DeriveContractTerms(proposal, now)

	if terms.Type != types.ContractSale {
		t.Errorf("type = %s, want Sale", terms.Type)
	}
	if terms.Value != 200000 {
		t.Errorf("value = %v, want 200000", terms.Value)
	}
	if terms.Commission != 10000 {
		t.Errorf("commission = %v, want 10000", terms.Commission)
	}
	if !terms.StartDate.Equal(now) {
		t.Errorf("start date = %v, want %v", terms.StartDate, now)
	}
	if terms.EndDate != nil {
		t.Errorf("sale terms should have no end date, got %v", terms.EndDate)
	}
	if terms.MonthlyRent != nil || terms.SecurityDeposit != nil || terms.PaymentFrequency != nil || terms.PaymentDay != nil {
		t.Error("sale terms should carry no rent fields")
	}
	if terms.AutoRenewal {
		t.Error("sale terms should not auto-renew")
	}
	if !strings.Contains(terms.TermsAndConditions, proposal.ProposalNumber) {
		t.Errorf("terms text %q does not mention the proposal number", terms.TermsAndConditions)
	}
	if !strings.Contains(terms.TermsAndConditions, "Crédito habitação") {
		t.Errorf("terms text %q does not mention the payment method", terms.TermsAndConditions)
	}
}

func TestDeriveContractTermsRent(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)
	moveDate := time.Date(2026, time.April, 5, 0, 0, 0, 0, time.UTC)
	proposal := types.NewProposal(uuid.New(), uuid.New(), 1000, types.ProposalRent, "", &moveDate)

	terms := DeriveContractTerms(proposal, now)

	if terms.Type != types.ContractRent {
		t.Errorf("type = %s, want Rent", terms.Type)
	}
	if !terms.StartDate.Equal(moveDate) {
		t.Errorf("start date = %v, want the intended move date %v", terms.StartDate, moveDate)
	}
	if terms.EndDate == nil || !terms.EndDate.Equal(moveDate.AddDate(1, 0, 0)) {
		t.Errorf("end date = %v, want %v", terms.EndDate, moveDate.AddDate(1, 0, 0))
	}
	if terms.MonthlyRent == nil || *terms.MonthlyRent != 1000 {
		t.Errorf("monthly rent = %v, want 1000", terms.MonthlyRent)
	}
	if terms.SecurityDeposit == nil || *terms.SecurityDeposit != 2000 {
		t.Errorf("security deposit = %v, want 2000", terms.SecurityDeposit)
	}
	if terms.Commission != 50 {
		t.Errorf("commission = %v, want 50", terms.Commission)
	}
	if terms.PaymentFrequency == nil || *terms.PaymentFrequency != types.PaymentMonthly {
		t.Errorf("payment frequency = %v, want Monthly", terms.PaymentFrequency)
	}
	if terms.PaymentDay == nil || *terms.PaymentDay != 5 {
		t.Errorf("payment day = %v, want 5", terms.PaymentDay)
	}
	if !terms.AutoRenewal {
		t.Error("rent terms should auto-renew")
	}
	if !strings.Contains(terms.TermsAndConditions, "A definir") {
		t.Errorf("terms text %q should default the payment method to 'A definir'", terms.TermsAndConditions)
	}
}

func TestDeriveContractTermsPastMoveDate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)
	moveDate := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	proposal := types.NewProposal(uuid.New(), uuid.New(), 1200, types.ProposalRent, "", &moveDate)

	terms := DeriveContractTerms(proposal, now)

	// A stale move date is clamped to today, never the past.
	today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	if !terms.StartDate.Equal(today) {
		t.Errorf("start date = %v, want clamped to %v", terms.StartDate, today)
	}
	if terms.EndDate == nil || !terms.EndDate.Equal(today.AddDate(1, 0, 0)) {
		t.Errorf("end date = %v, want %v", terms.EndDate, today.AddDate(1, 0, 0))
	}
}

func TestDeriveContractTermsDeterministic(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)
	proposal := types.NewProposal(uuid.New(), uuid.New(), 875.50, types.ProposalRent, "MB Way", nil)

	first := DeriveContractTerms(proposal, now)
	second := DeriveContractTerms(proposal, now)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("derivation not deterministic:\n%+v\n%+v", first, second)
	}
}

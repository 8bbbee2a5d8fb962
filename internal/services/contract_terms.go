package services

import (
	"fmt"
	"time"

	"github.com/lusohomes/marketplace-backend/internal/types"
)

func nowUTC() time.Time { return time.Now().UTC() }

// ContractTerms is the derived term set for a contract generated from an
// approved proposal.
type ContractTerms struct {
	Type               types.ContractType
	Value              float64
	StartDate          time.Time
	EndDate            *time.Time
	MonthlyRent        *float64
	SecurityDeposit    *float64
	Commission         float64
	PaymentFrequency   *types.PaymentFrequency
	PaymentDay         *int
	AutoRenewal        bool
	TermsAndConditions string
}

// DeriveContractTerms maps a proposal to contract terms. Pure function of
// (proposal, now): rent contracts run one year from the start date with
// monthly rent equal to the proposed value and a deposit of two months;
// commission is 5% of the proposed value for both types. The start date is
// the intended move date when given, but never in the past.
func DeriveContractTerms(proposal *types.Proposal, now time.Time) ContractTerms {
	contractType := types.ContractSale
	if proposal.Type == types.ProposalRent {
		contractType = types.ContractRent
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startDate := now
	if proposal.IntendedMoveDate != nil {
		startDate = *proposal.IntendedMoveDate
	}
	if startDate.Before(today) {
		startDate = today
	}

	terms := ContractTerms{
		Type:               contractType,
		Value:              proposal.ProposedValue,
		StartDate:          startDate,
		Commission:         proposal.ProposedValue * 5 / 100,
		AutoRenewal:        proposal.Type == types.ProposalRent,
		TermsAndConditions: contractTermsText(proposal),
	}

	if proposal.Type == types.ProposalRent {
		endDate := startDate.AddDate(1, 0, 0)
		monthlyRent := proposal.ProposedValue
		securityDeposit := proposal.ProposedValue * 2
		paymentFrequency := types.PaymentMonthly
		paymentDay := startDate.Day()

		terms.EndDate = &endDate
		terms.MonthlyRent = &monthlyRent
		terms.SecurityDeposit = &securityDeposit
		terms.PaymentFrequency = &paymentFrequency
		terms.PaymentDay = &paymentDay
	}

	return terms
}

func contractTermsText(proposal *types.Proposal) string {
	paymentMethod := proposal.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "A definir"
	}
	text := fmt.Sprintf(
		"Contrato gerado automaticamente a partir da proposta aprovada %s. Valor acordado: €%.2f. Método de pagamento: %s.",
		proposal.ProposalNumber, proposal.ProposedValue, paymentMethod,
	)
	if proposal.AdditionalNotes != "" {
		text += " Notas: " + proposal.AdditionalNotes
	}
	return text
}

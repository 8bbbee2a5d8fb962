package types

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ProposalType string

const (
	ProposalPurchase ProposalType = "Purchase"
	ProposalRent     ProposalType = "Rent"
)

type ProposalStatus string

const (
	ProposalPending       ProposalStatus = "Pending"
	ProposalUnderAnalysis ProposalStatus = "UnderAnalysis"
	ProposalInNegotiation ProposalStatus = "InNegotiation"
	ProposalApproved      ProposalStatus = "Approved"
	ProposalRejected      ProposalStatus = "Rejected"
	ProposalCancelled     ProposalStatus = "Cancelled"
	ProposalCompleted     ProposalStatus = "Completed"
)

// LiveProposalStatuses are the statuses of proposals that have not been
// decided yet. The approval cascade rejects every competitor in one of
// these statuses.
var LiveProposalStatuses = []ProposalStatus{
	ProposalPending,
	ProposalUnderAnalysis,
	ProposalInNegotiation,
}

// Proposal is a client's offer to buy or rent a property. Status only
// changes through the methods below; terminal proposals are kept for audit
// and never deleted.
type Proposal struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProposalNumber   string         `gorm:"column:proposal_number;not null;index" json:"proposal_number"`
	PropertyID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"property_id"`
	Property         *Property      `gorm:"constraint:OnDelete:CASCADE;foreignKey:PropertyID;references:ID" json:"property,omitempty"`
	ClientID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"client_id"`
	Client           *Client        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClientID;references:ID" json:"client,omitempty"`
	ProposedValue    float64        `gorm:"column:proposed_value;not null" json:"proposed_value"`
	Type             ProposalType   `gorm:"column:type;not null" json:"type"`
	Status           ProposalStatus `gorm:"column:status;not null;default:'Pending'" json:"status"`
	PaymentMethod    string         `gorm:"column:payment_method" json:"payment_method,omitempty"`
	IntendedMoveDate *time.Time     `gorm:"column:intended_move_date" json:"intended_move_date,omitempty"`
	AdditionalNotes  string         `gorm:"column:additional_notes" json:"additional_notes,omitempty"`
	ResponseDate     *time.Time     `gorm:"column:response_date" json:"response_date,omitempty"`
	RejectionReason  string         `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	Negotiations     []Negotiation  `gorm:"foreignKey:ProposalID;references:ID" json:"negotiations,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Proposal) TableName() string { return "proposal" }

func NewProposal(propertyID, clientID uuid.UUID, proposedValue float64, proposalType ProposalType, paymentMethod string, intendedMoveDate *time.Time) *Proposal {
	return &Proposal{
		ID:               uuid.New(),
		ProposalNumber:   GenerateProposalNumber(),
		PropertyID:       propertyID,
		ClientID:         clientID,
		ProposedValue:    proposedValue,
		Type:             proposalType,
		PaymentMethod:    paymentMethod,
		IntendedMoveDate: intendedMoveDate,
		Status:           ProposalPending,
	}
}

// GenerateProposalNumber builds the human-readable label
// PROP-<year>-<3 digits>-<3 chars>. It is a convention-unique label, not a
// key: no uniqueness check is made against storage.
func GenerateProposalNumber() string {
	year := time.Now().UTC().Year()
	randomNumber := 100 + rand.Intn(900)
	randomSuffix := strings.ToUpper(uuid.NewString()[:3])
	return fmt.Sprintf("PROP-%d-%d-%s", year, randomNumber, randomSuffix)
}

func (p *Proposal) Submit() {
	p.Status = ProposalPending
	p.UpdatedAt = time.Now().UTC()
}

func (p *Proposal) StartAnalysis() {
	p.Status = ProposalUnderAnalysis
	p.UpdatedAt = time.Now().UTC()
}

func (p *Proposal) Approve() {
	now := time.Now().UTC()
	p.Status = ProposalApproved
	p.ResponseDate = &now
	p.UpdatedAt = now
}

func (p *Proposal) Reject(reason string) {
	now := time.Now().UTC()
	p.Status = ProposalRejected
	p.RejectionReason = reason
	p.ResponseDate = &now
	p.UpdatedAt = now
}

func (p *Proposal) Cancel() {
	p.Status = ProposalCancelled
	p.UpdatedAt = time.Now().UTC()
}

func (p *Proposal) StartNegotiation() {
	p.Status = ProposalInNegotiation
	p.UpdatedAt = time.Now().UTC()
}

// AddNegotiation appends a new entry to the negotiation ledger and forces
// the proposal into InNegotiation. The entry itself is immutable after
// creation except for its status and read-receipt timestamps.
func (p *Proposal) AddNegotiation(senderID uuid.UUID, message string, counterOffer *float64) *Negotiation {
	now := time.Now().UTC()
	negotiation := Negotiation{
		ID:           uuid.New(),
		ProposalID:   p.ID,
		SenderID:     senderID,
		Message:      message,
		CounterOffer: counterOffer,
		Status:       NegotiationSent,
		SentAt:       now,
	}
	p.Negotiations = append(p.Negotiations, negotiation)
	p.Status = ProposalInNegotiation
	p.UpdatedAt = now
	return &p.Negotiations[len(p.Negotiations)-1]
}

// IsTerminal reports whether the proposal reached a state that admits no
// further transitions.
func (p *Proposal) IsTerminal() bool {
	switch p.Status {
	case ProposalRejected, ProposalCancelled, ProposalCompleted:
		return true
	default:
		return false
	}
}

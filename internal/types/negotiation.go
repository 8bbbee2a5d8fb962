package types

import (
	"time"

	"github.com/google/uuid"
)

type NegotiationStatus string

const (
	NegotiationSent     NegotiationStatus = "Sent"
	NegotiationViewed   NegotiationStatus = "Viewed"
	NegotiationAccepted NegotiationStatus = "Accepted"
	NegotiationRejected NegotiationStatus = "Rejected"
)

// Negotiation is one message in the back-and-forth on a proposal. The
// read-receipt methods overwrite their timestamp when called twice; these
// are advisory receipts, not consensus-critical state.
type Negotiation struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProposalID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"proposal_id"`
	SenderID     uuid.UUID         `gorm:"type:uuid;not null" json:"sender_id"`
	Sender       *User             `gorm:"foreignKey:SenderID;references:ID" json:"sender,omitempty"`
	Message      string            `gorm:"column:message;not null" json:"message"`
	CounterOffer *float64          `gorm:"column:counter_offer" json:"counter_offer,omitempty"`
	Status       NegotiationStatus `gorm:"column:status;not null;default:'Sent'" json:"status"`
	SentAt       time.Time         `gorm:"column:sent_at;not null" json:"sent_at"`
	ViewedAt     *time.Time        `gorm:"column:viewed_at" json:"viewed_at,omitempty"`
	RespondedAt  *time.Time        `gorm:"column:responded_at" json:"responded_at,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:now()" json:"updated_at"`
}

func (Negotiation) TableName() string { return "negotiation" }

func (n *Negotiation) MarkAsViewed() {
	now := time.Now().UTC()
	n.Status = NegotiationViewed
	n.ViewedAt = &now
	n.UpdatedAt = now
}

func (n *Negotiation) Accept() {
	now := time.Now().UTC()
	n.Status = NegotiationAccepted
	n.RespondedAt = &now
	n.UpdatedAt = now
}

func (n *Negotiation) Reject() {
	now := time.Now().UTC()
	n.Status = NegotiationRejected
	n.RespondedAt = &now
	n.UpdatedAt = now
}

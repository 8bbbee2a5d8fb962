package types

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationUnread   NotificationStatus = "Unread"
	NotificationRead     NotificationStatus = "Read"
	NotificationArchived NotificationStatus = "Archived"
)

type NotificationType string

const (
	NotificationPayment        NotificationType = "Payment"
	NotificationContract       NotificationType = "Contract"
	NotificationContractUpdate NotificationType = "ContractUpdate"
	NotificationPropertyUpdate NotificationType = "PropertyUpdate"
	NotificationVisit          NotificationType = "Visit"
	NotificationProposal       NotificationType = "Proposal"
	NotificationNegotiation    NotificationType = "Negotiation"
	NotificationSystemAlert    NotificationType = "SystemAlert"
)

type NotificationPriority string

const (
	NotificationLow    NotificationPriority = "Low"
	NotificationMedium NotificationPriority = "Medium"
	NotificationHigh   NotificationPriority = "High"
)

// Notification is a persisted message to a user. SenderID is nil for
// system-generated notifications; ReferenceID/ReferenceType tie it back to
// the proposal or contract that produced it.
type Notification struct {
	ID             uuid.UUID            `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SenderID       *uuid.UUID           `gorm:"type:uuid" json:"sender_id,omitempty"`
	RecipientID    uuid.UUID            `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Message        string               `gorm:"column:message;not null" json:"message"`
	Status         NotificationStatus   `gorm:"column:status;not null;default:'Unread'" json:"status"`
	Type           NotificationType     `gorm:"column:type;not null" json:"type"`
	Priority       NotificationPriority `gorm:"column:priority;not null" json:"priority"`
	ReferenceID    *uuid.UUID           `gorm:"type:uuid" json:"reference_id,omitempty"`
	ReferenceType  string               `gorm:"column:reference_type" json:"reference_type,omitempty"`
	ExpirationDate time.Time            `gorm:"column:expiration_date;not null" json:"expiration_date"`
	CreatedAt      time.Time            `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time            `gorm:"not null;default:now()" json:"updated_at"`
}

func (Notification) TableName() string { return "notification" }

func (n *Notification) MarkAsRead() {
	n.Status = NotificationRead
	n.UpdatedAt = time.Now().UTC()
}

func (n *Notification) IsExpired() bool {
	return n.ExpirationDate.Before(time.Now().UTC())
}

// NotificationExpiration derives how long a notification stays relevant
// from its type.
func NotificationExpiration(notificationType NotificationType, now time.Time) time.Time {
	switch notificationType {
	case NotificationPayment:
		return now.AddDate(0, 6, 0)
	case NotificationContractUpdate:
		return now.AddDate(0, 3, 0)
	case NotificationPropertyUpdate:
		return now.AddDate(0, 0, 30)
	case NotificationProposal:
		return now.AddDate(0, 0, 14)
	default:
		return now.AddDate(0, 0, 7)
	}
}

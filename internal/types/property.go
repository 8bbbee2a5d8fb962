package types

import (
	"time"

	"github.com/google/uuid"
)

type PropertyStatus string

const (
	PropertyAvailable     PropertyStatus = "Available"
	PropertyReserved      PropertyStatus = "Reserved"
	PropertyUnderContract PropertyStatus = "UnderContract"
	PropertySold          PropertyStatus = "Sold"
	PropertyRented        PropertyStatus = "Rented"
	PropertyUnavailable   PropertyStatus = "Unavailable"
	PropertyInNegotiation PropertyStatus = "InNegotiation"
)

type Property struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AgentID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"agent_id"`
	Agent     *Agent         `gorm:"constraint:OnDelete:CASCADE;foreignKey:AgentID;references:ID" json:"agent,omitempty"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	Status    PropertyStatus `gorm:"column:status;not null;default:'Available'" json:"status"`
	Price     float64        `gorm:"column:price;not null" json:"price"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Property) TableName() string { return "property" }

func (p *Property) UpdateStatus(status PropertyStatus) {
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
}

// IsDisposed reports whether the property has already been sold or rented
// and can no longer receive approvals.
func (p *Property) IsDisposed() bool {
	return p.Status == PropertySold || p.Status == PropertyRented
}

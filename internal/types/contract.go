package types

import (
	"time"

	"github.com/google/uuid"
)

type ContractType string

const (
	ContractSale  ContractType = "Sale"
	ContractRent  ContractType = "Rent"
	ContractLease ContractType = "Lease"
)

type ContractStatus string

const (
	ContractDraft            ContractStatus = "Draft"
	ContractPendingSignature ContractStatus = "PendingSignature"
	ContractActive           ContractStatus = "Active"
	ContractSuspended        ContractStatus = "Suspended"
	ContractCompleted        ContractStatus = "Completed"
	ContractTerminated       ContractStatus = "Terminated"
	ContractExpired          ContractStatus = "Expired"
	ContractCancelled        ContractStatus = "Cancelled"
)

type PaymentFrequency string

const (
	PaymentMonthly   PaymentFrequency = "Monthly"
	PaymentQuarterly PaymentFrequency = "Quarterly"
	PaymentBiannual  PaymentFrequency = "Biannual"
	PaymentAnnual    PaymentFrequency = "Annual"
	PaymentOneTime   PaymentFrequency = "OneTime"
)

// Contract starts in Draft status. Rent-only fields (monthly rent, security
// deposit, payment frequency/day, end date) stay nil on sale contracts.
type Contract struct {
	ID                 uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PropertyID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"property_id"`
	Property           *Property         `gorm:"constraint:OnDelete:CASCADE;foreignKey:PropertyID;references:ID" json:"property,omitempty"`
	ClientID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"client_id"`
	Client             *Client           `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClientID;references:ID" json:"client,omitempty"`
	AgentID            uuid.UUID         `gorm:"type:uuid;not null;index" json:"agent_id"`
	Agent              *Agent            `gorm:"constraint:OnDelete:CASCADE;foreignKey:AgentID;references:ID" json:"agent,omitempty"`
	Type               ContractType      `gorm:"column:type;not null" json:"type"`
	Status             ContractStatus    `gorm:"column:status;not null;default:'Draft'" json:"status"`
	StartDate          time.Time         `gorm:"column:start_date;not null" json:"start_date"`
	EndDate            *time.Time        `gorm:"column:end_date" json:"end_date,omitempty"`
	SignatureDate      time.Time         `gorm:"column:signature_date" json:"signature_date"`
	TerminationDate    *time.Time        `gorm:"column:termination_date" json:"termination_date,omitempty"`
	Value              float64           `gorm:"column:value;not null" json:"value"`
	MonthlyRent        *float64          `gorm:"column:monthly_rent" json:"monthly_rent,omitempty"`
	SecurityDeposit    *float64          `gorm:"column:security_deposit" json:"security_deposit,omitempty"`
	Commission         *float64          `gorm:"column:commission" json:"commission,omitempty"`
	PaymentFrequency   *PaymentFrequency `gorm:"column:payment_frequency" json:"payment_frequency,omitempty"`
	PaymentDay         *int              `gorm:"column:payment_day" json:"payment_day,omitempty"`
	AutoRenewal        bool              `gorm:"column:auto_renewal;not null;default:false" json:"auto_renewal"`
	TermsAndConditions string            `gorm:"column:terms_and_conditions" json:"terms_and_conditions,omitempty"`
	Notes              string            `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt          time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"not null;default:now()" json:"updated_at"`
}

func (Contract) TableName() string { return "contract" }

func (c *Contract) Activate() {
	c.Status = ContractActive
	c.UpdatedAt = time.Now().UTC()
}

func (c *Contract) Terminate(reason string) {
	now := time.Now().UTC()
	c.Status = ContractTerminated
	c.TerminationDate = &now
	if reason != "" {
		if c.Notes == "" {
			c.Notes = "Termination: " + reason
		} else {
			c.Notes = c.Notes + "\nTermination: " + reason
		}
	}
	c.UpdatedAt = now
}

func (c *Contract) IsExpired() bool {
	return c.EndDate != nil && c.EndDate.Before(time.Now().UTC())
}

func (c *Contract) IsActive() bool {
	return c.Status == ContractActive && !c.IsExpired()
}

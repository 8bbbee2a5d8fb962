package types

import (
	"time"

	"github.com/google/uuid"
)

// Agent is a real estate agent. UserID may be uuid.Nil when the agent has
// not been linked to a login; workflows that only need the agent record
// must tolerate that.
type Agent struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User           *User     `gorm:"constraint:OnDelete:SET NULL;foreignKey:UserID;references:ID" json:"user,omitempty"`
	LicenseNumber  string    `gorm:"column:license_number" json:"license_number,omitempty"`
	OfficeEmail    string    `gorm:"column:office_email" json:"office_email,omitempty"`
	OfficePhone    string    `gorm:"column:office_phone" json:"office_phone,omitempty"`
	Specialization string    `gorm:"column:specialization" json:"specialization,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Agent) TableName() string { return "agent" }

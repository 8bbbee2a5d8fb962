package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Client struct {
	ID                     uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID                 uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User                   *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Nif                    string         `gorm:"column:nif" json:"nif,omitempty"`
	CitizenCard            string         `gorm:"column:citizen_card" json:"citizen_card,omitempty"`
	PreferredContactMethod string         `gorm:"column:preferred_contact_method" json:"preferred_contact_method,omitempty"`
	PropertyPreferences    datatypes.JSON `gorm:"column:property_preferences;type:jsonb" json:"property_preferences,omitempty"`
	CreatedAt              time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt              time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Client) TableName() string { return "client" }

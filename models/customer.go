package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a buying customer. Credentials and sessions are owned
// by the surrounding identity service, not by the quoting platform.
type Customer struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	CompanyName  *string `gorm:"type:varchar(255)" json:"company_name,omitempty"`
	ContactName  string  `gorm:"type:varchar(255);not null" json:"contact_name"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex:uk_customers_email" json:"email"`
	Phone        *string `gorm:"type:varchar(50)" json:"phone,omitempty"`
	VATNumber    *string `gorm:"type:varchar(50)" json:"vat_number,omitempty"`
	Address      *string `gorm:"type:text" json:"address,omitempty"`
	IsActive     *bool   `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BeforeCreate ensures UUID is set
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// CustomerFilter represents filter criteria for customer queries
type CustomerFilter struct {
	ID       *uint      `json:"id,omitempty"`
	UUID     *uuid.UUID `json:"uuid,omitempty"`
	Email    *string    `json:"email,omitempty"`
	IsActive *bool      `json:"is_active,omitempty"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supplier represents a material supplier. Supplier costs are informational
// and never enter quote pricing.
type Supplier struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	Name     string  `gorm:"type:varchar(255);not null;uniqueIndex:uk_suppliers_name" json:"name"`
	Email    *string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone    *string `gorm:"type:varchar(50)" json:"phone,omitempty"`
	IsActive *bool   `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BeforeCreate ensures UUID is set
func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == uuid.Nil {
		s.UUID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// SupplierFilter represents filter criteria for supplier queries
type SupplierFilter struct {
	ID       *uint      `json:"id,omitempty"`
	UUID     *uuid.UUID `json:"uuid,omitempty"`
	Name     *string    `json:"name,omitempty"`
	IsActive *bool      `json:"is_active,omitempty"`
}

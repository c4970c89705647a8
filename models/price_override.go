package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PricedEntityKind identifies which catalog entity a customer price override targets.
type PricedEntityKind string

const (
	PricedMaterial PricedEntityKind = "material"
	PricedPrinting PricedEntityKind = "printing"
	PricedFinish   PricedEntityKind = "finish"
)

// Valid checks if the priced entity kind is valid.
func (k PricedEntityKind) Valid() bool {
	switch k {
	case PricedMaterial, PricedPrinting, PricedFinish:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for PricedEntityKind.
func (k *PricedEntityKind) Scan(value any) error {
	if value == nil {
		*k = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*k = PricedEntityKind(v)
	case []byte:
		*k = PricedEntityKind(string(v))
	default:
		return fmt.Errorf("cannot scan %T into PricedEntityKind", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for PricedEntityKind.
func (k PricedEntityKind) Value() (driver.Value, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid PricedEntityKind: %s", k)
	}
	return string(k), nil
}

// OverrideTerms carries the selection fields shared by all three customer
// price override tables. At most one row per (customer, entity) is intended
// to be current at evaluation time; resolution picks deterministically among
// candidates (lowest priority, then most recently created).
type OverrideTerms struct {
	UnitCost  float64    `gorm:"type:numeric(12,4);not null" json:"unit_cost"`
	Priority  int        `gorm:"not null;default:100;index" json:"priority"`
	ValidFrom *time.Time `json:"valid_from,omitempty"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`
	IsCurrent *bool      `gorm:"not null;default:true;index" json:"is_current"`
}

// CustomerMaterialPrice is a customer-specific unit cost for a material.
type CustomerMaterialPrice struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	CustomerID uint      `gorm:"not null;index:idx_customer_material_prices_pair" json:"customer_id"`
	MaterialID uint      `gorm:"not null;index:idx_customer_material_prices_pair" json:"material_id"`

	OverrideTerms `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BeforeCreate ensures UUID is set
func (p *CustomerMaterialPrice) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (CustomerMaterialPrice) TableName() string {
	return "customer_material_prices"
}

// CustomerPrintingPrice is a customer-specific unit price for a printing configuration.
type CustomerPrintingPrice struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	CustomerID uint      `gorm:"not null;index:idx_customer_printing_prices_pair" json:"customer_id"`
	PrintingID uint      `gorm:"not null;index:idx_customer_printing_prices_pair" json:"printing_id"`

	OverrideTerms `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BeforeCreate ensures UUID is set
func (p *CustomerPrintingPrice) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (CustomerPrintingPrice) TableName() string {
	return "customer_printing_prices"
}

// CustomerFinishPrice is a customer-specific unit cost for a finish.
type CustomerFinishPrice struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	CustomerID uint      `gorm:"not null;index:idx_customer_finish_prices_pair" json:"customer_id"`
	FinishID   uint      `gorm:"not null;index:idx_customer_finish_prices_pair" json:"finish_id"`

	OverrideTerms `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BeforeCreate ensures UUID is set
func (p *CustomerFinishPrice) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (CustomerFinishPrice) TableName() string {
	return "customer_finish_prices"
}

// PriceOverrideFilter represents filter criteria for override queries across kinds
type PriceOverrideFilter struct {
	CustomerID *uint `json:"customer_id,omitempty"`
	EntityID   *uint `json:"entity_id,omitempty"`
	IsCurrent  *bool `json:"is_current,omitempty"`
}

package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smuelmfs/mp-pt-sub003/utils"
	"gorm.io/gorm"
)

// UnitOfMeasure represents the unit a material or finish is priced in.
type UnitOfMeasure string

const (
	UnitPiece UnitOfMeasure = "piece"
	UnitArea  UnitOfMeasure = "m2"
	UnitLot   UnitOfMeasure = "lot"
	UnitHour  UnitOfMeasure = "hour"
	UnitSheet UnitOfMeasure = "sheet"
)

// Valid checks if the unit of measure is valid.
func (u UnitOfMeasure) Valid() bool {
	switch u {
	case UnitPiece, UnitArea, UnitLot, UnitHour, UnitSheet:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for UnitOfMeasure.
func (u *UnitOfMeasure) Scan(value any) error {
	if value == nil {
		*u = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*u = UnitOfMeasure(v)
	case []byte:
		*u = UnitOfMeasure(string(v))
	default:
		return fmt.Errorf("cannot scan %T into UnitOfMeasure", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for UnitOfMeasure.
func (u UnitOfMeasure) Value() (driver.Value, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("invalid UnitOfMeasure: %s", u)
	}
	return string(u), nil
}

// Material represents a raw material in the catalog (paper, vinyl, ink, ...).
// SupplierCost is informational only; pricing always starts from UnitCost.
type Material struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	Name         string        `gorm:"type:varchar(255);not null;index" json:"name"`
	UnitCost     float64       `gorm:"type:numeric(12,4);not null" json:"unit_cost"`
	SupplierCost *float64      `gorm:"type:numeric(12,4)" json:"supplier_cost,omitempty"`
	SupplierID   *uint         `gorm:"index" json:"supplier_id,omitempty"`
	LossFactor   float64       `gorm:"type:numeric(6,4);not null;default:0" json:"loss_factor"`
	Unit         UnitOfMeasure `gorm:"type:varchar(10);not null;default:'piece'" json:"unit"`
	IsActive     *bool         `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Supplier *Supplier         `gorm:"foreignKey:SupplierID;references:ID;constraint:OnDelete:SET NULL" json:"supplier,omitempty"`
	Variants []MaterialVariant `gorm:"foreignKey:MaterialID" json:"variants,omitempty"`
}

// BeforeCreate ensures UUID is set
func (m *Material) BeforeCreate(tx *gorm.DB) error {
	if m.UUID == uuid.Nil {
		m.UUID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (Material) TableName() string {
	return "materials"
}

// CurrentVariant returns the variant flagged as current, or nil when none is.
func (m *Material) CurrentVariant() *MaterialVariant {
	for i := range m.Variants {
		if utils.IsTrue(m.Variants[i].IsCurrent) {
			return &m.Variants[i]
		}
	}
	return nil
}

// MaterialVariant represents a purchasable pack of a material
// (e.g. a pack of 500 sheets). The unit cost derives from the pack
// price unless a direct unit price is set.
type MaterialVariant struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	MaterialID uint      `gorm:"not null;index" json:"material_id"`

	Name          string   `gorm:"type:varchar(255);not null" json:"name"`
	PackPrice     float64  `gorm:"type:numeric(12,4);not null" json:"pack_price"`
	SheetsPerPack int      `gorm:"not null;default:1" json:"sheets_per_pack"`
	UnitPrice     *float64 `gorm:"type:numeric(12,4)" json:"unit_price,omitempty"`
	IsCurrent     *bool    `gorm:"not null;default:false;index" json:"is_current"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BeforeCreate ensures UUID is set
func (v *MaterialVariant) BeforeCreate(tx *gorm.DB) error {
	if v.UUID == uuid.Nil {
		v.UUID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (MaterialVariant) TableName() string {
	return "material_variants"
}

// DerivedUnitCost returns the effective per-unit cost of the variant:
// the direct unit price when set, otherwise pack price / sheets per pack.
func (v *MaterialVariant) DerivedUnitCost() float64 {
	if v.UnitPrice != nil {
		return *v.UnitPrice
	}
	if v.SheetsPerPack <= 0 {
		return v.PackPrice
	}
	return v.PackPrice / float64(v.SheetsPerPack)
}

// MaterialFilter represents filter criteria for material queries
type MaterialFilter struct {
	ID         *uint      `json:"id,omitempty"`
	UUID       *uuid.UUID `json:"uuid,omitempty"`
	Name       *string    `json:"name,omitempty"`
	SupplierID *uint      `json:"supplier_id,omitempty"`
	IsActive   *bool      `json:"is_active,omitempty"`
}

// MaterialVariantFilter represents filter criteria for material variant queries
type MaterialVariantFilter struct {
	ID         *uint `json:"id,omitempty"`
	MaterialID *uint `json:"material_id,omitempty"`
	IsCurrent  *bool `json:"is_current,omitempty"`
}

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a sellable product in the catalog together with its
// pricing overrides. Optional fields fall back to the global configuration.
type Product struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	Name       string `gorm:"type:varchar(255);not null;index" json:"name"`
	CategoryID uint   `gorm:"not null;index" json:"category_id"`

	DefaultPrintingID *uint `gorm:"index" json:"default_printing_id,omitempty"`

	// Pricing overrides; nil means "use the global configuration default".
	MarginDefault    *float64          `gorm:"type:numeric(5,4)" json:"margin_default,omitempty"`
	MarkupDefault    *float64          `gorm:"type:numeric(5,4)" json:"markup_default,omitempty"`
	RoundingStep     *float64          `gorm:"type:numeric(8,4)" json:"rounding_step,omitempty"`
	RoundingStrategy *RoundingStrategy `gorm:"type:varchar(20)" json:"rounding_strategy,omitempty"`
	PricingStrategy  *PricingStrategy  `gorm:"type:varchar(30)" json:"pricing_strategy,omitempty"`
	MinPricePerPiece *float64          `gorm:"type:numeric(12,4)" json:"min_price_per_piece,omitempty"`

	Attributes json.RawMessage `gorm:"type:jsonb" json:"attributes,omitempty"`
	IsActive   *bool           `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Category        *Category       `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
	DefaultPrinting *Printing       `gorm:"foreignKey:DefaultPrintingID;references:ID;constraint:OnDelete:SET NULL" json:"default_printing,omitempty"`
	Materials       []ProductMaterial `gorm:"foreignKey:ProductID" json:"materials,omitempty"`
	Finishes        []ProductFinish   `gorm:"foreignKey:ProductID" json:"finishes,omitempty"`
}

// BeforeCreate ensures UUID is set
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductMaterial is a bill-of-materials line linking a product to a material.
// QtyPerUnit must be greater than zero.
type ProductMaterial struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint `gorm:"not null;index:idx_product_materials_product_id" json:"product_id"`
	MaterialID uint `gorm:"not null;index" json:"material_id"`
	VariantID  *uint `gorm:"index" json:"variant_id,omitempty"`

	QtyPerUnit float64 `gorm:"type:numeric(12,4);not null" json:"qty_per_unit"`
	// WasteFactor is a fractional loss applied multiplicatively to the quantity.
	WasteFactor *float64 `gorm:"type:numeric(6,4)" json:"waste_factor,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Material *Material        `gorm:"foreignKey:MaterialID;references:ID;constraint:OnDelete:CASCADE" json:"material,omitempty"`
	Variant  *MaterialVariant `gorm:"foreignKey:VariantID;references:ID;constraint:OnDelete:SET NULL" json:"variant,omitempty"`
}

// TableName specifies the table name for GORM
func (ProductMaterial) TableName() string {
	return "product_materials"
}

// ProductFinish is a bill-of-materials line linking a product to a finish.
// CalcType, when set, supersedes the finish's own calc type. CostOverride,
// when set, bypasses unit-cost resolution entirely for the line.
type ProductFinish struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint `gorm:"not null;index:idx_product_finishes_product_id" json:"product_id"`
	FinishID  uint `gorm:"not null;index" json:"finish_id"`

	CalcType     *FinishCalcType `gorm:"type:varchar(20)" json:"calc_type,omitempty"`
	QtyPerUnit   *float64        `gorm:"type:numeric(12,4)" json:"qty_per_unit,omitempty"`
	CostOverride *float64        `gorm:"type:numeric(12,4)" json:"cost_override,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Finish *Finish `gorm:"foreignKey:FinishID;references:ID;constraint:OnDelete:CASCADE" json:"finish,omitempty"`
}

// TableName specifies the table name for GORM
func (ProductFinish) TableName() string {
	return "product_finishes"
}

// ProductFilter represents filter criteria for product queries
type ProductFilter struct {
	ID         *uint      `json:"id,omitempty"`
	UUID       *uuid.UUID `json:"uuid,omitempty"`
	Name       *string    `json:"name,omitempty"`
	CategoryID *uint      `json:"category_id,omitempty"`
	IsActive   *bool      `json:"is_active,omitempty"`
}

// ProductMaterialFilter represents filter criteria for BOM material line queries
type ProductMaterialFilter struct {
	ID         *uint `json:"id,omitempty"`
	ProductID  *uint `json:"product_id,omitempty"`
	MaterialID *uint `json:"material_id,omitempty"`
}

// ProductFinishFilter represents filter criteria for BOM finish line queries
type ProductFinishFilter struct {
	ID        *uint `json:"id,omitempty"`
	ProductID *uint `json:"product_id,omitempty"`
	FinishID  *uint `json:"finish_id,omitempty"`
}

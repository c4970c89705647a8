package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quote is a persisted pricing evaluation. All monetary columns are stored
// exactly as the engine produced them; the row is never recomputed in place.
type Quote struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	ProductID  uint  `gorm:"not null;index" json:"product_id"`
	CustomerID *uint `gorm:"index" json:"customer_id,omitempty"`
	Quantity   int   `gorm:"not null" json:"quantity"`

	CostMat    float64 `gorm:"type:numeric(12,4);not null" json:"cost_mat"`
	CostPrint  float64 `gorm:"type:numeric(12,4);not null" json:"cost_print"`
	CostFinish float64 `gorm:"type:numeric(12,4);not null" json:"cost_finish"`
	Subtotal   float64 `gorm:"type:numeric(12,4);not null" json:"subtotal"`

	Markup        float64  `gorm:"type:numeric(5,4);not null" json:"markup"`
	Margin        float64  `gorm:"type:numeric(5,4);not null" json:"margin"`
	DynamicAdjust float64  `gorm:"type:numeric(5,4);not null;default:0" json:"dynamic_adjust"`
	RoundingStep  *float64 `gorm:"type:numeric(8,4)" json:"rounding_step,omitempty"`

	FinalPrice   float64 `gorm:"type:numeric(12,4);not null" json:"final_price"`
	VATPercent   float64 `gorm:"type:numeric(5,4);not null;default:0" json:"vat_percent"`
	TotalWithVAT float64 `gorm:"type:numeric(12,4);not null" json:"total_with_vat"`

	Currency string `gorm:"type:varchar(3);not null;default:'EUR'" json:"currency"`

	// EvaluatedAt is the asOf timestamp the rule/override windows were checked against.
	EvaluatedAt time.Time `gorm:"not null" json:"evaluated_at"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Product  *Product    `gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Customer *Customer   `gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:SET NULL" json:"customer,omitempty"`
	Items    []QuoteItem `gorm:"foreignKey:QuoteID" json:"items,omitempty"`
}

// BeforeCreate ensures UUID is set
func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.UUID == uuid.Nil {
		q.UUID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (Quote) TableName() string {
	return "quotes"
}

// QuoteItem is one itemized cost line of a quote.
type QuoteItem struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	QuoteID uint `gorm:"not null;index:idx_quote_items_quote_id" json:"quote_id"`

	ItemType  string  `gorm:"type:varchar(20);not null" json:"item_type"`
	RefID     uint    `gorm:"not null" json:"ref_id"`
	Name      string  `gorm:"type:varchar(255);not null" json:"name"`
	Quantity  float64 `gorm:"type:numeric(12,4);not null" json:"quantity"`
	Unit      string  `gorm:"type:varchar(10);not null" json:"unit"`
	UnitCost  float64 `gorm:"type:numeric(12,4);not null" json:"unit_cost"`
	TotalCost float64 `gorm:"type:numeric(12,4);not null" json:"total_cost"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for GORM
func (QuoteItem) TableName() string {
	return "quote_items"
}

// QuoteFilter represents filter criteria for quote queries
type QuoteFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	ProductID     *uint      `json:"product_id,omitempty"`
	CustomerID    *uint      `json:"customer_id,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}

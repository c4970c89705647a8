package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// RoundingStrategy represents when step rounding is applied to a quote price.
type RoundingStrategy string

const (
	// RoundEndOnly rounds only the final aggregate price once.
	RoundEndOnly RoundingStrategy = "END_ONLY"
	// RoundPerStep rounds the per-unit price before multiplying by quantity.
	RoundPerStep RoundingStrategy = "PER_STEP"
)

// Valid checks if the rounding strategy is valid.
func (s RoundingStrategy) Valid() bool {
	switch s {
	case RoundEndOnly, RoundPerStep:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for RoundingStrategy.
func (s *RoundingStrategy) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = RoundingStrategy(v)
	case []byte:
		*s = RoundingStrategy(string(v))
	default:
		return fmt.Errorf("cannot scan %T into RoundingStrategy", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for RoundingStrategy.
func (s RoundingStrategy) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid RoundingStrategy: %s", s)
	}
	return string(s), nil
}

// PricingStrategy represents the algebra converting subtotal + margin + markup
// into a pre-rounding price.
type PricingStrategy string

const (
	// StrategyCostMarkupMargin inflates cost by the operational markup, then
	// applies margin as a fraction-of-price target.
	StrategyCostMarkupMargin PricingStrategy = "COST_MARKUP_MARGIN"
	// StrategyCostMarginOnly applies margin only; markup is ignored.
	StrategyCostMarginOnly PricingStrategy = "COST_MARGIN_ONLY"
	// StrategyMarginTarget applies margin and floors the result against the
	// product's minimum price per piece.
	StrategyMarginTarget PricingStrategy = "MARGIN_TARGET"
)

// Valid checks if the pricing strategy is valid.
func (s PricingStrategy) Valid() bool {
	switch s {
	case StrategyCostMarkupMargin, StrategyCostMarginOnly, StrategyMarginTarget:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for PricingStrategy.
func (s *PricingStrategy) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = PricingStrategy(v)
	case []byte:
		*s = PricingStrategy(string(v))
	default:
		return fmt.Errorf("cannot scan %T into PricingStrategy", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for PricingStrategy.
func (s PricingStrategy) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid PricingStrategy: %s", s)
	}
	return string(s), nil
}

// ConfigGlobal is the system-wide pricing configuration singleton (id = 1).
// It supplies the fallback for every product-level optional override.
type ConfigGlobal struct {
	ID uint `gorm:"primaryKey" json:"id"`

	MarginDefault     float64          `gorm:"type:numeric(5,4);not null;default:0.30" json:"margin_default"`
	MarkupOperational float64          `gorm:"type:numeric(5,4);not null;default:0.10" json:"markup_operational"`
	RoundingStep      float64          `gorm:"type:numeric(8,4);not null;default:0.05" json:"rounding_step"`
	RoundingStrategy  RoundingStrategy `gorm:"type:varchar(20);not null;default:'END_ONLY'" json:"rounding_strategy"`
	PricingStrategy   PricingStrategy  `gorm:"type:varchar(30);not null;default:'COST_MARKUP_MARGIN'" json:"pricing_strategy"`
	LossFactor        float64          `gorm:"type:numeric(6,4);not null;default:0" json:"loss_factor"`
	PrintingHourCost  float64          `gorm:"type:numeric(12,4);not null;default:30" json:"printing_hour_cost"`
	VATPercent        float64          `gorm:"type:numeric(5,4);not null;default:0.23" json:"vat_percent"`
	SetupMinutes      float64          `gorm:"type:numeric(8,2);not null;default:15" json:"setup_minutes"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ConfigGlobal) TableName() string {
	return "config_global"
}

package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarginScope represents the applicability level of a margin rule.
type MarginScope string

const (
	ScopeGlobal   MarginScope = "GLOBAL"
	ScopeCategory MarginScope = "CATEGORY"
	ScopeProduct  MarginScope = "PRODUCT"
)

// Valid checks if the margin scope is valid.
func (s MarginScope) Valid() bool {
	switch s {
	case ScopeGlobal, ScopeCategory, ScopeProduct:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for MarginScope.
func (s *MarginScope) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = MarginScope(v)
	case []byte:
		*s = MarginScope(string(v))
	default:
		return fmt.Errorf("cannot scan %T into MarginScope", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for MarginScope.
func (s MarginScope) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid MarginScope: %s", s)
	}
	return string(s), nil
}

// MarginRule is a static margin rule. Scope specificity follows
// PRODUCT > CATEGORY > GLOBAL; within a scope the most recently created
// valid rule wins.
type MarginRule struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	Scope      MarginScope `gorm:"type:varchar(20);not null;index" json:"scope"`
	CategoryID *uint       `gorm:"index" json:"category_id,omitempty"`
	ProductID  *uint       `gorm:"index" json:"product_id,omitempty"`

	// Margin is a fraction of price (0.30 = 30%).
	Margin    float64    `gorm:"type:numeric(5,4);not null" json:"margin"`
	ValidFrom *time.Time `json:"valid_from,omitempty"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`
	IsActive  *bool      `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BeforeCreate ensures UUID is set
func (r *MarginRule) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (MarginRule) TableName() string {
	return "margin_rules"
}

// MarginRuleDynamic is a conditional margin adjustment. Candidates of every
// applicable scope are walked in priority order; stackable rules accumulate,
// the first non-stackable match replaces the accumulator and stops resolution.
type MarginRuleDynamic struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	Scope      MarginScope `gorm:"type:varchar(20);not null;index" json:"scope"`
	CategoryID *uint       `gorm:"index" json:"category_id,omitempty"`
	ProductID  *uint       `gorm:"index" json:"product_id,omitempty"`

	MinSubtotal *float64 `gorm:"type:numeric(12,4)" json:"min_subtotal,omitempty"`
	MinQuantity *int     `json:"min_quantity,omitempty"`

	// AdjustPercent is a signed fractional adjustment (-0.05 = five points off the margin).
	AdjustPercent float64  `gorm:"type:numeric(5,4);not null" json:"adjust_percent"`
	MaxAdjust     *float64 `gorm:"type:numeric(5,4)" json:"max_adjust,omitempty"`
	Priority      int      `gorm:"not null;default:100;index" json:"priority"`
	Stackable     *bool    `gorm:"not null;default:false" json:"stackable"`

	ValidFrom *time.Time `json:"valid_from,omitempty"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`
	IsActive  *bool      `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BeforeCreate ensures UUID is set
func (r *MarginRuleDynamic) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (MarginRuleDynamic) TableName() string {
	return "margin_rules_dynamic"
}

// MarginRuleFilter represents filter criteria for static margin rule queries
type MarginRuleFilter struct {
	ID         *uint        `json:"id,omitempty"`
	UUID       *uuid.UUID   `json:"uuid,omitempty"`
	Scope      *MarginScope `json:"scope,omitempty"`
	CategoryID *uint        `json:"category_id,omitempty"`
	ProductID  *uint        `json:"product_id,omitempty"`
	IsActive   *bool        `json:"is_active,omitempty"`
}

// MarginRuleDynamicFilter represents filter criteria for dynamic margin rule queries
type MarginRuleDynamicFilter struct {
	ID         *uint        `json:"id,omitempty"`
	UUID       *uuid.UUID   `json:"uuid,omitempty"`
	Scope      *MarginScope `json:"scope,omitempty"`
	CategoryID *uint        `json:"category_id,omitempty"`
	ProductID  *uint        `json:"product_id,omitempty"`
	IsActive   *bool        `json:"is_active,omitempty"`
	Stackable  *bool        `json:"stackable,omitempty"`
}

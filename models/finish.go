package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FinishCalcType represents how a finish quantity basis is computed.
type FinishCalcType string

const (
	// FinishPerUnit bills per produced unit.
	FinishPerUnit FinishCalcType = "PER_UNIT"
	// FinishPerM2 bills per square meter of finished area.
	FinishPerM2 FinishCalcType = "PER_M2"
	// FinishPerLot bills once per run regardless of quantity.
	FinishPerLot FinishCalcType = "PER_LOT"
	// FinishPerHour bills per hour of labor.
	FinishPerHour FinishCalcType = "PER_HOUR"
)

// Valid checks if the calc type is valid.
func (t FinishCalcType) Valid() bool {
	switch t {
	case FinishPerUnit, FinishPerM2, FinishPerLot, FinishPerHour:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for FinishCalcType.
func (t *FinishCalcType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*t = FinishCalcType(v)
	case []byte:
		*t = FinishCalcType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into FinishCalcType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for FinishCalcType.
func (t FinishCalcType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid FinishCalcType: %s", t)
	}
	return string(t), nil
}

// Finish represents a finishing operation (lamination, cutting, binding, ...).
type Finish struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	Name     string         `gorm:"type:varchar(255);not null;index" json:"name"`
	Category string         `gorm:"type:varchar(100);not null;default:'general'" json:"category"`
	CalcType FinishCalcType `gorm:"type:varchar(20);not null;default:'PER_UNIT'" json:"calc_type"`
	BaseCost float64        `gorm:"type:numeric(12,4);not null" json:"base_cost"`
	MinFee   *float64       `gorm:"type:numeric(12,4)" json:"min_fee,omitempty"`
	// AreaStepM2 bands billed area upward to the nearest multiple for PER_M2 finishes.
	AreaStepM2 *float64 `gorm:"type:numeric(8,4)" json:"area_step_m2,omitempty"`
	Unit       string   `gorm:"type:varchar(10);not null;default:'piece'" json:"unit"`
	IsActive   *bool    `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BeforeCreate ensures UUID is set
func (f *Finish) BeforeCreate(tx *gorm.DB) error {
	if f.UUID == uuid.Nil {
		f.UUID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (Finish) TableName() string {
	return "finishes"
}

// FinishFilter represents filter criteria for finish queries
type FinishFilter struct {
	ID       *uint           `json:"id,omitempty"`
	UUID     *uuid.UUID      `json:"uuid,omitempty"`
	Name     *string         `json:"name,omitempty"`
	Category *string         `json:"category,omitempty"`
	CalcType *FinishCalcType `json:"calc_type,omitempty"`
	IsActive *bool           `json:"is_active,omitempty"`
}

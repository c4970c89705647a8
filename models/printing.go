package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SetupMode represents how a printing setup fee is charged.
type SetupMode string

const (
	// SetupModeFlat charges one fixed setup fee per run.
	SetupModeFlat SetupMode = "FLAT"
	// SetupModeTimeXRate charges setup minutes multiplied by the hourly printing cost.
	SetupModeTimeXRate SetupMode = "TIME_X_RATE"
)

// Valid checks if the setup mode is valid.
func (s SetupMode) Valid() bool {
	switch s {
	case SetupModeFlat, SetupModeTimeXRate:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for SetupMode.
func (s *SetupMode) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = SetupMode(v)
	case []byte:
		*s = SetupMode(string(v))
	default:
		return fmt.Errorf("cannot scan %T into SetupMode", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for SetupMode.
func (s SetupMode) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid SetupMode: %s", s)
	}
	return string(s), nil
}

// Printing represents a printing configuration (technology + run economics).
type Printing struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	Name       string `gorm:"type:varchar(255);not null;index" json:"name"`
	Technology string `gorm:"type:varchar(50);not null" json:"technology"`

	UnitPrice    float64   `gorm:"type:numeric(12,4);not null" json:"unit_price"`
	SetupMode    SetupMode `gorm:"type:varchar(20);not null;default:'FLAT'" json:"setup_mode"`
	SetupMinutes *float64  `gorm:"type:numeric(8,2)" json:"setup_minutes,omitempty"`
	SetupFlatFee *float64  `gorm:"type:numeric(12,4)" json:"setup_flat_fee,omitempty"`
	MinFee       *float64  `gorm:"type:numeric(12,4)" json:"min_fee,omitempty"`
	LossFactor   float64   `gorm:"type:numeric(6,4);not null;default:0" json:"loss_factor"`
	// Yield is the number of produced units per consumable (plate, cartridge, ...).
	Yield    *int  `json:"yield,omitempty"`
	Sides    int   `gorm:"not null;default:1" json:"sides"`
	Colors   *int  `json:"colors,omitempty"`
	IsActive *bool `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BeforeCreate ensures UUID is set
func (p *Printing) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (Printing) TableName() string {
	return "printings"
}

// PrintingFilter represents filter criteria for printing queries
type PrintingFilter struct {
	ID         *uint      `json:"id,omitempty"`
	UUID       *uuid.UUID `json:"uuid,omitempty"`
	Name       *string    `json:"name,omitempty"`
	Technology *string    `json:"technology,omitempty"`
	IsActive   *bool      `json:"is_active,omitempty"`
}

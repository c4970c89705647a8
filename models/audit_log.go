package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit action constants
const (
	AuditActionQuoteCreated     = "quote_created"
	AuditActionQuotePreviewed   = "quote_previewed"
	AuditActionCatalogChanged   = "catalog_changed"
	AuditActionMarginRuleChange = "margin_rule_changed"
	AuditActionConfigChanged    = "config_changed"
	AuditActionOverrideChanged  = "price_override_changed"
	AuditActionExportGenerated  = "export_generated"
)

// AuditLog records administrative and quoting actions for traceability.
type AuditLog struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	CustomerID  *uint   `gorm:"index" json:"customer_id,omitempty"`
	Action      string  `gorm:"type:varchar(50);not null;index" json:"action"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	Success     *bool   `gorm:"not null;default:true" json:"success"`
	ErrorMsg    *string `gorm:"type:text" json:"error_message,omitempty"`

	IPAddress *string         `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent *string         `gorm:"type:text" json:"user_agent,omitempty"`
	Metadata  json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

// BeforeCreate ensures UUID is set
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID         *uint   `json:"id,omitempty"`
	CustomerID *uint   `json:"customer_id,omitempty"`
	Action     *string `json:"action,omitempty"`
	Success    *bool   `json:"success,omitempty"`
}

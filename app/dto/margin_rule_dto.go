package dto

// CreateMarginRuleRequest registers a static margin rule
type CreateMarginRuleRequest struct {
	Scope      string   `json:"scope" validate:"required,oneof=GLOBAL CATEGORY PRODUCT"`
	CategoryID *uint    `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	ProductID  *uint    `json:"product_id,omitempty" validate:"omitempty,gt=0"`
	Margin     float64  `json:"margin" validate:"gte=0,lt=1"`
	ValidFrom  *string  `json:"valid_from,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ValidTo    *string  `json:"valid_to,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// CreateDynamicMarginRuleRequest registers a conditional margin adjustment
type CreateDynamicMarginRuleRequest struct {
	Scope         string   `json:"scope" validate:"required,oneof=GLOBAL CATEGORY PRODUCT"`
	CategoryID    *uint    `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	ProductID     *uint    `json:"product_id,omitempty" validate:"omitempty,gt=0"`
	MinSubtotal   *float64 `json:"min_subtotal,omitempty" validate:"omitempty,gt=0"`
	MinQuantity   *int     `json:"min_quantity,omitempty" validate:"omitempty,gt=0"`
	AdjustPercent float64  `json:"adjust_percent" validate:"required,gt=-1,lt=1"`
	MaxAdjust     *float64 `json:"max_adjust,omitempty" validate:"omitempty,gt=0,lt=1"`
	Priority      int      `json:"priority" validate:"gte=0"`
	Stackable     bool     `json:"stackable"`
	ValidFrom     *string  `json:"valid_from,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ValidTo       *string  `json:"valid_to,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// MarginRuleDTO describes one static margin rule in responses
type MarginRuleDTO struct {
	ID         uint    `json:"id"`
	UUID       string  `json:"uuid"`
	Scope      string  `json:"scope"`
	CategoryID *uint   `json:"category_id,omitempty"`
	ProductID  *uint   `json:"product_id,omitempty"`
	Margin     float64 `json:"margin"`
	ValidFrom  *string `json:"valid_from,omitempty"`
	ValidTo    *string `json:"valid_to,omitempty"`
	IsActive   bool    `json:"is_active"`
	CreatedAt  string  `json:"created_at"`
}

// DynamicMarginRuleDTO describes one dynamic margin rule in responses
type DynamicMarginRuleDTO struct {
	ID            uint     `json:"id"`
	UUID          string   `json:"uuid"`
	Scope         string   `json:"scope"`
	CategoryID    *uint    `json:"category_id,omitempty"`
	ProductID     *uint    `json:"product_id,omitempty"`
	MinSubtotal   *float64 `json:"min_subtotal,omitempty"`
	MinQuantity   *int     `json:"min_quantity,omitempty"`
	AdjustPercent float64  `json:"adjust_percent"`
	MaxAdjust     *float64 `json:"max_adjust,omitempty"`
	Priority      int      `json:"priority"`
	Stackable     bool     `json:"stackable"`
	IsActive      bool     `json:"is_active"`
	CreatedAt     string   `json:"created_at"`
}

// MarginRuleResponse wraps a single static margin rule
type MarginRuleResponse struct {
	Message string        `json:"message"`
	Rule    MarginRuleDTO `json:"rule"`
}

// DynamicMarginRuleResponse wraps a single dynamic margin rule
type DynamicMarginRuleResponse struct {
	Message string               `json:"message"`
	Rule    DynamicMarginRuleDTO `json:"rule"`
}

// ListMarginRulesResponse lists both rule families
type ListMarginRulesResponse struct {
	Message      string                 `json:"message"`
	StaticRules  []MarginRuleDTO        `json:"static_rules"`
	DynamicRules []DynamicMarginRuleDTO `json:"dynamic_rules"`
}

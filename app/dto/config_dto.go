package dto

// UpdateConfigRequest changes the global pricing configuration; nil fields stay untouched
type UpdateConfigRequest struct {
	MarginDefault     *float64 `json:"margin_default,omitempty" validate:"omitempty,gte=0,lt=1"`
	MarkupOperational *float64 `json:"markup_operational,omitempty" validate:"omitempty,gte=0"`
	RoundingStep      *float64 `json:"rounding_step,omitempty" validate:"omitempty,gte=0"`
	RoundingStrategy  *string  `json:"rounding_strategy,omitempty" validate:"omitempty,oneof=END_ONLY PER_STEP"`
	PricingStrategy   *string  `json:"pricing_strategy,omitempty" validate:"omitempty,oneof=COST_MARKUP_MARGIN COST_MARGIN_ONLY MARGIN_TARGET"`
	LossFactor        *float64 `json:"loss_factor,omitempty" validate:"omitempty,gte=0,lt=1"`
	PrintingHourCost  *float64 `json:"printing_hour_cost,omitempty" validate:"omitempty,gt=0"`
	VATPercent        *float64 `json:"vat_percent,omitempty" validate:"omitempty,gte=0,lt=1"`
	SetupMinutes      *float64 `json:"setup_minutes,omitempty" validate:"omitempty,gt=0"`
}

// ConfigDTO describes the global configuration in responses
type ConfigDTO struct {
	MarginDefault     float64 `json:"margin_default"`
	MarkupOperational float64 `json:"markup_operational"`
	RoundingStep      float64 `json:"rounding_step"`
	RoundingStrategy  string  `json:"rounding_strategy"`
	PricingStrategy   string  `json:"pricing_strategy"`
	LossFactor        float64 `json:"loss_factor"`
	PrintingHourCost  float64 `json:"printing_hour_cost"`
	VATPercent        float64 `json:"vat_percent"`
	SetupMinutes      float64 `json:"setup_minutes"`
	UpdatedAt         string  `json:"updated_at"`
}

// ConfigResponse wraps the global configuration
type ConfigResponse struct {
	Message string    `json:"message"`
	Config  ConfigDTO `json:"config"`
}

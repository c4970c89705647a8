package dto

// SetPriceOverrideRequest records a customer-specific unit cost for a
// material, printing configuration, or finish. The previous current row
// for the same pair is superseded, not deleted.
type SetPriceOverrideRequest struct {
	Kind       string   `json:"kind" validate:"required,oneof=material printing finish"`
	CustomerID uint     `json:"customer_id" validate:"required,gt=0"`
	EntityID   uint     `json:"entity_id" validate:"required,gt=0"`
	UnitCost   float64  `json:"unit_cost" validate:"required,gt=0"`
	Priority   *int     `json:"priority,omitempty" validate:"omitempty,gte=0"`
	ValidFrom  *string  `json:"valid_from,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ValidTo    *string  `json:"valid_to,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// PriceOverrideDTO describes one override row in responses
type PriceOverrideDTO struct {
	ID         uint    `json:"id"`
	UUID       string  `json:"uuid"`
	Kind       string  `json:"kind"`
	CustomerID uint    `json:"customer_id"`
	EntityID   uint    `json:"entity_id"`
	UnitCost   float64 `json:"unit_cost"`
	Priority   int     `json:"priority"`
	ValidFrom  *string `json:"valid_from,omitempty"`
	ValidTo    *string `json:"valid_to,omitempty"`
	IsCurrent  bool    `json:"is_current"`
	CreatedAt  string  `json:"created_at"`
}

// PriceOverrideResponse wraps a single override
type PriceOverrideResponse struct {
	Message  string           `json:"message"`
	Override PriceOverrideDTO `json:"override"`
}

// ListPriceOverridesResponse lists a customer's current overrides of one kind
type ListPriceOverridesResponse struct {
	Message   string             `json:"message"`
	Overrides []PriceOverrideDTO `json:"overrides"`
}

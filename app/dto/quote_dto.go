package dto

// QuoteRequest asks for a price of one product at one quantity.
// CustomerUUID is optional; when present, that customer's price overrides
// participate in unit cost resolution.
type QuoteRequest struct {
	ProductID    uint     `json:"product_id" validate:"required,gt=0"`
	Quantity     int      `json:"quantity" validate:"required,gt=0"`
	CustomerUUID *string  `json:"customer_uuid,omitempty" validate:"omitempty,uuid4"`
	PrintingIDs  []uint   `json:"printing_ids,omitempty" validate:"omitempty,dive,gt=0"`
	BilledAreaM2 *float64 `json:"billed_area_m2,omitempty" validate:"omitempty,gt=0"`
	LaborHours   *float64 `json:"labor_hours,omitempty" validate:"omitempty,gt=0"`
}

// QuoteItemDTO is one itemized cost line in a quote response
type QuoteItemDTO struct {
	ItemType  string  `json:"item_type"`
	RefID     uint    `json:"ref_id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitCost  float64 `json:"unit_cost"`
	TotalCost float64 `json:"total_cost"`
}

// QuoteResponse carries the full pricing breakdown of one evaluation
type QuoteResponse struct {
	QuoteUUID string `json:"quote_uuid,omitempty"`
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`

	CostMat    float64 `json:"cost_mat"`
	CostPrint  float64 `json:"cost_print"`
	CostFinish float64 `json:"cost_finish"`
	Subtotal   float64 `json:"subtotal"`

	Markup        float64  `json:"markup"`
	Margin        float64  `json:"margin"`
	DynamicAdjust float64  `json:"dynamic_adjust"`
	RoundingStep  *float64 `json:"rounding_step,omitempty"`

	FinalPrice    float64 `json:"final_price"`
	PricePerPiece float64 `json:"price_per_piece"`
	VATPercent    float64 `json:"vat_percent"`
	TotalWithVAT  float64 `json:"total_with_vat"`
	Currency      string  `json:"currency"`

	EvaluatedAt string         `json:"evaluated_at"`
	Items       []QuoteItemDTO `json:"items"`
}

// GetQuoteResponse wraps a persisted quote lookup
type GetQuoteResponse struct {
	Message string        `json:"message"`
	Quote   QuoteResponse `json:"quote"`
}

// ListQuotesResponse is a paginated quote listing
type ListQuotesResponse struct {
	Message string          `json:"message"`
	Quotes  []QuoteResponse `json:"quotes"`
	Total   int             `json:"total"`
}

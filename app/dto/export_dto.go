package dto

// ExportPriceListRequest asks for an XLSX price list. When CustomerID is
// set, the customer's current overrides replace catalog base costs.
type ExportPriceListRequest struct {
	CustomerID *uint `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
}

// ExportPriceListResponse carries the generated workbook
type ExportPriceListResponse struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
}

package dto

// CreateCategoryRequest registers a product category
type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	ParentID *uint  `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
}

// CategoryDTO describes one category in responses
type CategoryDTO struct {
	ID       uint   `json:"id"`
	UUID     string `json:"uuid"`
	Name     string `json:"name"`
	ParentID *uint  `json:"parent_id,omitempty"`
	IsActive bool   `json:"is_active"`
}

// CategoryResponse wraps a single category
type CategoryResponse struct {
	Message  string      `json:"message"`
	Category CategoryDTO `json:"category"`
}

// ListCategoriesResponse lists active categories
type ListCategoriesResponse struct {
	Message    string        `json:"message"`
	Categories []CategoryDTO `json:"categories"`
}

// CreateMaterialRequest registers a new raw material
type CreateMaterialRequest struct {
	Name         string   `json:"name" validate:"required,min=1,max=255"`
	UnitCost     float64  `json:"unit_cost" validate:"required,gt=0"`
	SupplierCost *float64 `json:"supplier_cost,omitempty" validate:"omitempty,gt=0"`
	SupplierID   *uint    `json:"supplier_id,omitempty" validate:"omitempty,gt=0"`
	LossFactor   float64  `json:"loss_factor" validate:"gte=0,lt=1"`
	Unit         string   `json:"unit" validate:"required,oneof=piece m2 lot hour sheet"`
}

// UpdateMaterialRequest changes an existing material; nil fields stay untouched
type UpdateMaterialRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	UnitCost     *float64 `json:"unit_cost,omitempty" validate:"omitempty,gt=0"`
	SupplierCost *float64 `json:"supplier_cost,omitempty" validate:"omitempty,gt=0"`
	SupplierID   *uint    `json:"supplier_id,omitempty" validate:"omitempty,gt=0"`
	LossFactor   *float64 `json:"loss_factor,omitempty" validate:"omitempty,gte=0,lt=1"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

// CreateMaterialVariantRequest registers a purchasable pack of a material
type CreateMaterialVariantRequest struct {
	Name          string   `json:"name" validate:"required,min=1,max=255"`
	PackPrice     float64  `json:"pack_price" validate:"required,gt=0"`
	SheetsPerPack int      `json:"sheets_per_pack" validate:"required,gt=0"`
	UnitPrice     *float64 `json:"unit_price,omitempty" validate:"omitempty,gt=0"`
	MakeCurrent   bool     `json:"make_current"`
}

// MaterialVariantDTO describes one variant in responses
type MaterialVariantDTO struct {
	ID              uint     `json:"id"`
	Name            string   `json:"name"`
	PackPrice       float64  `json:"pack_price"`
	SheetsPerPack   int      `json:"sheets_per_pack"`
	UnitPrice       *float64 `json:"unit_price,omitempty"`
	DerivedUnitCost float64  `json:"derived_unit_cost"`
	IsCurrent       bool     `json:"is_current"`
}

// MaterialDTO describes one material in responses
type MaterialDTO struct {
	ID         uint                 `json:"id"`
	UUID       string               `json:"uuid"`
	Name       string               `json:"name"`
	UnitCost   float64              `json:"unit_cost"`
	LossFactor float64              `json:"loss_factor"`
	Unit       string               `json:"unit"`
	IsActive   bool                 `json:"is_active"`
	Variants   []MaterialVariantDTO `json:"variants,omitempty"`
}

// MaterialResponse wraps a single material
type MaterialResponse struct {
	Message  string      `json:"message"`
	Material MaterialDTO `json:"material"`
}

// ListMaterialsResponse lists active materials
type ListMaterialsResponse struct {
	Message   string        `json:"message"`
	Materials []MaterialDTO `json:"materials"`
}

// CreatePrintingRequest registers a printing configuration
type CreatePrintingRequest struct {
	Name         string   `json:"name" validate:"required,min=1,max=255"`
	Technology   string   `json:"technology" validate:"required,min=1,max=50"`
	UnitPrice    float64  `json:"unit_price" validate:"required,gt=0"`
	SetupMode    string   `json:"setup_mode" validate:"required,oneof=FLAT TIME_X_RATE"`
	SetupMinutes *float64 `json:"setup_minutes,omitempty" validate:"omitempty,gt=0"`
	SetupFlatFee *float64 `json:"setup_flat_fee,omitempty" validate:"omitempty,gte=0"`
	MinFee       *float64 `json:"min_fee,omitempty" validate:"omitempty,gt=0"`
	LossFactor   float64  `json:"loss_factor" validate:"gte=0,lt=1"`
	Yield        *int     `json:"yield,omitempty" validate:"omitempty,gt=0"`
	Sides        int      `json:"sides" validate:"required,oneof=1 2"`
	Colors       *int     `json:"colors,omitempty" validate:"omitempty,gte=1,lte=8"`
}

// PrintingDTO describes one printing configuration in responses
type PrintingDTO struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Technology   string   `json:"technology"`
	UnitPrice    float64  `json:"unit_price"`
	SetupMode    string   `json:"setup_mode"`
	SetupMinutes *float64 `json:"setup_minutes,omitempty"`
	SetupFlatFee *float64 `json:"setup_flat_fee,omitempty"`
	MinFee       *float64 `json:"min_fee,omitempty"`
	LossFactor   float64  `json:"loss_factor"`
	Sides        int      `json:"sides"`
	IsActive     bool     `json:"is_active"`
}

// PrintingResponse wraps a single printing configuration
type PrintingResponse struct {
	Message  string      `json:"message"`
	Printing PrintingDTO `json:"printing"`
}

// ListPrintingsResponse lists active printing configurations
type ListPrintingsResponse struct {
	Message   string        `json:"message"`
	Printings []PrintingDTO `json:"printings"`
}

// CreateFinishRequest registers a finish operation
type CreateFinishRequest struct {
	Name       string   `json:"name" validate:"required,min=1,max=255"`
	Category   string   `json:"category" validate:"required,min=1,max=100"`
	CalcType   string   `json:"calc_type" validate:"required,oneof=PER_UNIT PER_M2 PER_LOT PER_HOUR"`
	BaseCost   float64  `json:"base_cost" validate:"required,gt=0"`
	MinFee     *float64 `json:"min_fee,omitempty" validate:"omitempty,gt=0"`
	AreaStepM2 *float64 `json:"area_step_m2,omitempty" validate:"omitempty,gt=0"`
	Unit       string   `json:"unit" validate:"required,oneof=piece m2 lot hour sheet"`
}

// FinishDTO describes one finish in responses
type FinishDTO struct {
	ID         uint     `json:"id"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	CalcType   string   `json:"calc_type"`
	BaseCost   float64  `json:"base_cost"`
	MinFee     *float64 `json:"min_fee,omitempty"`
	AreaStepM2 *float64 `json:"area_step_m2,omitempty"`
	Unit       string   `json:"unit"`
	IsActive   bool     `json:"is_active"`
}

// FinishResponse wraps a single finish
type FinishResponse struct {
	Message string    `json:"message"`
	Finish  FinishDTO `json:"finish"`
}

// ListFinishesResponse lists active finishes
type ListFinishesResponse struct {
	Message  string      `json:"message"`
	Finishes []FinishDTO `json:"finishes"`
}

// ProductMaterialLineRequest binds one material to a product's bill of materials
type ProductMaterialLineRequest struct {
	MaterialID  uint     `json:"material_id" validate:"required,gt=0"`
	VariantID   *uint    `json:"variant_id,omitempty" validate:"omitempty,gt=0"`
	QtyPerUnit  float64  `json:"qty_per_unit" validate:"required,gt=0"`
	WasteFactor *float64 `json:"waste_factor,omitempty" validate:"omitempty,gte=0,lt=1"`
}

// ProductFinishLineRequest binds one finish to a product's bill of materials
type ProductFinishLineRequest struct {
	FinishID     uint     `json:"finish_id" validate:"required,gt=0"`
	CalcType     *string  `json:"calc_type,omitempty" validate:"omitempty,oneof=PER_UNIT PER_M2 PER_LOT PER_HOUR"`
	QtyPerUnit   *float64 `json:"qty_per_unit,omitempty" validate:"omitempty,gt=0"`
	CostOverride *float64 `json:"cost_override,omitempty" validate:"omitempty,gt=0"`
}

// CreateProductRequest registers a sellable product with its bill of materials
type CreateProductRequest struct {
	Name              string                       `json:"name" validate:"required,min=1,max=255"`
	CategoryID        uint                         `json:"category_id" validate:"required,gt=0"`
	DefaultPrintingID *uint                        `json:"default_printing_id,omitempty" validate:"omitempty,gt=0"`
	MarginDefault     *float64                     `json:"margin_default,omitempty" validate:"omitempty,gte=0,lt=1"`
	MarkupDefault     *float64                     `json:"markup_default,omitempty" validate:"omitempty,gte=0"`
	RoundingStep      *float64                     `json:"rounding_step,omitempty" validate:"omitempty,gt=0"`
	RoundingStrategy  *string                      `json:"rounding_strategy,omitempty" validate:"omitempty,oneof=END_ONLY PER_STEP"`
	PricingStrategy   *string                      `json:"pricing_strategy,omitempty" validate:"omitempty,oneof=COST_MARKUP_MARGIN COST_MARGIN_ONLY MARGIN_TARGET"`
	MinPricePerPiece  *float64                     `json:"min_price_per_piece,omitempty" validate:"omitempty,gt=0"`
	Materials         []ProductMaterialLineRequest `json:"materials,omitempty" validate:"omitempty,dive"`
	Finishes          []ProductFinishLineRequest   `json:"finishes,omitempty" validate:"omitempty,dive"`
}

// ProductDTO describes one product in responses
type ProductDTO struct {
	ID               uint     `json:"id"`
	UUID             string   `json:"uuid"`
	Name             string   `json:"name"`
	CategoryID       uint     `json:"category_id"`
	CategoryName     string   `json:"category_name,omitempty"`
	MarginDefault    *float64 `json:"margin_default,omitempty"`
	MarkupDefault    *float64 `json:"markup_default,omitempty"`
	PricingStrategy  *string  `json:"pricing_strategy,omitempty"`
	MinPricePerPiece *float64 `json:"min_price_per_piece,omitempty"`
	IsActive         bool     `json:"is_active"`
	MaterialLines    int      `json:"material_lines"`
	FinishLines      int      `json:"finish_lines"`
}

// ProductResponse wraps a single product
type ProductResponse struct {
	Message string     `json:"message"`
	Product ProductDTO `json:"product"`
}

// ListProductsResponse is a paginated product listing
type ListProductsResponse struct {
	Message  string       `json:"message"`
	Products []ProductDTO `json:"products"`
}

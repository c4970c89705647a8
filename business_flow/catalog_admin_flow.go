package businessflow

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/smuelmfs/mp-pt-sub003/app/dto"
	"github.com/smuelmfs/mp-pt-sub003/models"
	"github.com/smuelmfs/mp-pt-sub003/repository"
	"github.com/smuelmfs/mp-pt-sub003/utils"
)

// CatalogAdminFlow defines the catalog administration operations.
type CatalogAdminFlow interface {
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest, metadata *ClientMetadata) (*dto.CategoryResponse, error)
	ListCategories(ctx context.Context) (*dto.ListCategoriesResponse, error)

	CreateMaterial(ctx context.Context, req *dto.CreateMaterialRequest, metadata *ClientMetadata) (*dto.MaterialResponse, error)
	UpdateMaterial(ctx context.Context, materialID uint, req *dto.UpdateMaterialRequest, metadata *ClientMetadata) (*dto.MaterialResponse, error)
	AddMaterialVariant(ctx context.Context, materialID uint, req *dto.CreateMaterialVariantRequest, metadata *ClientMetadata) (*dto.MaterialResponse, error)
	ListMaterials(ctx context.Context) (*dto.ListMaterialsResponse, error)

	CreatePrinting(ctx context.Context, req *dto.CreatePrintingRequest, metadata *ClientMetadata) (*dto.PrintingResponse, error)
	ListPrintings(ctx context.Context) (*dto.ListPrintingsResponse, error)

	CreateFinish(ctx context.Context, req *dto.CreateFinishRequest, metadata *ClientMetadata) (*dto.FinishResponse, error)
	ListFinishes(ctx context.Context) (*dto.ListFinishesResponse, error)

	CreateProduct(ctx context.Context, req *dto.CreateProductRequest, metadata *ClientMetadata) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, productID uint) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, categoryID *uint, page, pageSize int) (*dto.ListProductsResponse, error)
}

// CatalogAdminFlowImpl implements CatalogAdminFlow.
type CatalogAdminFlowImpl struct {
	materialRepo repository.MaterialRepository
	printingRepo repository.PrintingRepository
	finishRepo   repository.FinishRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	auditRepo    repository.AuditLogRepository

	db *gorm.DB
}

// NewCatalogAdminFlow creates a new catalog administration flow.
func NewCatalogAdminFlow(
	materialRepo repository.MaterialRepository,
	printingRepo repository.PrintingRepository,
	finishRepo repository.FinishRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) CatalogAdminFlow {
	return &CatalogAdminFlowImpl{
		materialRepo: materialRepo,
		printingRepo: printingRepo,
		finishRepo:   finishRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

// CreateCategory registers a product category, optionally under a parent.
func (f *CatalogAdminFlowImpl) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest, metadata *ClientMetadata) (*dto.CategoryResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	if req.ParentID != nil {
		parent, err := f.categoryRepo.ByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, NewBusinessErrorf("CATEGORY_NOT_FOUND", "parent category %d not found", ErrCategoryNotFound, *req.ParentID)
		}
	}

	existing, err := f.categoryRepo.ByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewBusinessErrorf("CATEGORY_NAME_TAKEN", "category %q already exists", nil, req.Name)
	}

	category := &models.Category{
		Name:     req.Name,
		ParentID: req.ParentID,
		IsActive: utils.ToPtr(true),
	}

	if err := f.categoryRepo.Save(ctx, category); err != nil {
		return nil, NewBusinessError("CATEGORY_SAVE_FAILED", "failed to save category", err)
	}

	f.audit(ctx, metadata, fmt.Sprintf("category %d (%s) created", category.ID, category.Name))

	return &dto.CategoryResponse{
		Message:  "Category created successfully",
		Category: toCategoryDTO(category),
	}, nil
}

// ListCategories retrieves all active categories.
func (f *CatalogAdminFlowImpl) ListCategories(ctx context.Context) (*dto.ListCategoriesResponse, error) {
	categories, err := f.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CategoryDTO, 0, len(categories))
	for _, cat := range categories {
		items = append(items, toCategoryDTO(cat))
	}

	return &dto.ListCategoriesResponse{
		Message:    "Categories retrieved successfully",
		Categories: items,
	}, nil
}

// CreateMaterial registers a new raw material.
func (f *CatalogAdminFlowImpl) CreateMaterial(ctx context.Context, req *dto.CreateMaterialRequest, metadata *ClientMetadata) (*dto.MaterialResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	if req.SupplierID != nil {
		supplier, err := f.supplierRepo.ByID(ctx, *req.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, NewBusinessErrorf("SUPPLIER_NOT_FOUND", "supplier %d not found", nil, *req.SupplierID)
		}
	}

	material := &models.Material{
		Name:         req.Name,
		UnitCost:     req.UnitCost,
		SupplierCost: req.SupplierCost,
		SupplierID:   req.SupplierID,
		LossFactor:   req.LossFactor,
		Unit:         models.UnitOfMeasure(req.Unit),
		IsActive:     utils.ToPtr(true),
	}

	if err := f.materialRepo.Save(ctx, material); err != nil {
		return nil, NewBusinessError("MATERIAL_SAVE_FAILED", "failed to save material", err)
	}

	f.audit(ctx, metadata, fmt.Sprintf("material %d (%s) created", material.ID, material.Name))

	return &dto.MaterialResponse{
		Message:  "Material created successfully",
		Material: toMaterialDTO(material),
	}, nil
}

// UpdateMaterial changes an existing material. Nil request fields stay untouched.
func (f *CatalogAdminFlowImpl) UpdateMaterial(ctx context.Context, materialID uint, req *dto.UpdateMaterialRequest, metadata *ClientMetadata) (*dto.MaterialResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	material, err := f.materialRepo.ByIDWithVariants(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, NewBusinessErrorf("MATERIAL_NOT_FOUND", "material %d not found", ErrMaterialNotFound, materialID)
	}

	if req.SupplierID != nil {
		supplier, err := f.supplierRepo.ByID(ctx, *req.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, NewBusinessErrorf("SUPPLIER_NOT_FOUND", "supplier %d not found", nil, *req.SupplierID)
		}
		material.SupplierID = req.SupplierID
	}

	if req.Name != nil {
		material.Name = *req.Name
	}
	if req.UnitCost != nil {
		material.UnitCost = *req.UnitCost
	}
	if req.SupplierCost != nil {
		material.SupplierCost = req.SupplierCost
	}
	if req.LossFactor != nil {
		material.LossFactor = *req.LossFactor
	}
	if req.IsActive != nil {
		material.IsActive = req.IsActive
	}

	if err := f.materialRepo.Update(ctx, material); err != nil {
		return nil, NewBusinessError("MATERIAL_SAVE_FAILED", "failed to update material", err)
	}

	f.audit(ctx, metadata, fmt.Sprintf("material %d (%s) updated", material.ID, material.Name))

	return &dto.MaterialResponse{
		Message:  "Material updated successfully",
		Material: toMaterialDTO(material),
	}, nil
}

// AddMaterialVariant registers a purchasable pack of a material and
// optionally promotes it to the current variant.
func (f *CatalogAdminFlowImpl) AddMaterialVariant(ctx context.Context, materialID uint, req *dto.CreateMaterialVariantRequest, metadata *ClientMetadata) (*dto.MaterialResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	material, err := f.materialRepo.ByIDWithVariants(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, NewBusinessErrorf("MATERIAL_NOT_FOUND", "material %d not found", ErrMaterialNotFound, materialID)
	}

	variant := &models.MaterialVariant{
		MaterialID:    materialID,
		Name:          req.Name,
		PackPrice:     req.PackPrice,
		SheetsPerPack: req.SheetsPerPack,
		UnitPrice:     req.UnitPrice,
		IsCurrent:     utils.ToPtr(false),
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.materialRepo.SaveVariant(txCtx, variant); err != nil {
			return err
		}
		if req.MakeCurrent {
			return f.materialRepo.MarkVariantCurrent(txCtx, materialID, variant.ID)
		}
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("VARIANT_SAVE_FAILED", "failed to save material variant", err)
	}

	f.audit(ctx, metadata, fmt.Sprintf("variant %d (%s) added to material %d", variant.ID, variant.Name, materialID))

	material, err = f.materialRepo.ByIDWithVariants(ctx, materialID)
	if err != nil {
		return nil, err
	}

	return &dto.MaterialResponse{
		Message:  "Material variant created successfully",
		Material: toMaterialDTO(material),
	}, nil
}

// ListMaterials retrieves all active materials with their variants.
func (f *CatalogAdminFlowImpl) ListMaterials(ctx context.Context) (*dto.ListMaterialsResponse, error) {
	materials, err := f.materialRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.MaterialDTO, 0, len(materials))
	for _, m := range materials {
		items = append(items, toMaterialDTO(m))
	}

	return &dto.ListMaterialsResponse{
		Message:   "Materials retrieved successfully",
		Materials: items,
	}, nil
}

// CreatePrinting registers a printing configuration.
func (f *CatalogAdminFlowImpl) CreatePrinting(ctx context.Context, req *dto.CreatePrintingRequest, metadata *ClientMetadata) (*dto.PrintingResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	printing := &models.Printing{
		Name:         req.Name,
		Technology:   req.Technology,
		UnitPrice:    req.UnitPrice,
		SetupMode:    models.SetupMode(req.SetupMode),
		SetupMinutes: req.SetupMinutes,
		SetupFlatFee: req.SetupFlatFee,
		MinFee:       req.MinFee,
		LossFactor:   req.LossFactor,
		Yield:        req.Yield,
		Sides:        req.Sides,
		Colors:       req.Colors,
		IsActive:     utils.ToPtr(true),
	}

	if err := f.printingRepo.Save(ctx, printing); err != nil {
		return nil, NewBusinessError("PRINTING_SAVE_FAILED", "failed to save printing", err)
	}

	f.audit(ctx, metadata, fmt.Sprintf("printing %d (%s) created", printing.ID, printing.Name))

	return &dto.PrintingResponse{
		Message:  "Printing created successfully",
		Printing: toPrintingDTO(printing),
	}, nil
}

// ListPrintings retrieves all active printing configurations.
func (f *CatalogAdminFlowImpl) ListPrintings(ctx context.Context) (*dto.ListPrintingsResponse, error) {
	printings, err := f.printingRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PrintingDTO, 0, len(printings))
	for _, p := range printings {
		items = append(items, toPrintingDTO(p))
	}

	return &dto.ListPrintingsResponse{
		Message:   "Printings retrieved successfully",
		Printings: items,
	}, nil
}

// CreateFinish registers a finish operation.
func (f *CatalogAdminFlowImpl) CreateFinish(ctx context.Context, req *dto.CreateFinishRequest, metadata *ClientMetadata) (*dto.FinishResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	finish := &models.Finish{
		Name:       req.Name,
		Category:   req.Category,
		CalcType:   models.FinishCalcType(req.CalcType),
		BaseCost:   req.BaseCost,
		MinFee:     req.MinFee,
		AreaStepM2: req.AreaStepM2,
		Unit:       req.Unit,
		IsActive:   utils.ToPtr(true),
	}

	if err := f.finishRepo.Save(ctx, finish); err != nil {
		return nil, NewBusinessError("FINISH_SAVE_FAILED", "failed to save finish", err)
	}

	f.audit(ctx, metadata, fmt.Sprintf("finish %d (%s) created", finish.ID, finish.Name))

	return &dto.FinishResponse{
		Message: "Finish created successfully",
		Finish:  toFinishDTO(finish),
	}, nil
}

// ListFinishes retrieves all active finishes.
func (f *CatalogAdminFlowImpl) ListFinishes(ctx context.Context) (*dto.ListFinishesResponse, error) {
	finishes, err := f.finishRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.FinishDTO, 0, len(finishes))
	for _, fin := range finishes {
		items = append(items, toFinishDTO(fin))
	}

	return &dto.ListFinishesResponse{
		Message:  "Finishes retrieved successfully",
		Finishes: items,
	}, nil
}

// CreateProduct registers a sellable product with its bill of materials
// in one transaction.
func (f *CatalogAdminFlowImpl) CreateProduct(ctx context.Context, req *dto.CreateProductRequest, metadata *ClientMetadata) (*dto.ProductResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	category, err := f.categoryRepo.ByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, NewBusinessErrorf("CATEGORY_NOT_FOUND", "category %d not found", ErrCategoryNotFound, req.CategoryID)
	}

	if req.DefaultPrintingID != nil {
		printing, err := f.printingRepo.ByID(ctx, *req.DefaultPrintingID)
		if err != nil {
			return nil, err
		}
		if printing == nil {
			return nil, NewBusinessErrorf("PRINTING_NOT_FOUND", "printing %d not found", ErrPrintingNotFound, *req.DefaultPrintingID)
		}
	}

	materials, err := f.buildMaterialLines(ctx, req.Materials)
	if err != nil {
		return nil, err
	}
	finishes, err := f.buildFinishLines(ctx, req.Finishes)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:              req.Name,
		CategoryID:        req.CategoryID,
		DefaultPrintingID: req.DefaultPrintingID,
		MarginDefault:     req.MarginDefault,
		MarkupDefault:     req.MarkupDefault,
		RoundingStep:      req.RoundingStep,
		MinPricePerPiece:  req.MinPricePerPiece,
		IsActive:          utils.ToPtr(true),
	}
	if req.RoundingStrategy != nil {
		product.RoundingStrategy = utils.ToPtr(models.RoundingStrategy(*req.RoundingStrategy))
	}
	if req.PricingStrategy != nil {
		product.PricingStrategy = utils.ToPtr(models.PricingStrategy(*req.PricingStrategy))
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.productRepo.Save(txCtx, product); err != nil {
			return err
		}
		if len(materials) > 0 {
			if err := f.productRepo.ReplaceMaterials(txCtx, product.ID, materials); err != nil {
				return err
			}
		}
		if len(finishes) > 0 {
			if err := f.productRepo.ReplaceFinishes(txCtx, product.ID, finishes); err != nil {
				return err
			}
		}

		audit := &models.AuditLog{
			Action:      models.AuditActionCatalogChanged,
			Description: utils.ToPtr(fmt.Sprintf("product %d (%s) created", product.ID, product.Name)),
			Success:     utils.ToPtr(true),
		}
		if metadata != nil {
			audit.IPAddress = utils.ToPtr(metadata.IPAddress)
			audit.UserAgent = utils.ToPtr(metadata.UserAgent)
		}
		return f.auditRepo.Save(txCtx, audit)
	})
	if err != nil {
		return nil, NewBusinessError("PRODUCT_SAVE_FAILED", "failed to save product", err)
	}

	product, err = f.productRepo.ByIDWithBOM(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	return &dto.ProductResponse{
		Message: "Product created successfully",
		Product: toProductDTO(product),
	}, nil
}

// buildMaterialLines verifies every referenced material and variant exists
// and belongs together before the product is written.
func (f *CatalogAdminFlowImpl) buildMaterialLines(ctx context.Context, lines []dto.ProductMaterialLineRequest) ([]*models.ProductMaterial, error) {
	out := make([]*models.ProductMaterial, 0, len(lines))
	for _, line := range lines {
		material, err := f.materialRepo.ByIDWithVariants(ctx, line.MaterialID)
		if err != nil {
			return nil, err
		}
		if material == nil {
			return nil, NewBusinessErrorf("MATERIAL_NOT_FOUND", "material %d not found", ErrMaterialNotFound, line.MaterialID)
		}
		if line.VariantID != nil {
			found := false
			for i := range material.Variants {
				if material.Variants[i].ID == *line.VariantID {
					found = true
					break
				}
			}
			if !found {
				return nil, NewBusinessErrorf("VARIANT_NOT_FOUND", "variant %d does not belong to material %d", ErrVariantNotFound, *line.VariantID, line.MaterialID)
			}
		}

		out = append(out, &models.ProductMaterial{
			MaterialID:  line.MaterialID,
			VariantID:   line.VariantID,
			QtyPerUnit:  line.QtyPerUnit,
			WasteFactor: line.WasteFactor,
		})
	}
	return out, nil
}

// buildFinishLines verifies every referenced finish exists before the
// product is written.
func (f *CatalogAdminFlowImpl) buildFinishLines(ctx context.Context, lines []dto.ProductFinishLineRequest) ([]*models.ProductFinish, error) {
	out := make([]*models.ProductFinish, 0, len(lines))
	for _, line := range lines {
		finish, err := f.finishRepo.ByID(ctx, line.FinishID)
		if err != nil {
			return nil, err
		}
		if finish == nil {
			return nil, NewBusinessErrorf("FINISH_NOT_FOUND", "finish %d not found", ErrFinishNotFound, line.FinishID)
		}

		pf := &models.ProductFinish{
			FinishID:     line.FinishID,
			QtyPerUnit:   line.QtyPerUnit,
			CostOverride: line.CostOverride,
		}
		if line.CalcType != nil {
			pf.CalcType = utils.ToPtr(models.FinishCalcType(*line.CalcType))
		}
		out = append(out, pf)
	}
	return out, nil
}

// GetProduct retrieves a product with its bill of materials.
func (f *CatalogAdminFlowImpl) GetProduct(ctx context.Context, productID uint) (*dto.ProductResponse, error) {
	product, err := f.productRepo.ByIDWithBOM(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, NewBusinessErrorf("PRODUCT_NOT_FOUND", "product %d not found", ErrProductNotFound, productID)
	}

	return &dto.ProductResponse{
		Message: "Product retrieved successfully",
		Product: toProductDTO(product),
	}, nil
}

// ListProducts retrieves active products, optionally restricted to a category.
func (f *CatalogAdminFlowImpl) ListProducts(ctx context.Context, categoryID *uint, page, pageSize int) (*dto.ListProductsResponse, error) {
	if page < 1 {
		return nil, NewBusinessError("INVALID_PAGE", "page must be at least 1", ErrInvalidPage)
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, NewBusinessError("INVALID_PAGE_SIZE", "page size must be between 1 and 100", ErrInvalidPageSize)
	}

	var (
		products []*models.Product
		err      error
	)
	offset := (page - 1) * pageSize
	if categoryID != nil {
		products, err = f.productRepo.ListByCategory(ctx, *categoryID, pageSize, offset)
	} else {
		products, err = f.productRepo.ListActive(ctx, pageSize, offset)
	}
	if err != nil {
		return nil, err
	}

	items := make([]dto.ProductDTO, 0, len(products))
	for _, p := range products {
		items = append(items, toProductDTO(p))
	}

	return &dto.ListProductsResponse{
		Message:  "Products retrieved successfully",
		Products: items,
	}, nil
}

// audit records a best-effort catalog change row outside any transaction.
func (f *CatalogAdminFlowImpl) audit(ctx context.Context, metadata *ClientMetadata, description string) {
	row := &models.AuditLog{
		Action:      models.AuditActionCatalogChanged,
		Description: utils.ToPtr(description),
		Success:     utils.ToPtr(true),
	}
	if metadata != nil {
		row.IPAddress = utils.ToPtr(metadata.IPAddress)
		row.UserAgent = utils.ToPtr(metadata.UserAgent)
	}
	_ = f.auditRepo.Save(ctx, row)
}

func toCategoryDTO(cat *models.Category) dto.CategoryDTO {
	return dto.CategoryDTO{
		ID:       cat.ID,
		UUID:     cat.UUID.String(),
		Name:     cat.Name,
		ParentID: cat.ParentID,
		IsActive: utils.IsTrue(cat.IsActive),
	}
}

func toMaterialDTO(m *models.Material) dto.MaterialDTO {
	out := dto.MaterialDTO{
		ID:         m.ID,
		UUID:       m.UUID.String(),
		Name:       m.Name,
		UnitCost:   m.UnitCost,
		LossFactor: m.LossFactor,
		Unit:       string(m.Unit),
		IsActive:   utils.IsTrue(m.IsActive),
	}
	out.Variants = make([]dto.MaterialVariantDTO, 0, len(m.Variants))
	for i := range m.Variants {
		v := &m.Variants[i]
		out.Variants = append(out.Variants, dto.MaterialVariantDTO{
			ID:              v.ID,
			Name:            v.Name,
			PackPrice:       v.PackPrice,
			SheetsPerPack:   v.SheetsPerPack,
			UnitPrice:       v.UnitPrice,
			DerivedUnitCost: v.DerivedUnitCost(),
			IsCurrent:       utils.IsTrue(v.IsCurrent),
		})
	}
	return out
}

func toPrintingDTO(p *models.Printing) dto.PrintingDTO {
	return dto.PrintingDTO{
		ID:           p.ID,
		Name:         p.Name,
		Technology:   p.Technology,
		UnitPrice:    p.UnitPrice,
		SetupMode:    string(p.SetupMode),
		SetupMinutes: p.SetupMinutes,
		SetupFlatFee: p.SetupFlatFee,
		MinFee:       p.MinFee,
		LossFactor:   p.LossFactor,
		Sides:        p.Sides,
		IsActive:     utils.IsTrue(p.IsActive),
	}
}

func toFinishDTO(fin *models.Finish) dto.FinishDTO {
	return dto.FinishDTO{
		ID:         fin.ID,
		Name:       fin.Name,
		Category:   fin.Category,
		CalcType:   string(fin.CalcType),
		BaseCost:   fin.BaseCost,
		MinFee:     fin.MinFee,
		AreaStepM2: fin.AreaStepM2,
		Unit:       fin.Unit,
		IsActive:   utils.IsTrue(fin.IsActive),
	}
}

func toProductDTO(p *models.Product) dto.ProductDTO {
	out := dto.ProductDTO{
		ID:               p.ID,
		UUID:             p.UUID.String(),
		Name:             p.Name,
		CategoryID:       p.CategoryID,
		MarginDefault:    p.MarginDefault,
		MarkupDefault:    p.MarkupDefault,
		MinPricePerPiece: p.MinPricePerPiece,
		IsActive:         utils.IsTrue(p.IsActive),
		MaterialLines:    len(p.Materials),
		FinishLines:      len(p.Finishes),
	}
	if p.Category != nil {
		out.CategoryName = p.Category.Name
	}
	if p.PricingStrategy != nil {
		out.PricingStrategy = utils.ToPtr(string(*p.PricingStrategy))
	}
	return out
}

// formatTimePtr renders an optional timestamp for responses.
func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return utils.ToPtr(t.Format(time.RFC3339))
}

package handlers

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/smuelmfs/mp-pt-sub003/app/dto"
	businessflow "github.com/smuelmfs/mp-pt-sub003/business_flow"
)

// CatalogAdminHandlerInterface defines the contract for catalog administration handlers
type CatalogAdminHandlerInterface interface {
	CreateCategory(c fiber.Ctx) error
	ListCategories(c fiber.Ctx) error
	CreateMaterial(c fiber.Ctx) error
	UpdateMaterial(c fiber.Ctx) error
	AddMaterialVariant(c fiber.Ctx) error
	ListMaterials(c fiber.Ctx) error
	CreatePrinting(c fiber.Ctx) error
	ListPrintings(c fiber.Ctx) error
	CreateFinish(c fiber.Ctx) error
	ListFinishes(c fiber.Ctx) error
	CreateProduct(c fiber.Ctx) error
	GetProduct(c fiber.Ctx) error
	ListProducts(c fiber.Ctx) error
}

// CatalogAdminHandler handles catalog administration HTTP requests
type CatalogAdminHandler struct {
	flow      businessflow.CatalogAdminFlow
	validator *validator.Validate
}

// NewCatalogAdminHandler creates a new catalog administration handler
func NewCatalogAdminHandler(flow businessflow.CatalogAdminFlow) CatalogAdminHandlerInterface {
	return &CatalogAdminHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *CatalogAdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CatalogAdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateCategory registers a product category
// @Summary Create Category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Category data"
// @Success 201 {object} dto.APIResponse{data=dto.CategoryResponse} "Category created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Parent category not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/categories [post]
func (h *CatalogAdminHandler) CreateCategory(c fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.CreateCategory(h.createRequestContext(c), &req, h.metadata(c))
	if err != nil {
		return h.catalogErrorResponse(c, err, "Category creation failed", "CATEGORY_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Category created successfully", result)
}

// ListCategories retrieves active categories
// @Summary List Categories
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListCategoriesResponse} "Categories retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/categories [get]
func (h *CatalogAdminHandler) ListCategories(c fiber.Ctx) error {
	result, err := h.flow.ListCategories(h.createRequestContext(c))
	if err != nil {
		log.Println("List categories failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List categories failed", "CATEGORY_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Categories retrieved successfully", result)
}

// CreateMaterial registers a raw material
// @Summary Create Material
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateMaterialRequest true "Material data"
// @Success 201 {object} dto.APIResponse{data=dto.MaterialResponse} "Material created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/materials [post]
func (h *CatalogAdminHandler) CreateMaterial(c fiber.Ctx) error {
	var req dto.CreateMaterialRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.CreateMaterial(h.createRequestContext(c), &req, h.metadata(c))
	if err != nil {
		return h.catalogErrorResponse(c, err, "Material creation failed", "MATERIAL_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Material created successfully", result)
}

// UpdateMaterial changes an existing material
// @Summary Update Material
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Material ID"
// @Param request body dto.UpdateMaterialRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.MaterialResponse} "Material updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Material not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/materials/{id} [put]
func (h *CatalogAdminHandler) UpdateMaterial(c fiber.Ctx) error {
	materialID, err := h.parseID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid material ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateMaterialRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.UpdateMaterial(h.createRequestContext(c), materialID, &req, h.metadata(c))
	if err != nil {
		return h.catalogErrorResponse(c, err, "Material update failed", "MATERIAL_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Material updated successfully", result)
}

// AddMaterialVariant registers a purchasable pack of a material
// @Summary Add Material Variant
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Material ID"
// @Param request body dto.CreateMaterialVariantRequest true "Variant data"
// @Success 201 {object} dto.APIResponse{data=dto.MaterialResponse} "Variant created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Material not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/materials/{id}/variants [post]
func (h *CatalogAdminHandler) AddMaterialVariant(c fiber.Ctx) error {
	materialID, err := h.parseID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid material ID", "INVALID_REQUEST", nil)
	}

	var req dto.CreateMaterialVariantRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.AddMaterialVariant(h.createRequestContext(c), materialID, &req, h.metadata(c))
	if err != nil {
		return h.catalogErrorResponse(c, err, "Variant creation failed", "VARIANT_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Material variant created successfully", result)
}

// ListMaterials retrieves active materials
// @Summary List Materials
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListMaterialsResponse} "Materials retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/materials [get]
func (h *CatalogAdminHandler) ListMaterials(c fiber.Ctx) error {
	result, err := h.flow.ListMaterials(h.createRequestContext(c))
	if err != nil {
		log.Println("List materials failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List materials failed", "MATERIAL_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Materials retrieved successfully", result)
}

// CreatePrinting registers a printing configuration
// @Summary Create Printing
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body dto.CreatePrintingRequest true "Printing data"
// @Success 201 {object} dto.APIResponse{data=dto.PrintingResponse} "Printing created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/printings [post]
func (h *CatalogAdminHandler) CreatePrinting(c fiber.Ctx) error {
	var req dto.CreatePrintingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.CreatePrinting(h.createRequestContext(c), &req, h.metadata(c))
	if err != nil {
		return h.catalogErrorResponse(c, err, "Printing creation failed", "PRINTING_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Printing created successfully", result)
}

// ListPrintings retrieves active printing configurations
// @Summary List Printings
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListPrintingsResponse} "Printings retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/printings [get]
func (h *CatalogAdminHandler) ListPrintings(c fiber.Ctx) error {
	result, err := h.flow.ListPrintings(h.createRequestContext(c))
	if err != nil {
		log.Println("List printings failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List printings failed", "PRINTING_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Printings retrieved successfully", result)
}

// CreateFinish registers a finish operation
// @Summary Create Finish
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateFinishRequest true "Finish data"
// @Success 201 {object} dto.APIResponse{data=dto.FinishResponse} "Finish created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/finishes [post]
func (h *CatalogAdminHandler) CreateFinish(c fiber.Ctx) error {
	var req dto.CreateFinishRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.CreateFinish(h.createRequestContext(c), &req, h.metadata(c))
	if err != nil {
		return h.catalogErrorResponse(c, err, "Finish creation failed", "FINISH_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Finish created successfully", result)
}

// ListFinishes retrieves active finishes
// @Summary List Finishes
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListFinishesResponse} "Finishes retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/finishes [get]
func (h *CatalogAdminHandler) ListFinishes(c fiber.Ctx) error {
	result, err := h.flow.ListFinishes(h.createRequestContext(c))
	if err != nil {
		log.Println("List finishes failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List finishes failed", "FINISH_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Finishes retrieved successfully", result)
}

// CreateProduct registers a sellable product with its bill of materials
// @Summary Create Product
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateProductRequest true "Product data"
// @Success 201 {object} dto.APIResponse{data=dto.ProductResponse} "Product created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Referenced entity not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/products [post]
func (h *CatalogAdminHandler) CreateProduct(c fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.CreateProduct(h.createRequestContext(c), &req, h.metadata(c))
	if err != nil {
		return h.catalogErrorResponse(c, err, "Product creation failed", "PRODUCT_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Product created successfully", result)
}

// GetProduct retrieves a product with its bill of materials
// @Summary Get Product
// @Tags Catalog
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProductResponse} "Product retrieved"
// @Failure 404 {object} dto.APIResponse "Product not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/products/{id} [get]
func (h *CatalogAdminHandler) GetProduct(c fiber.Ctx) error {
	productID, err := h.parseID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid product ID", "INVALID_REQUEST", nil)
	}

	result, err := h.flow.GetProduct(h.createRequestContext(c), productID)
	if err != nil {
		return h.catalogErrorResponse(c, err, "Get product failed", "PRODUCT_GET_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Product retrieved successfully", result)
}

// ListProducts retrieves active products, optionally by category
// @Summary List Products
// @Tags Catalog
// @Produce json
// @Param category_id query int false "Category filter"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20)"
// @Success 200 {object} dto.APIResponse{data=dto.ListProductsResponse} "Products retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid pagination"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/products [get]
func (h *CatalogAdminHandler) ListProducts(c fiber.Ctx) error {
	var categoryID *uint
	if raw := c.Query("category_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || v == 0 {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid category ID", "INVALID_REQUEST", nil)
		}
		id := uint(v)
		categoryID = &id
	}

	page := 1
	if v, err := strconv.Atoi(c.Query("page", "1")); err == nil && v > 0 {
		page = v
	}
	pageSize := 20
	if v, err := strconv.Atoi(c.Query("page_size", "20")); err == nil && v > 0 {
		pageSize = v
	}

	result, err := h.flow.ListProducts(h.createRequestContext(c), categoryID, page, pageSize)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination", "INVALID_PAGINATION", nil)
		}
		log.Println("List products failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List products failed", "PRODUCT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Products retrieved successfully", result)
}

// catalogErrorResponse maps catalog business errors onto HTTP statuses.
func (h *CatalogAdminHandler) catalogErrorResponse(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	switch {
	case businessflow.IsMaterialNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Material not found", "MATERIAL_NOT_FOUND", nil)
	case businessflow.IsVariantNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Material variant not found", "VARIANT_NOT_FOUND", nil)
	case businessflow.IsPrintingNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Printing not found", "PRINTING_NOT_FOUND", nil)
	case businessflow.IsFinishNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Finish not found", "FINISH_NOT_FOUND", nil)
	case businessflow.IsCategoryNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND", nil)
	case businessflow.IsProductNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND", nil)
	}

	var bizErr *businessflow.BusinessError
	if errors.As(err, &bizErr) {
		switch bizErr.Code {
		case "SUPPLIER_NOT_FOUND":
			return h.ErrorResponse(c, fiber.StatusNotFound, "Supplier not found", "SUPPLIER_NOT_FOUND", nil)
		case "CATEGORY_NAME_TAKEN":
			return h.ErrorResponse(c, fiber.StatusConflict, "Category name already taken", "CATEGORY_NAME_TAKEN", nil)
		}
	}

	log.Println(fallbackMessage, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

func (h *CatalogAdminHandler) parseID(c fiber.Ctx, param string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil || v == 0 {
		return 0, errInvalidID
	}
	return uint(v), nil
}

func (h *CatalogAdminHandler) metadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))
	return metadata
}

func (h *CatalogAdminHandler) createRequestContext(c fiber.Ctx) context.Context {
	return c.Context()
}

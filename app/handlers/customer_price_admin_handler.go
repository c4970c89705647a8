package handlers

import (
	"context"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/smuelmfs/mp-pt-sub003/app/dto"
	businessflow "github.com/smuelmfs/mp-pt-sub003/business_flow"
)

// CustomerPriceAdminHandlerInterface defines the contract for customer price handlers
type CustomerPriceAdminHandlerInterface interface {
	SetOverride(c fiber.Ctx) error
	ListOverrides(c fiber.Ctx) error
}

// CustomerPriceAdminHandler handles customer price override HTTP requests
type CustomerPriceAdminHandler struct {
	flow      businessflow.CustomerPriceAdminFlow
	validator *validator.Validate
}

// NewCustomerPriceAdminHandler creates a new customer price administration handler
func NewCustomerPriceAdminHandler(flow businessflow.CustomerPriceAdminFlow) CustomerPriceAdminHandlerInterface {
	return &CustomerPriceAdminHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *CustomerPriceAdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CustomerPriceAdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SetOverride records a customer-specific unit cost
// @Summary Set Price Override
// @Description Record a customer-specific unit cost; the previous current row is superseded
// @Tags Customer Prices
// @Accept json
// @Produce json
// @Param request body dto.SetPriceOverrideRequest true "Override data"
// @Success 201 {object} dto.APIResponse{data=dto.PriceOverrideResponse} "Override set"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Referenced entity not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/customer-prices [post]
func (h *CustomerPriceAdminHandler) SetOverride(c fiber.Ctx) error {
	var req dto.SetPriceOverrideRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))

	result, err := h.flow.SetPriceOverride(h.createRequestContext(c), &req, metadata)
	if err != nil {
		return h.overrideErrorResponse(c, err, "Price override failed", "OVERRIDE_SET_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Price override set successfully", result)
}

// ListOverrides retrieves a customer's current overrides of one kind
// @Summary List Price Overrides
// @Tags Customer Prices
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Param kind query string true "Override kind (material|printing|finish)"
// @Success 200 {object} dto.APIResponse{data=dto.ListPriceOverridesResponse} "Overrides retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid kind"
// @Failure 404 {object} dto.APIResponse "Customer not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/customers/{customer_id}/prices [get]
func (h *CustomerPriceAdminHandler) ListOverrides(c fiber.Ctx) error {
	customerID, err := strconv.ParseUint(c.Params("customer_id"), 10, 32)
	if err != nil || customerID == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid customer ID", "INVALID_REQUEST", nil)
	}

	kind := c.Query("kind", "material")

	result, err := h.flow.ListOverrides(h.createRequestContext(c), kind, uint(customerID))
	if err != nil {
		return h.overrideErrorResponse(c, err, "List price overrides failed", "OVERRIDE_LIST_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Price overrides retrieved successfully", result)
}

// overrideErrorResponse maps override business errors onto HTTP statuses.
func (h *CustomerPriceAdminHandler) overrideErrorResponse(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	switch {
	case businessflow.IsCustomerNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
	case businessflow.IsMaterialNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Material not found", "MATERIAL_NOT_FOUND", nil)
	case businessflow.IsPrintingNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Printing not found", "PRINTING_NOT_FOUND", nil)
	case businessflow.IsFinishNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Finish not found", "FINISH_NOT_FOUND", nil)
	case businessflow.IsUnknownOverrideKind(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown override kind", "UNKNOWN_OVERRIDE_KIND", nil)
	case businessflow.IsValidityWindowInvalid(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validity window is invalid", "INVALID_VALIDITY_WINDOW", nil)
	}

	log.Println(fallbackMessage, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

func (h *CustomerPriceAdminHandler) createRequestContext(c fiber.Ctx) context.Context {
	return c.Context()
}

package handlers

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/smuelmfs/mp-pt-sub003/app/dto"
	"github.com/smuelmfs/mp-pt-sub003/app/middleware"
	businessflow "github.com/smuelmfs/mp-pt-sub003/business_flow"
)

// QuoteHandlerInterface defines the contract for quoting handlers
type QuoteHandlerInterface interface {
	Preview(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	ListByCustomer(c fiber.Ctx) error
}

// QuoteHandler handles quoting HTTP requests
type QuoteHandler struct {
	flow      businessflow.QuoteFlow
	validator *validator.Validate
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(flow businessflow.QuoteFlow) QuoteHandlerInterface {
	return &QuoteHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *QuoteHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *QuoteHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Preview evaluates a quote without persisting it
// @Summary Preview Quote
// @Description Evaluate a price for a product and quantity without saving
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Quote input"
// @Success 200 {object} dto.APIResponse{data=dto.QuoteResponse} "Quote evaluated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Referenced entity not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/quotes/preview [post]
func (h *QuoteHandler) Preview(c fiber.Ctx) error {
	var req dto.QuoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))

	result, err := h.flow.PreviewQuote(h.createRequestContext(c), &req, metadata)
	middleware.RecordQuoteEvaluation("preview", err == nil)
	if err != nil {
		return h.quoteErrorResponse(c, err, "Quote preview failed", "QUOTE_PREVIEW_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Quote evaluated successfully", result)
}

// Create evaluates a quote and persists it with its breakdown
// @Summary Create Quote
// @Description Evaluate a price and save the quote with its itemized breakdown
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Quote input"
// @Success 201 {object} dto.APIResponse{data=dto.QuoteResponse} "Quote created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Referenced entity not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) Create(c fiber.Ctx) error {
	var req dto.QuoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))

	result, err := h.flow.CreateQuote(h.createRequestContext(c), &req, metadata)
	middleware.RecordQuoteEvaluation("create", err == nil)
	if err != nil {
		return h.quoteErrorResponse(c, err, "Quote creation failed", "QUOTE_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Quote created successfully", result)
}

// Get retrieves a persisted quote by UUID
// @Summary Get Quote
// @Description Retrieve a persisted quote with its itemized breakdown
// @Tags Quotes
// @Produce json
// @Param uuid path string true "Quote UUID"
// @Success 200 {object} dto.APIResponse{data=dto.GetQuoteResponse} "Quote retrieved"
// @Failure 404 {object} dto.APIResponse "Quote not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/quotes/{uuid} [get]
func (h *QuoteHandler) Get(c fiber.Ctx) error {
	quoteUUID := c.Params("uuid")
	if quoteUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Quote UUID is required", "INVALID_REQUEST", nil)
	}

	result, err := h.flow.GetQuote(h.createRequestContext(c), quoteUUID)
	if err != nil {
		if businessflow.IsQuoteNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Quote not found", "QUOTE_NOT_FOUND", nil)
		}
		log.Println("Get quote failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Get quote failed", "QUOTE_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Quote retrieved successfully", result)
}

// ListByCustomer retrieves a customer's quote history
// @Summary List Customer Quotes
// @Description Retrieve a customer's quote history, newest first
// @Tags Quotes
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20)"
// @Success 200 {object} dto.APIResponse{data=dto.ListQuotesResponse} "Quotes retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid pagination"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/customers/{customer_id}/quotes [get]
func (h *QuoteHandler) ListByCustomer(c fiber.Ctx) error {
	customerID, err := strconv.ParseUint(c.Params("customer_id"), 10, 32)
	if err != nil || customerID == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid customer ID", "INVALID_REQUEST", nil)
	}

	page := 1
	if v, err := strconv.Atoi(c.Query("page", "1")); err == nil && v > 0 {
		page = v
	}
	pageSize := 20
	if v, err := strconv.Atoi(c.Query("page_size", "20")); err == nil && v > 0 {
		pageSize = v
	}

	result, err := h.flow.ListQuotes(h.createRequestContext(c), uint(customerID), page, pageSize)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination", "INVALID_PAGINATION", nil)
		}
		log.Println("List quotes failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List quotes failed", "QUOTE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Quotes retrieved successfully", result)
}

// quoteErrorResponse maps evaluation errors onto HTTP statuses.
func (h *QuoteHandler) quoteErrorResponse(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	switch {
	case businessflow.IsProductNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND", nil)
	case businessflow.IsProductInactive(err):
		return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Product is inactive", "PRODUCT_INACTIVE", nil)
	case businessflow.IsPrintingNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Printing not found", "PRINTING_NOT_FOUND", nil)
	case businessflow.IsCustomerNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
	case businessflow.IsCustomerInactive(err):
		return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Customer is inactive", "CUSTOMER_INACTIVE", nil)
	case businessflow.IsConfigNotFound(err):
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Global configuration is missing", "CONFIG_NOT_FOUND", nil)
	}

	var businessErr *businessflow.BusinessError
	if errors.As(err, &businessErr) {
		switch businessErr.Code {
		case "INVALID_QUANTITY", "INVALID_MARGIN_CONFIGURATION", "ENTITY_NOT_FOUND":
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, businessErr.Message, businessErr.Code, nil)
		}
	}

	log.Println(fallbackMessage, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

func (h *QuoteHandler) createRequestContext(c fiber.Ctx) context.Context {
	return c.Context()
}

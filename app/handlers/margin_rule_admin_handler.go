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

// MarginRuleAdminHandlerInterface defines the contract for margin rule administration handlers
type MarginRuleAdminHandlerInterface interface {
	CreateRule(c fiber.Ctx) error
	CreateDynamicRule(c fiber.Ctx) error
	ListRules(c fiber.Ctx) error
	DeactivateRule(c fiber.Ctx) error
	DeactivateDynamicRule(c fiber.Ctx) error
	GetConfig(c fiber.Ctx) error
	UpdateConfig(c fiber.Ctx) error
}

// MarginRuleAdminHandler handles margin rule and configuration HTTP requests
type MarginRuleAdminHandler struct {
	flow      businessflow.MarginRuleAdminFlow
	validator *validator.Validate
}

// NewMarginRuleAdminHandler creates a new margin rule administration handler
func NewMarginRuleAdminHandler(flow businessflow.MarginRuleAdminFlow) MarginRuleAdminHandlerInterface {
	return &MarginRuleAdminHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *MarginRuleAdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *MarginRuleAdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateRule registers a static margin rule
// @Summary Create Margin Rule
// @Tags Margin Rules
// @Accept json
// @Produce json
// @Param request body dto.CreateMarginRuleRequest true "Rule data"
// @Success 201 {object} dto.APIResponse{data=dto.MarginRuleResponse} "Rule created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/margin-rules [post]
func (h *MarginRuleAdminHandler) CreateRule(c fiber.Ctx) error {
	var req dto.CreateMarginRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.CreateMarginRule(h.createRequestContext(c), &req, h.metadata(c))
	if err != nil {
		return h.ruleErrorResponse(c, err, "Margin rule creation failed", "MARGIN_RULE_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Margin rule created successfully", result)
}

// CreateDynamicRule registers a conditional margin adjustment
// @Summary Create Dynamic Margin Rule
// @Tags Margin Rules
// @Accept json
// @Produce json
// @Param request body dto.CreateDynamicMarginRuleRequest true "Rule data"
// @Success 201 {object} dto.APIResponse{data=dto.DynamicMarginRuleResponse} "Rule created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/margin-rules/dynamic [post]
func (h *MarginRuleAdminHandler) CreateDynamicRule(c fiber.Ctx) error {
	var req dto.CreateDynamicMarginRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.CreateDynamicMarginRule(h.createRequestContext(c), &req, h.metadata(c))
	if err != nil {
		return h.ruleErrorResponse(c, err, "Dynamic margin rule creation failed", "MARGIN_RULE_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Dynamic margin rule created successfully", result)
}

// ListRules retrieves both rule families
// @Summary List Margin Rules
// @Tags Margin Rules
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 50)"
// @Success 200 {object} dto.APIResponse{data=dto.ListMarginRulesResponse} "Rules retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid pagination"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/margin-rules [get]
func (h *MarginRuleAdminHandler) ListRules(c fiber.Ctx) error {
	page := 1
	if v, err := strconv.Atoi(c.Query("page", "1")); err == nil && v > 0 {
		page = v
	}
	pageSize := 50
	if v, err := strconv.Atoi(c.Query("page_size", "50")); err == nil && v > 0 {
		pageSize = v
	}

	result, err := h.flow.ListMarginRules(h.createRequestContext(c), page, pageSize)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination", "INVALID_PAGINATION", nil)
		}
		log.Println("List margin rules failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List margin rules failed", "MARGIN_RULE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Margin rules retrieved successfully", result)
}

// DeactivateRule retires a static margin rule
// @Summary Deactivate Margin Rule
// @Tags Margin Rules
// @Produce json
// @Param id path int true "Rule ID"
// @Success 200 {object} dto.APIResponse{data=dto.MarginRuleResponse} "Rule deactivated"
// @Failure 404 {object} dto.APIResponse "Rule not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/margin-rules/{id}/deactivate [post]
func (h *MarginRuleAdminHandler) DeactivateRule(c fiber.Ctx) error {
	ruleID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || ruleID == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid rule ID", "INVALID_REQUEST", nil)
	}

	result, err := h.flow.DeactivateMarginRule(h.createRequestContext(c), uint(ruleID), h.metadata(c))
	if err != nil {
		return h.ruleErrorResponse(c, err, "Margin rule deactivation failed", "MARGIN_RULE_DEACTIVATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Margin rule deactivated successfully", result)
}

// DeactivateDynamicRule retires a dynamic margin rule
// @Summary Deactivate Dynamic Margin Rule
// @Tags Margin Rules
// @Produce json
// @Param id path int true "Rule ID"
// @Success 200 {object} dto.APIResponse{data=dto.DynamicMarginRuleResponse} "Rule deactivated"
// @Failure 404 {object} dto.APIResponse "Rule not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/margin-rules/dynamic/{id}/deactivate [post]
func (h *MarginRuleAdminHandler) DeactivateDynamicRule(c fiber.Ctx) error {
	ruleID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || ruleID == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid rule ID", "INVALID_REQUEST", nil)
	}

	result, err := h.flow.DeactivateDynamicMarginRule(h.createRequestContext(c), uint(ruleID), h.metadata(c))
	if err != nil {
		return h.ruleErrorResponse(c, err, "Dynamic margin rule deactivation failed", "MARGIN_RULE_DEACTIVATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Dynamic margin rule deactivated successfully", result)
}

// GetConfig retrieves the global pricing configuration
// @Summary Get Configuration
// @Tags Configuration
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ConfigResponse} "Configuration retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/config [get]
func (h *MarginRuleAdminHandler) GetConfig(c fiber.Ctx) error {
	result, err := h.flow.GetConfig(h.createRequestContext(c))
	if err != nil {
		if businessflow.IsConfigNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusInternalServerError, "Global configuration is missing", "CONFIG_NOT_FOUND", nil)
		}
		log.Println("Get config failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Get config failed", "CONFIG_GET_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Configuration retrieved successfully", result)
}

// UpdateConfig changes the global pricing configuration
// @Summary Update Configuration
// @Tags Configuration
// @Accept json
// @Produce json
// @Param request body dto.UpdateConfigRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.ConfigResponse} "Configuration updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/config [put]
func (h *MarginRuleAdminHandler) UpdateConfig(c fiber.Ctx) error {
	var req dto.UpdateConfigRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.UpdateConfig(h.createRequestContext(c), &req, h.metadata(c))
	if err != nil {
		if businessflow.IsConfigNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusInternalServerError, "Global configuration is missing", "CONFIG_NOT_FOUND", nil)
		}
		log.Println("Update config failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Update config failed", "CONFIG_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Configuration updated successfully", result)
}

// ruleErrorResponse maps rule business errors onto HTTP statuses.
func (h *MarginRuleAdminHandler) ruleErrorResponse(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	switch {
	case businessflow.IsMarginRuleNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Margin rule not found", "MARGIN_RULE_NOT_FOUND", nil)
	case businessflow.IsCategoryNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND", nil)
	case businessflow.IsProductNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND", nil)
	case businessflow.IsScopeTargetRequired(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Scoped rules require a target", "SCOPE_TARGET_REQUIRED", nil)
	case businessflow.IsValidityWindowInvalid(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validity window is invalid", "INVALID_VALIDITY_WINDOW", nil)
	}

	log.Println(fallbackMessage, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

func (h *MarginRuleAdminHandler) metadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))
	return metadata
}

func (h *MarginRuleAdminHandler) createRequestContext(c fiber.Ctx) context.Context {
	return c.Context()
}

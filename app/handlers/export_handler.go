package handlers

import (
	"context"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/smuelmfs/mp-pt-sub003/app/dto"
	businessflow "github.com/smuelmfs/mp-pt-sub003/business_flow"
)

// ExportHandlerInterface defines the contract for price list export handlers
type ExportHandlerInterface interface {
	ExportPriceList(c fiber.Ctx) error
}

// ExportHandler handles price list export HTTP requests
type ExportHandler struct {
	flow businessflow.PriceListExportFlow
}

// NewExportHandler creates a new export handler
func NewExportHandler(flow businessflow.PriceListExportFlow) ExportHandlerInterface {
	return &ExportHandler{flow: flow}
}

func (h *ExportHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// ExportPriceList streams the catalog price list as an XLSX workbook
// @Summary Export Price List
// @Description Download the catalog price list, optionally with a customer's overrides applied
// @Tags Exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param customer_id query int false "Apply this customer's overrides"
// @Success 200 {file} file "XLSX workbook"
// @Failure 400 {object} dto.APIResponse "Invalid customer ID"
// @Failure 404 {object} dto.APIResponse "Customer not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/exports/price-list [get]
func (h *ExportHandler) ExportPriceList(c fiber.Ctx) error {
	req := &dto.ExportPriceListRequest{}
	if raw := c.Query("customer_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || v == 0 {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid customer ID", "INVALID_REQUEST", nil)
		}
		id := uint(v)
		req.CustomerID = &id
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))

	result, err := h.flow.ExportPriceList(h.createRequestContext(c), req, metadata)
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		log.Println("Export price list failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Export price list failed", "EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, result.ContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=\""+result.FileName+"\"")
	return c.Status(fiber.StatusOK).Send(result.Content)
}

func (h *ExportHandler) createRequestContext(c fiber.Ctx) context.Context {
	return c.Context()
}

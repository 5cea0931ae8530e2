package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/powergridhq/disco-analytics/app/dto"
	businessflow "github.com/powergridhq/disco-analytics/business_flow"
)

// HRHandlerInterface defines the contract for staff reporting and bulk edits
type HRHandlerInterface interface {
	Summary(c fiber.Ctx) error
	StateOverview(c fiber.Ctx) error
	StaffOfState(c fiber.Ctx) error
	BulkCreate(c fiber.Ctx) error
	BulkUpdate(c fiber.Ctx) error
	BulkDelete(c fiber.Ctx) error
	Export(c fiber.Ctx) error
}

// HRHandler implements HRHandlerInterface
type HRHandler struct {
	flow      businessflow.HRFlow
	validator *validator.Validate
}

func NewHRHandler(flow businessflow.HRFlow) HRHandlerInterface {
	return &HRHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Summary returns headcount, salary bill and composition breakdowns
func (h *HRHandler) Summary(c fiber.Ctx) error {
	result, err := h.flow.Summary(createRequestContext(c, "/api/metrics/hr/staff-summary"))
	if err != nil {
		return flowErrorResponse(c, err, "Staff summary failed", "STAFF_SUMMARY_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Staff summary computed", result)
}

// StateOverview returns per-state staff composition
func (h *HRHandler) StateOverview(c fiber.Ctx) error {
	result, err := h.flow.StateOverview(createRequestContext(c, "/api/metrics/hr/staff-state-overview"))
	if err != nil {
		return flowErrorResponse(c, err, "Staff overview failed", "STAFF_OVERVIEW_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Staff overview computed", result)
}

// StaffOfState lists the staff of one state by name or slug
func (h *HRHandler) StaffOfState(c fiber.Ctx) error {
	result, err := h.flow.StaffOfState(createRequestContext(c, "/api/metrics/hr/staff-state"), c.Params("slug"))
	if err != nil {
		return flowErrorResponse(c, err, "Staff listing failed", "STAFF_LISTING_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Staff listed", result)
}

func (h *HRHandler) bindBulkRequest(c fiber.Ctx) (*dto.BulkStaffRequest, error) {
	var req dto.BulkStaffRequest
	if err := c.Bind().JSON(&req); err != nil {
		return nil, err
	}
	if err := h.validator.Struct(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// BulkCreate upserts staff keyed by (district, full_name, hire_date)
func (h *HRHandler) BulkCreate(c fiber.Ctx) error {
	req, err := h.bindBulkRequest(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", validationMessages(err))
	}

	result, err := h.flow.BulkUpsert(createRequestContext(c, "/api/hr/staff/bulk_create"), req)
	if err != nil {
		log.Println("Bulk staff create failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Bulk create failed", "BULK_CREATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Bulk create completed", result)
}

// BulkUpdate updates staff matched by their composite key
func (h *HRHandler) BulkUpdate(c fiber.Ctx) error {
	req, err := h.bindBulkRequest(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", validationMessages(err))
	}

	result, err := h.flow.BulkUpsert(createRequestContext(c, "/api/hr/staff/bulk_update"), req)
	if err != nil {
		log.Println("Bulk staff update failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Bulk update failed", "BULK_UPDATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Bulk update completed", result)
}

// BulkDelete removes staff matched by their composite key
func (h *HRHandler) BulkDelete(c fiber.Ctx) error {
	req, err := h.bindBulkRequest(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", validationMessages(err))
	}

	result, err := h.flow.BulkDelete(createRequestContext(c, "/api/hr/staff/bulk_delete"), req)
	if err != nil {
		log.Println("Bulk staff delete failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Bulk delete failed", "BULK_DELETE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Bulk delete completed", result)
}

// Export streams the staff roster as an xlsx workbook
func (h *HRHandler) Export(c fiber.Ctx) error {
	workbook, err := h.flow.ExportXLSX(createRequestContext(c, "/api/hr/staff/export"))
	if err != nil {
		log.Println("Staff export failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Export failed", "EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="staff.xlsx"`)
	return c.Send(workbook)
}

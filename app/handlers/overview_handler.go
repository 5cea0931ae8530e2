package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	businessflow "github.com/powergridhq/disco-analytics/business_flow"
)

// OverviewHandlerInterface defines the contract for the dashboard overview
type OverviewHandlerInterface interface {
	Overview(c fiber.Ctx) error
}

// OverviewHandler implements OverviewHandlerInterface
type OverviewHandler struct {
	flow      businessflow.OverviewFlow
	validator *validator.Validate
}

func NewOverviewHandler(flow businessflow.OverviewFlow) OverviewHandlerInterface {
	return &OverviewHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Overview returns the headline KPIs with a five-month history. Responses
// are cached for a short window keyed by the full query string.
func (h *OverviewHandler) Overview(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	fingerprint := c.OriginalURL()
	result, err := h.flow.Overview(createRequestContext(c, "/api/overview"), query, fingerprint)
	if err != nil {
		return flowErrorResponse(c, err, "Overview failed", "OVERVIEW_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Overview computed", result)
}

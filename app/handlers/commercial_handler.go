package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	businessflow "github.com/powergridhq/disco-analytics/business_flow"
)

// CommercialHandlerInterface defines the contract for commercial metrics
type CommercialHandlerInterface interface {
	AllStates(c fiber.Ctx) error
	StateSeries(c fiber.Ctx) error
	Districts(c fiber.Ctx) error
	Feeders(c fiber.Ctx) error
	Transformers(c fiber.Ctx) error
	ServiceBands(c fiber.Ctx) error
	SalesRepSummary(c fiber.Ctx) error
}

// CommercialHandler implements CommercialHandlerInterface
type CommercialHandler struct {
	flow      businessflow.CommercialFlow
	validator *validator.Validate
}

func NewCommercialHandler(flow businessflow.CommercialFlow) CommercialHandlerInterface {
	return &CommercialHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// AllStates returns the commercial KPI envelope for every state
func (h *CommercialHandler) AllStates(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.AllStates(createRequestContext(c, "/api/metrics/commercial/all-states"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Commercial metrics failed", "COMMERCIAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Commercial metrics computed", result)
}

// StateSeries returns a five-month commercial series for one state
func (h *CommercialHandler) StateSeries(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.StateSeries(createRequestContext(c, "/api/metrics/commercial/state"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Commercial metrics failed", "COMMERCIAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Commercial metrics computed", result)
}

// Districts returns per-business-district commercial rows
func (h *CommercialHandler) Districts(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.Districts(createRequestContext(c, "/api/metrics/commercial/business-districts"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Commercial metrics failed", "COMMERCIAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Commercial metrics computed", result)
}

// Feeders returns per-feeder commercial rows sorted by loss
func (h *CommercialHandler) Feeders(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.Feeders(createRequestContext(c, "/api/metrics/commercial/feeders/metrics"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Commercial metrics failed", "COMMERCIAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Commercial metrics computed", result)
}

// Transformers returns per-transformer collections and customer counts
func (h *CommercialHandler) Transformers(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.Transformers(createRequestContext(c, "/api/metrics/commercial/transformers-metrics"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Commercial metrics failed", "COMMERCIAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Commercial metrics computed", result)
}

// ServiceBands returns per-service-band composition and quality rows
func (h *CommercialHandler) ServiceBands(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.ServiceBands(createRequestContext(c, "/api/metrics/commercial/service-band-metrics"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Commercial metrics failed", "COMMERCIAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Commercial metrics computed", result)
}

// SalesRepSummary returns the commercial-summary totals of the scoped reps
func (h *CommercialHandler) SalesRepSummary(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.SalesRepSummary(createRequestContext(c, "/api/metrics/commercial/sales-rep-summary"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Commercial metrics failed", "COMMERCIAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Commercial metrics computed", result)
}

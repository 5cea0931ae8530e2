package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	businessflow "github.com/powergridhq/disco-analytics/business_flow"
)

// TechnicalHandlerInterface defines the contract for technical metrics
type TechnicalHandlerInterface interface {
	Overview(c fiber.Ctx) error
	AllStates(c fiber.Ctx) error
	Districts(c fiber.Ctx) error
	Feeders(c fiber.Ctx) error
	ServiceBands(c fiber.Ctx) error
}

// TechnicalHandler implements TechnicalHandlerInterface
type TechnicalHandler struct {
	flow      businessflow.TechnicalFlow
	validator *validator.Validate
}

func NewTechnicalHandler(flow businessflow.TechnicalFlow) TechnicalHandlerInterface {
	return &TechnicalHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Overview returns supply-quality highlights, interruption sources and the
// hourly load trend
func (h *TechnicalHandler) Overview(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.Overview(createRequestContext(c, "/api/technical/overview"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Technical metrics failed", "TECHNICAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Technical metrics computed", result)
}

// AllStates returns per-state technical rows
func (h *TechnicalHandler) AllStates(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.AllStates(createRequestContext(c, "/api/technical/overview/all-states"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Technical metrics failed", "TECHNICAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Technical metrics computed", result)
}

// Districts returns per-business-district technical rows
func (h *TechnicalHandler) Districts(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.Districts(createRequestContext(c, "/api/technical/overview/business-districts"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Technical metrics failed", "TECHNICAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Technical metrics computed", result)
}

// Feeders returns per-feeder technical rows
func (h *TechnicalHandler) Feeders(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.Feeders(createRequestContext(c, "/api/technical/feeder"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Technical metrics failed", "TECHNICAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Technical metrics computed", result)
}

// ServiceBands returns per-service-band technical rows
func (h *TechnicalHandler) ServiceBands(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.ServiceBands(createRequestContext(c, "/api/technical/service-band-technical-metrics"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Technical metrics failed", "TECHNICAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Technical metrics computed", result)
}

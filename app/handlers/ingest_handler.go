package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/powergridhq/disco-analytics/app/dto"
	businessflow "github.com/powergridhq/disco-analytics/business_flow"
)

// IngestHandlerInterface defines the contract for the fact ingest streams
type IngestHandlerInterface interface {
	EnergyDelivered(c fiber.Ctx) error
	EnergyBilled(c fiber.Ctx) error
	RevenueCollected(c fiber.Ctx) error
	RevenueBilled(c fiber.Ctx) error
	CustomerStats(c fiber.Ctx) error
	HourlyLoads(c fiber.Ctx) error
	HoursOfSupply(c fiber.Ctx) error
	Interruptions(c fiber.Ctx) error
	CommercialSummaries(c fiber.Ctx) error
}

// IngestHandler implements IngestHandlerInterface
type IngestHandler struct {
	flow      businessflow.IngestFlow
	validator *validator.Validate
}

func NewIngestHandler(flow businessflow.IngestFlow) IngestHandlerInterface {
	return &IngestHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// bindIngest decodes and validates one ingest body into req
func (h *IngestHandler) bindIngest(c fiber.Ctx, req any) error {
	if err := c.Bind().JSON(req); err != nil {
		return err
	}
	return h.validator.Struct(req)
}

// EnergyDelivered ingests daily delivered-energy rows
func (h *IngestHandler) EnergyDelivered(c fiber.Ctx) error {
	var req dto.EnergyDeliveredIngestRequest
	if err := h.bindIngest(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", validationMessages(err))
	}

	result, err := h.flow.EnergyDelivered(createRequestContext(c, "/api/ingest/energy-delivered"), &req)
	if err != nil {
		return flowErrorResponse(c, err, "Ingest failed", "INGEST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Ingest completed", result)
}

// EnergyBilled ingests monthly billed-energy rows
func (h *IngestHandler) EnergyBilled(c fiber.Ctx) error {
	var req dto.EnergyBilledIngestRequest
	if err := h.bindIngest(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", validationMessages(err))
	}

	result, err := h.flow.EnergyBilled(createRequestContext(c, "/api/ingest/energy-billed"), &req)
	if err != nil {
		return flowErrorResponse(c, err, "Ingest failed", "INGEST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Ingest completed", result)
}

// RevenueCollected ingests daily collected-revenue rows
func (h *IngestHandler) RevenueCollected(c fiber.Ctx) error {
	var req dto.RevenueCollectedIngestRequest
	if err := h.bindIngest(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", validationMessages(err))
	}

	result, err := h.flow.RevenueCollected(createRequestContext(c, "/api/ingest/revenue-collected"), &req)
	if err != nil {
		return flowErrorResponse(c, err, "Ingest failed", "INGEST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Ingest completed", result)
}

// RevenueBilled ingests monthly billed-revenue rows
func (h *IngestHandler) RevenueBilled(c fiber.Ctx) error {
	var req dto.RevenueBilledIngestRequest
	if err := h.bindIngest(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", validationMessages(err))
	}

	result, err := h.flow.RevenueBilled(createRequestContext(c, "/api/ingest/revenue-billed"), &req)
	if err != nil {
		return flowErrorResponse(c, err, "Ingest failed", "INGEST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Ingest completed", result)
}

// CustomerStats ingests monthly customer counters
func (h *IngestHandler) CustomerStats(c fiber.Ctx) error {
	var req dto.CustomerStatsIngestRequest
	if err := h.bindIngest(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", validationMessages(err))
	}

	result, err := h.flow.CustomerStats(createRequestContext(c, "/api/ingest/customer-stats"), &req)
	if err != nil {
		return flowErrorResponse(c, err, "Ingest failed", "INGEST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Ingest completed", result)
}

// HourlyLoads ingests feeder load readings
func (h *IngestHandler) HourlyLoads(c fiber.Ctx) error {
	var req dto.HourlyLoadIngestRequest
	if err := h.bindIngest(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", validationMessages(err))
	}

	result, err := h.flow.HourlyLoads(createRequestContext(c, "/api/ingest/hourly-loads"), &req)
	if err != nil {
		return flowErrorResponse(c, err, "Ingest failed", "INGEST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Ingest completed", result)
}

// HoursOfSupply ingests daily energized-hours rows
func (h *IngestHandler) HoursOfSupply(c fiber.Ctx) error {
	var req dto.HoursOfSupplyIngestRequest
	if err := h.bindIngest(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", validationMessages(err))
	}

	result, err := h.flow.HoursOfSupply(createRequestContext(c, "/api/ingest/hours-of-supply"), &req)
	if err != nil {
		return flowErrorResponse(c, err, "Ingest failed", "INGEST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Ingest completed", result)
}

// Interruptions ingests feeder outages
func (h *IngestHandler) Interruptions(c fiber.Ctx) error {
	var req dto.InterruptionIngestRequest
	if err := h.bindIngest(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", validationMessages(err))
	}

	result, err := h.flow.Interruptions(createRequestContext(c, "/api/ingest/interruptions"), &req)
	if err != nil {
		return flowErrorResponse(c, err, "Ingest failed", "INGEST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Ingest completed", result)
}

// CommercialSummaries ingests per-representative monthly counters
func (h *IngestHandler) CommercialSummaries(c fiber.Ctx) error {
	var req dto.CommercialSummaryIngestRequest
	if err := h.bindIngest(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", validationMessages(err))
	}

	result, err := h.flow.CommercialSummaries(createRequestContext(c, "/api/ingest/commercial-summaries"), &req)
	if err != nil {
		return flowErrorResponse(c, err, "Ingest failed", "INGEST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Ingest completed", result)
}

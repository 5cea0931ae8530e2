package handlers

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	businessflow "github.com/powergridhq/disco-analytics/business_flow"
)

// FinancialHandlerInterface defines the contract for financial metrics and
// the data maintenance operations that live under the financial surface
type FinancialHandlerInterface interface {
	Overview(c fiber.Ctx) error
	AllStates(c fiber.Ctx) error
	Districts(c fiber.Ctx) error
	Feeders(c fiber.Ctx) error
	ServiceBands(c fiber.Ctx) error
	DailyCollections(c fiber.Ctx) error
	Transformers(c fiber.Ctx) error
	RepPerformance(c fiber.Ctx) error
	MergeSalesReps(c fiber.Ctx) error
	RunMaterializer(c fiber.Ctx) error
}

// FinancialHandler implements FinancialHandlerInterface
type FinancialHandler struct {
	flow         businessflow.FinancialFlow
	mergeFlow    businessflow.SalesRepMergeFlow
	materializer businessflow.MaterializerFlow
	validator    *validator.Validate
}

func NewFinancialHandler(flow businessflow.FinancialFlow, mergeFlow businessflow.SalesRepMergeFlow, materializer businessflow.MaterializerFlow) FinancialHandlerInterface {
	return &FinancialHandler{
		flow:         flow,
		mergeFlow:    mergeFlow,
		materializer: materializer,
		validator:    validator.New(),
	}
}

// Overview returns revenue, OPEX breakdown and collection channels
func (h *FinancialHandler) Overview(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.Overview(createRequestContext(c, "/api/financial/overview"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Financial metrics failed", "FINANCIAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Financial metrics computed", result)
}

// AllStates returns per-state financial rows
func (h *FinancialHandler) AllStates(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.AllStates(createRequestContext(c, "/api/financial/all-states-metrics"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Financial metrics failed", "FINANCIAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Financial metrics computed", result)
}

// Districts returns per-business-district financial rows
func (h *FinancialHandler) Districts(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.Districts(createRequestContext(c, "/api/financial/all-business-districts-metrics"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Financial metrics failed", "FINANCIAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Financial metrics computed", result)
}

// Feeders returns per-feeder financial rows
func (h *FinancialHandler) Feeders(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.Feeders(createRequestContext(c, "/api/financial/feeder"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Financial metrics failed", "FINANCIAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Financial metrics computed", result)
}

// ServiceBands returns per-service-band financial rows
func (h *FinancialHandler) ServiceBands(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.ServiceBands(createRequestContext(c, "/api/financial/service-band-financial-metrics"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Financial metrics failed", "FINANCIAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Financial metrics computed", result)
}

// DailyCollections lists individual collection records in the window
func (h *FinancialHandler) DailyCollections(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.DailyCollections(createRequestContext(c, "/api/financial/daily-collections"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Financial metrics failed", "FINANCIAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Financial metrics computed", result)
}

// Transformers returns per-transformer collection totals
func (h *FinancialHandler) Transformers(c fiber.Ctx) error {
	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.Transformers(createRequestContext(c, "/api/financial/transformer-metrics"), query)
	if err != nil {
		return flowErrorResponse(c, err, "Financial metrics failed", "FINANCIAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Financial metrics computed", result)
}

// RepPerformance lists the monthly performance rows of one sales rep
func (h *FinancialHandler) RepPerformance(c fiber.Ctx) error {
	repID, err := strconv.ParseUint(c.Params("rep_id"), 10, 32)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid sales rep id", "INVALID_REP_ID", nil)
	}

	query, err := bindAnalyticsQuery(c, h.validator)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	result, err := h.flow.RepPerformance(createRequestContext(c, "/api/financial/sales-reps/performance"), uint(repID), query)
	if err != nil {
		if businessflow.IsSalesRepNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Sales rep not found", "SALES_REP_NOT_FOUND", nil)
		}
		return flowErrorResponse(c, err, "Financial metrics failed", "FINANCIAL_METRICS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Financial metrics computed", result)
}

// MergeSalesReps consolidates duplicate sales representatives by name.
// Pass dry_run=true to report counts without mutating anything.
func (h *FinancialHandler) MergeSalesReps(c fiber.Ctx) error {
	dryRun := c.Query("dry_run") == "true"

	result, err := h.mergeFlow.Merge(createRequestContext(c, "/api/financial/sales-reps/merge"), dryRun)
	if err != nil {
		if businessflow.IsMergeConflict(err) {
			return errorResponse(c, fiber.StatusInternalServerError, "Merge failed after retries", "MERGE_CONFLICT", nil)
		}
		log.Println("Sales rep merge failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Merge failed", "MERGE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Merge completed", result)
}

// RunMaterializer rebuilds the derived feeder-energy facts. Mode is "full"
// or "incremental"; full is the default.
func (h *FinancialHandler) RunMaterializer(c fiber.Ctx) error {
	mode := c.Query("mode")

	result, err := h.materializer.Run(createRequestContextWithTimeout(c, "/api/admin/materializer/run", materializerTimeout), mode)
	if err != nil {
		if businessflow.IsUnknownMaterializerMode(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Unknown materializer mode", "UNKNOWN_MODE", nil)
		}
		log.Println("Materializer run failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Materializer run failed", "MATERIALIZER_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Materializer run completed", result)
}

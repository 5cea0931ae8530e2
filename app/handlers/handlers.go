// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/powergridhq/disco-analytics/app/dto"
	businessflow "github.com/powergridhq/disco-analytics/business_flow"
	"github.com/powergridhq/disco-analytics/utils"
)

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return err.Field() + " must be at least " + err.Param()
	case "max":
		return err.Field() + " must be at most " + err.Param()
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

func validationMessages(err error) []string {
	var messages []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, verr := range verrs {
			messages = append(messages, getValidationErrorMessage(verr))
		}
		return messages
	}
	return []string{err.Error()}
}

// materializerTimeout bounds a full rebuild of the derived facts
const materializerTimeout = 5 * time.Minute

// createRequestContext builds a request-scoped context carrying correlation
// values for the flows. The caller's deadline bounds every store query.
func createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}

func errorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func successResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// flowErrorResponse maps a flow failure to an HTTP status. Missing or
// unknown required selectors are client errors; deadline expiry surfaces
// as a gateway timeout; everything else is a store-side failure.
func flowErrorResponse(c fiber.Ctx, err error, message, code string) error {
	if businessflow.IsStateRequired(err) || businessflow.IsStateNotFound(err) {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid state", "INVALID_STATE", nil)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errorResponse(c, fiber.StatusGatewayTimeout, "Request timed out", "TIMEOUT", nil)
	}
	log.Println(message, err)
	return errorResponse(c, fiber.StatusServiceUnavailable, message, code, nil)
}

// bindAnalyticsQuery parses the shared analytics query surface. Unparseable
// values are left at their zero value per the filter conventions.
func bindAnalyticsQuery(c fiber.Ctx, v *validator.Validate) (dto.AnalyticsQuery, error) {
	var q dto.AnalyticsQuery
	if err := c.Bind().Query(&q); err != nil {
		// Malformed values are treated as absent, not as a client error.
		q = dto.AnalyticsQuery{}
	}
	if err := v.Struct(&q); err != nil {
		return q, err
	}
	return q, nil
}

package handlers

import (
	"log"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/powergridhq/disco-analytics/repository"
)

// CRUDHandler serves the standard entity endpoints for one persisted type.
// Deletes blocked by a foreign key (a transformer that still has customers,
// a state that still has districts) return 409 instead of cascading.
type CRUDHandler[T any] struct {
	repo      repository.Repository[T]
	entity    string
	validator *validator.Validate
}

// NewCRUDHandler creates CRUD endpoints for one entity; entity names the
// resource in paths and messages, e.g. "states".
func NewCRUDHandler[T any](repo repository.Repository[T], entity string) *CRUDHandler[T] {
	return &CRUDHandler[T]{
		repo:      repo,
		entity:    entity,
		validator: validator.New(),
	}
}

func (h *CRUDHandler[T]) endpoint() string {
	return "/api/" + h.entity
}

// List returns a page of entities with the total count
func (h *CRUDHandler[T]) List(c fiber.Ctx) error {
	limit := fiber.Query(c, "limit", 100)
	offset := fiber.Query(c, "offset", 0)
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	ctx := createRequestContext(c, h.endpoint())
	items, err := h.repo.List(ctx, limit, offset)
	if err != nil {
		log.Println("List failed for", h.entity, err)
		return errorResponse(c, fiber.StatusServiceUnavailable, "Listing failed", "LIST_FAILED", nil)
	}
	total, err := h.repo.Count(ctx)
	if err != nil {
		log.Println("Count failed for", h.entity, err)
		return errorResponse(c, fiber.StatusServiceUnavailable, "Listing failed", "LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Listed", fiber.Map{
		"items":  items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// Get returns one entity by ID
func (h *CRUDHandler[T]) Get(c fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_ID", nil)
	}

	item, err := h.repo.ByID(createRequestContext(c, h.endpoint()), uint(id))
	if err != nil {
		log.Println("Lookup failed for", h.entity, err)
		return errorResponse(c, fiber.StatusServiceUnavailable, "Lookup failed", "LOOKUP_FAILED", nil)
	}
	if item == nil {
		return errorResponse(c, fiber.StatusNotFound, "Not found", "NOT_FOUND", nil)
	}

	return successResponse(c, fiber.StatusOK, "Found", item)
}

// Create persists a new entity from the request body
func (h *CRUDHandler[T]) Create(c fiber.Ctx) error {
	var item T
	if err := c.Bind().JSON(&item); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&item); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	if err := h.repo.Save(createRequestContext(c, h.endpoint()), &item); err != nil {
		if isUniqueViolation(err) {
			return errorResponse(c, fiber.StatusConflict, "Already exists", "DUPLICATE", nil)
		}
		log.Println("Create failed for", h.entity, err)
		return errorResponse(c, fiber.StatusInternalServerError, "Create failed", "CREATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Created", item)
}

// Update replaces an entity identified by the path ID
func (h *CRUDHandler[T]) Update(c fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_ID", nil)
	}

	ctx := createRequestContext(c, h.endpoint())
	existing, err := h.repo.ByID(ctx, uint(id))
	if err != nil {
		log.Println("Lookup failed for", h.entity, err)
		return errorResponse(c, fiber.StatusServiceUnavailable, "Lookup failed", "LOOKUP_FAILED", nil)
	}
	if existing == nil {
		return errorResponse(c, fiber.StatusNotFound, "Not found", "NOT_FOUND", nil)
	}

	if err := c.Bind().JSON(existing); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(existing); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	if err := h.repo.Update(ctx, existing); err != nil {
		if isUniqueViolation(err) {
			return errorResponse(c, fiber.StatusConflict, "Already exists", "DUPLICATE", nil)
		}
		log.Println("Update failed for", h.entity, err)
		return errorResponse(c, fiber.StatusInternalServerError, "Update failed", "UPDATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Updated", existing)
}

// Delete removes an entity by ID
func (h *CRUDHandler[T]) Delete(c fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_ID", nil)
	}

	if err := h.repo.Delete(createRequestContext(c, h.endpoint()), uint(id)); err != nil {
		if isForeignKeyViolation(err) {
			return errorResponse(c, fiber.StatusConflict, "Entity is still referenced", "PROTECTED", nil)
		}
		log.Println("Delete failed for", h.entity, err)
		return errorResponse(c, fiber.StatusInternalServerError, "Delete failed", "DELETE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Deleted", nil)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "violates foreign key constraint")
}

package handlers

import (
	"strconv"

	"labis-admin/internal/adapters/persistence/repositories"
	"labis-admin/internal/pkg/pagination"
	"labis-admin/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves list/get/create/update/delete for one catalog
// resource. All twelve reference-data screens of the console are backed by
// instances of this one handler; per-resource differences live entirely in
// the descriptor passed to NewCatalogHandler.
type CatalogHandler[T any, R any] struct {
	desc CatalogDescriptor[T, R]
}

// CatalogDescriptor parameterizes a catalog resource
type CatalogDescriptor[T any, R any] struct {
	// Singular and plural display names used in response messages
	Name   string
	Plural string
	Repo   *repositories.CatalogRepository[T]
	// RefParams maps a filter query parameter to its column, e.g.
	// "provinceId" -> "province_id"
	RefParams map[string]string
	// Validate checks a request body; partial is true for updates
	Validate func(req *R, partial bool) error
	// Apply copies request fields onto the model; partial updates only
	// overwrite provided fields
	Apply func(m *T, req *R, partial bool)
	// CodeOf extracts the unique business code for duplicate checks;
	// empty string skips the check
	CodeOf     func(req *R) string
	CodeColumn string
}

// NewCatalogHandler creates a handler from a resource descriptor
func NewCatalogHandler[T any, R any](desc CatalogDescriptor[T, R]) *CatalogHandler[T, R] {
	return &CatalogHandler[T, R]{desc: desc}
}

// Register mounts the CRUD routes on a router group
func (h *CatalogHandler[T, R]) Register(router fiber.Router) {
	router.Get("/", h.List)
	router.Get("/:id", h.Get)
	router.Post("/", h.Create)
	router.Put("/:id", h.Update)
	router.Delete("/:id", h.Delete)
}

// List lists one window of the resource with search and filters
func (h *CatalogHandler[T, R]) List(c *fiber.Ctx) error {
	filter := h.filterFromQuery(c)

	items, total, err := h.desc.Repo.List(c.Context(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to list "+h.desc.Plural)
	}

	return response.List(c, h.desc.Plural+" retrieved successfully", items, total, filter.Limit, filter.Offset)
}

// ListByRef returns a handler listing the resource scoped to a parent
// resource id taken from the path (nested listing endpoints)
func (h *CatalogHandler[T, R]) ListByRef(column string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := h.filterFromQuery(c)
		if filter.Refs == nil {
			filter.Refs = map[string]string{}
		}
		filter.Refs[column] = c.Params("id")

		items, total, err := h.desc.Repo.List(c.Context(), filter)
		if err != nil {
			return response.InternalServerError(c, "Failed to list "+h.desc.Plural)
		}

		return response.List(c, h.desc.Plural+" retrieved successfully", items, total, filter.Limit, filter.Offset)
	}
}

// Get gets one resource by ID
func (h *CatalogHandler[T, R]) Get(c *fiber.Ctx) error {
	item, err := h.desc.Repo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return response.NotFound(c, h.desc.Name+" not found")
	}

	return response.Success(c, h.desc.Name+" retrieved successfully", item)
}

// Create creates a new resource
func (h *CatalogHandler[T, R]) Create(c *fiber.Ctx) error {
	var req R
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.desc.Validate(&req, false); err != nil {
		return response.BadRequest(c, err.Error())
	}

	if code := h.desc.CodeOf(&req); code != "" {
		exists, err := h.desc.Repo.ExistsWhere(c.Context(), h.desc.CodeColumn+" = ?", code)
		if err != nil {
			return response.InternalServerError(c, "Failed to create "+h.desc.Name)
		}
		if exists {
			return response.Conflict(c, h.desc.Name+" code already exists")
		}
	}

	item := new(T)
	h.desc.Apply(item, &req, false)

	if err := h.desc.Repo.Create(c.Context(), item); err != nil {
		return response.InternalServerError(c, "Failed to create "+h.desc.Name)
	}

	return response.Created(c, h.desc.Name+" created successfully", item)
}

// Update updates an existing resource. Only provided fields change.
func (h *CatalogHandler[T, R]) Update(c *fiber.Ctx) error {
	item, err := h.desc.Repo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return response.NotFound(c, h.desc.Name+" not found")
	}

	var req R
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.desc.Validate(&req, true); err != nil {
		return response.BadRequest(c, err.Error())
	}

	h.desc.Apply(item, &req, true)

	if err := h.desc.Repo.Update(c.Context(), item); err != nil {
		return response.InternalServerError(c, "Failed to update "+h.desc.Name)
	}

	return response.Success(c, h.desc.Name+" updated successfully", item)
}

// Delete soft deletes a resource after confirming it exists
func (h *CatalogHandler[T, R]) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	if _, err := h.desc.Repo.GetByID(c.Context(), id); err != nil {
		return response.NotFound(c, h.desc.Name+" not found")
	}

	if err := h.desc.Repo.Delete(c.Context(), id); err != nil {
		return response.InternalServerError(c, "Failed to delete "+h.desc.Name)
	}

	return response.Success(c, h.desc.Name+" deleted successfully", nil)
}

// filterFromQuery builds the repository filter from the query string.
// Only parameters actually present become part of the filter.
func (h *CatalogHandler[T, R]) filterFromQuery(c *fiber.Ctx) repositories.CatalogFilter {
	window := pagination.GetWindow(c)

	filter := repositories.CatalogFilter{
		Search: c.Query("search"),
		Limit:  window.Limit,
		Offset: window.Offset,
	}

	// isActive is tri-state: absent means "all"
	if raw := c.Query("isActive"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}

	for param, column := range h.desc.RefParams {
		if val := c.Query(param); val != "" {
			if filter.Refs == nil {
				filter.Refs = map[string]string{}
			}
			filter.Refs[column] = val
		}
	}

	return filter
}

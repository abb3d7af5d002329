package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/elearnhq/elearn-api/internal/dto"
	"github.com/elearnhq/elearn-api/internal/service"
	"github.com/elearnhq/elearn-api/internal/utils"
)

// CatalogHandler wires category and level HTTP routes.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// RegisterCategories attaches category endpoints to the router group.
// Writes require authentication plus the instructor role.
func (h *CatalogHandler) RegisterCategories(router fiber.Router, authenticated, instructorOnly fiber.Handler) {
	router.Get("", h.listCategories)
	router.Get("/:id", h.getCategory)
	router.Post("", authenticated, instructorOnly, h.createCategory)
	router.Patch("/:id", authenticated, instructorOnly, h.updateCategory)
	router.Delete("/:id", authenticated, instructorOnly, h.deleteCategory)
}

// RegisterLevels attaches level endpoints to the router group.
func (h *CatalogHandler) RegisterLevels(router fiber.Router, authenticated, instructorOnly fiber.Handler) {
	router.Get("", h.listLevels)
	router.Get("/:id", h.getLevel)
	router.Post("", authenticated, instructorOnly, h.createLevel)
	router.Patch("/:id", authenticated, instructorOnly, h.updateLevel)
	router.Delete("/:id", authenticated, instructorOnly, h.deleteLevel)
}

func (h *CatalogHandler) listCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.Context(), c.Query("search"))
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "categories retrieved", categories)
}

func (h *CatalogHandler) getCategory(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	category, err := h.service.GetCategory(c.Context(), id)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "category retrieved", category)
}

func (h *CatalogHandler) createCategory(c *fiber.Ctx) error {
	var payload dto.CategoryRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	category, err := h.service.CreateCategory(c.Context(), identityFromContext(c), payload)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}
	return utils.SendCreated(c, "category created", category)
}

func (h *CatalogHandler) updateCategory(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CategoryRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	category, err := h.service.UpdateCategory(c.Context(), identityFromContext(c), id, payload)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "category updated", category)
}

func (h *CatalogHandler) deleteCategory(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteCategory(c.Context(), identityFromContext(c), id); err != nil {
		return handleServiceError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "category deleted", fiber.Map{"id": id})
}

func (h *CatalogHandler) listLevels(c *fiber.Ctx) error {
	levels, err := h.service.ListLevels(c.Context(), c.Query("search"))
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "levels retrieved", levels)
}

func (h *CatalogHandler) getLevel(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	level, err := h.service.GetLevel(c.Context(), id)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "level retrieved", level)
}

func (h *CatalogHandler) createLevel(c *fiber.Ctx) error {
	var payload dto.LevelRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	level, err := h.service.CreateLevel(c.Context(), identityFromContext(c), payload)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}
	return utils.SendCreated(c, "level created", level)
}

func (h *CatalogHandler) updateLevel(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.LevelRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	level, err := h.service.UpdateLevel(c.Context(), identityFromContext(c), id, payload)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "level updated", level)
}

func (h *CatalogHandler) deleteLevel(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteLevel(c.Context(), identityFromContext(c), id); err != nil {
		return handleServiceError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "level deleted", fiber.Map{"id": id})
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/elearnhq/elearn-api/internal/dto"
	"github.com/elearnhq/elearn-api/internal/service"
	"github.com/elearnhq/elearn-api/internal/utils"
)

// CourseHandler wires course HTTP routes.
type CourseHandler struct {
	service service.CourseService
	logger  zerolog.Logger
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(service service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		logger:  logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register attaches course endpoints to the router group. Reads are
// public but throttled; writes go through the jwt middleware passed by
// the router.
func (h *CourseHandler) Register(router fiber.Router, throttled fiber.Handler, authenticated fiber.Handler) {
	router.Get("", throttled, h.list)
	router.Get("/:courseID", throttled, h.get)
	router.Post("", authenticated, h.create)
	router.Patch("/:courseID", authenticated, h.update)
	router.Delete("/:courseID", authenticated, h.delete)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	req := dto.CourseListRequest{
		Search:       c.Query("search"),
		CategoryID:   parseQueryUint(c, "category_id"),
		CategoryName: c.Query("category"),
		LevelName:    c.Query("level"),
		InstructorID: parseQueryUint(c, "instructor_id"),
		MinPrice:     parseQueryFloat(c, "min_price"),
		MaxPrice:     parseQueryFloat(c, "max_price"),
		MinRating:    parseQueryFloat(c, "min_rating"),
		Page:         parseQueryInt(c, "page"),
		PageSize:     parseQueryInt(c, "page_size"),
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "courses retrieved", result)
}

func (h *CourseHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	course, err := h.service.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "course retrieved", course)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.service.Create(c.Context(), identityFromContext(c), payload)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendCreated(c, "course created", course)
}

func (h *CourseHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CourseUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.service.Update(c.Context(), identityFromContext(c), id, payload)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "course updated", course)
}

func (h *CourseHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), identityFromContext(c), id); err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "course deleted", fiber.Map{"id": id})
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/elearnhq/elearn-api/internal/dto"
	"github.com/elearnhq/elearn-api/internal/service"
	"github.com/elearnhq/elearn-api/internal/utils"
)

// LessonHandler wires lesson and lesson file HTTP routes.
type LessonHandler struct {
	service service.LessonService
	logger  zerolog.Logger
}

// NewLessonHandler constructs the handler.
func NewLessonHandler(service service.LessonService, logger zerolog.Logger) *LessonHandler {
	return &LessonHandler{
		service: service,
		logger:  logger.With().Str("component", "lesson_handler").Logger(),
	}
}

// Register attaches lesson endpoints under /courses/:courseID/lessons.
// Reads run behind the optional auth middleware so enrollment gating can
// see the caller; writes require a token.
func (h *LessonHandler) Register(router fiber.Router, authenticated fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:lessonID", h.get)
	router.Post("", authenticated, h.create)
	router.Patch("/:lessonID", authenticated, h.update)
	router.Delete("/:lessonID", authenticated, h.delete)
}

// RegisterFiles attaches lesson file endpoints under /lessons/:lessonID/files.
func (h *LessonHandler) RegisterFiles(router fiber.Router, authenticated fiber.Handler) {
	router.Get("", h.listFiles)
	router.Post("", authenticated, h.uploadFile)
	router.Delete("/:fileID", authenticated, h.deleteFile)
}

func (h *LessonHandler) list(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	lessons, err := h.service.List(c.Context(), identityFromContext(c), courseID, c.Query("search"))
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "lessons retrieved", lessons)
}

func (h *LessonHandler) get(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	lessonID, err := parseUintParam(c, "lessonID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	lesson, err := h.service.Get(c.Context(), identityFromContext(c), courseID, lessonID)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "lesson retrieved", lesson)
}

func (h *LessonHandler) create(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.LessonCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	lesson, err := h.service.Create(c.Context(), identityFromContext(c), courseID, payload)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendCreated(c, "lesson created", lesson)
}

func (h *LessonHandler) update(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	lessonID, err := parseUintParam(c, "lessonID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.LessonUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	lesson, err := h.service.Update(c.Context(), identityFromContext(c), courseID, lessonID, payload)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "lesson updated", lesson)
}

func (h *LessonHandler) delete(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	lessonID, err := parseUintParam(c, "lessonID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), identityFromContext(c), courseID, lessonID); err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "lesson deleted", fiber.Map{"id": lessonID})
}

func (h *LessonHandler) listFiles(c *fiber.Ctx) error {
	lessonID, err := parseUintParam(c, "lessonID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	files, err := h.service.ListFiles(c.Context(), identityFromContext(c), lessonID)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "lesson files retrieved", files)
}

func (h *LessonHandler) uploadFile(c *fiber.Ctx) error {
	lessonID, err := parseUintParam(c, "lessonID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unable to read file")
	}
	defer file.Close()

	uploaded, err := h.service.UploadFile(c.Context(), identityFromContext(c), lessonID, fileHeader.Filename, file)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendCreated(c, "lesson file uploaded", uploaded)
}

func (h *LessonHandler) deleteFile(c *fiber.Ctx) error {
	lessonID, err := parseUintParam(c, "lessonID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	fileID, err := parseUintParam(c, "fileID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteFile(c.Context(), identityFromContext(c), lessonID, fileID); err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "lesson file deleted", fiber.Map{"id": fileID})
}

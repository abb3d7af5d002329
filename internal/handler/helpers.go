package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/elearnhq/elearn-api/internal/authz"
	"github.com/elearnhq/elearn-api/internal/middleware"
	"github.com/elearnhq/elearn-api/internal/service"
	"github.com/elearnhq/elearn-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value := c.Params(name)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

// parseQueryUint reads an optional numeric filter; malformed values are
// dropped rather than rejected.
func parseQueryUint(c *fiber.Ctx, key string) *uint {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil
	}
	result := uint(parsed)
	return &result
}

func parseQueryFloat(c *fiber.Ctx, key string) *float64 {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseQueryInt(c *fiber.Ctx, key string) int {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}

// identityFromContext builds the caller identity from the locals the JWT
// middleware populates. A missing token yields the anonymous identity.
func identityFromContext(c *fiber.Ctx) authz.Identity {
	identity := authz.Identity{}
	if v := c.Locals("user_id"); v != nil {
		switch id := v.(type) {
		case uint:
			identity.UserID = id
		case int:
			if id > 0 {
				identity.UserID = uint(id)
			}
		}
	}
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			identity.Role = role
		}
	}
	return identity
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// handleServiceError maps the shared error taxonomy onto HTTP responses.
func handleServiceError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrNotEnrolled):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrAlreadyRated):
		return utils.SendError(c, fiber.StatusForbidden, "you have already rated this course")
	case errors.Is(err, authz.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	case errors.Is(err, service.ErrAlreadySubmitted):
		return utils.SendError(c, fiber.StatusConflict, "you have already submitted this quiz")
	case errors.Is(err, service.ErrQuizInactive):
		return utils.SendError(c, fiber.StatusBadRequest, "quiz is not active")
	case errors.Is(err, service.ErrSelfEnroll):
		return utils.SendError(c, fiber.StatusBadRequest, "instructors cannot enroll in their own courses")
	case isNotFound(err):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case service.IsValidation(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func isNotFound(err error) bool {
	for _, target := range []error{
		authz.ErrNotFound,
		service.ErrCourseNotFound,
		service.ErrCategoryNotFound,
		service.ErrLevelNotFound,
		service.ErrLessonNotFound,
		service.ErrLessonFileNotFound,
		service.ErrQuizNotFound,
		service.ErrQuestionNotFound,
		service.ErrEnrollmentNotFound,
		service.ErrRatingNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// methodNotAllowed answers routes that exist but deliberately reject the
// verb, such as deleting a rating or amending a submission.
func methodNotAllowed(message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusMethodNotAllowed, message)
	}
}

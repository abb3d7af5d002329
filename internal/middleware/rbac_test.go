package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/elearnhq/elearn-api/internal/models"
)

func roleApp(t *testing.T, role string, guard fiber.Handler) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != "" {
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	app.Get("/manage", guard, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleAllowsListedRoles(t *testing.T) {
	app := roleApp(t, models.RoleInstructor, RequireRole(models.RoleInstructor, models.RoleAdmin))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/manage", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	app := roleApp(t, models.RoleStudent, RequireRole(models.RoleInstructor))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/manage", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	app := roleApp(t, "", RequireRole(models.RoleInstructor))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/manage", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/elearnhq/elearn-api/internal/utils"
)

// RequireRole rejects requests whose token role is not one of the allowed
// roles. It must run after JWT validation, which stores the role string in
// request locals; requests carrying no role are rejected too.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		if normalized := normalizeRoleString(role); normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		if _, ok := allowed[normalizeRoleString(role)]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

func normalizeRoleString(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

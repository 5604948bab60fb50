package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nairbf/Reservekit-sub003/internal/service"
)

// RequirePermission gates a route on one capability. The capability must be
// in the registry; an unknown name panics when the route table is built so
// a typo can never ship as a silent bypass. The response never names the
// capability: a valid session without it gets a bare 403.
func RequirePermission(permissions *service.PermissionService, capability string) fiber.Handler {
	if !service.KnownCapability(capability) {
		panic(fmt.Sprintf("middleware: unregistered capability %q", capability))
	}

	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(uuid.UUID)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		// Checked against the store on every call; nothing is cached, so
		// a mid-session revocation applies to the next guarded request.
		if err := permissions.Require(c.Context(), userID, capability); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden",
			})
		}

		return c.Next()
	}
}

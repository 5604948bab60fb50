package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nairbf/Reservekit-sub003/internal/domain"
	"github.com/nairbf/Reservekit-sub003/internal/service"
)

// RequireSession validates the session cookie against one application scope
// and stores the authenticated user in fiber.Locals. Missing, unknown,
// expired and wrong-scope tokens all produce the same 401.
func RequireSession(sessions *service.SessionService, cookieName string, scope domain.AppScope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)

		user, err := sessions.Validate(c.Context(), token, scope)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		c.Locals("user", user)
		c.Locals("user_id", user.ID)

		return c.Next()
	}
}

package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nairbf/Reservekit-sub003/internal/config"
	"github.com/nairbf/Reservekit-sub003/internal/domain"
	"github.com/nairbf/Reservekit-sub003/internal/service"
	"github.com/nairbf/Reservekit-sub003/pkg/validator"
)

type AuthHandler struct {
	authService    *service.AuthService
	sessionService *service.SessionService
	cookies        config.SessionConfig
	validate       *validator.Validator
}

func NewAuthHandler(
	authService *service.AuthService,
	sessionService *service.SessionService,
	cookies config.SessionConfig,
	validate *validator.Validator,
) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		sessionService: sessionService,
		cookies:        cookies,
		validate:       validate,
	}
}

// Login authenticates credentials and sets the session cookie. The mount
// point determines the scope, not the request body.
// POST /api/{marketing|admin|dashboard}/auth/login
func (h *AuthHandler) Login(scope domain.AppScope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		req.Scope = string(scope)

		if err := h.validate.Validate(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		result, err := h.authService.Login(c.Context(), req)
		if err != nil {
			// Unknown email and wrong password are indistinguishable.
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid credentials",
			})
		}

		h.setSessionCookie(c, result.Token, result.Session.ExpiresAt)

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"user": result.User,
		})
	}
}

// Me returns the authenticated user.
// GET /api/{marketing|admin|dashboard}/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*domain.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": user,
	})
}

// Logout revokes the session if one exists and always clears the cookie,
// so the response is identical whether or not the token was valid.
// POST /api/{marketing|admin|dashboard}/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(h.cookies.CookieName)

	// A revocation failure must not keep the client logged in; the cookie
	// is cleared regardless.
	_ = h.sessionService.Revoke(c.Context(), token)

	h.clearSessionCookie(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok": true,
	})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookies.CookieName,
		Value:    token,
		Domain:   h.cookies.CookieDomain,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookies.CookieName,
		Value:    "",
		Domain:   h.cookies.CookieDomain,
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

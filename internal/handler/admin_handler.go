package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nairbf/Reservekit-sub003/internal/repository"
	"github.com/nairbf/Reservekit-sub003/internal/service"
	"github.com/nairbf/Reservekit-sub003/pkg/validator"
)

// AdminHandler holds the platform console's permission-gated mutations.
type AdminHandler struct {
	users    repository.UserRepository
	validate *validator.Validator
}

type permissionRequest struct {
	Permission string `json:"permission" validate:"required"`
}

func NewAdminHandler(users repository.UserRepository, validate *validator.Validator) *AdminHandler {
	return &AdminHandler{
		users:    users,
		validate: validate,
	}
}

// DeleteUser removes a user account.
// DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	if err := h.users.Delete(c.Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete user",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok": true,
	})
}

// GrantPermission adds a capability to a user.
// POST /api/admin/users/:id/permissions
func (h *AdminHandler) GrantPermission(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	var req permissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := h.validate.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	// Grants go through the registry so a typo cannot mint an orphan
	// capability that no route will ever check.
	if !service.KnownCapability(req.Permission) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown permission",
		})
	}

	if err := h.users.GrantPermission(c.Context(), id, req.Permission); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to grant permission",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok": true,
	})
}

// RevokePermission removes a capability from a user. The next guarded
// request by that user observes the revocation.
// DELETE /api/admin/users/:id/permissions
func (h *AdminHandler) RevokePermission(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	var req permissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := h.validate.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := h.users.RevokePermission(c.Context(), id, req.Permission); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to revoke permission",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok": true,
	})
}

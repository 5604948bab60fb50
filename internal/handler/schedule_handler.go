package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nairbf/Reservekit-sub003/internal/domain"
	"github.com/nairbf/Reservekit-sub003/internal/repository"
	"github.com/nairbf/Reservekit-sub003/pkg/validator"
)

// ScheduleHandler holds the dashboard's permission-gated mutations.
type ScheduleHandler struct {
	schedules repository.ScheduleRepository
	validate  *validator.Validator
}

type scheduleRequest struct {
	Timezone string `json:"timezone" validate:"required"`
	OpensAt  string `json:"opens_at" validate:"required,datetime=15:04"`
	ClosesAt string `json:"closes_at" validate:"required,datetime=15:04"`
}

func NewScheduleHandler(schedules repository.ScheduleRepository, validate *validator.Validator) *ScheduleHandler {
	return &ScheduleHandler{
		schedules: schedules,
		validate:  validate,
	}
}

// Update replaces the caller's booking window.
// PUT /api/schedule
func (h *ScheduleHandler) Update(c *fiber.Ctx) error {
	ownerID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req scheduleRequest
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

	schedule := &domain.Schedule{
		OwnerID:   ownerID,
		Timezone:  req.Timezone,
		OpensAt:   req.OpensAt,
		ClosesAt:  req.ClosesAt,
		UpdatedAt: time.Now(),
	}

	if err := h.schedules.Upsert(c.Context(), schedule); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update schedule",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":       true,
		"schedule": schedule,
	})
}

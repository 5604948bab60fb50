package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nairbf/Reservekit-sub003/internal/service"
)

type HealthHandler struct {
	licenseService *service.LicenseService
	version        string
	started        time.Time
}

func NewHealthHandler(licenseService *service.LicenseService, version string) *HealthHandler {
	return &HealthHandler{
		licenseService: licenseService,
		version:        version,
		started:        time.Now(),
	}
}

// Health reports service status and the masked license state.
// GET /api/health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	info := h.licenseService.Info(c.Context())

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
		"license": info,
	})
}

package handler

import (
	"crypto/subtle"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/nairbf/Reservekit-sub003/internal/service"
)

// CronHandler exposes scheduled jobs to an external scheduler. Every job is
// gated by a shared secret; a mismatch is a bare 401 and the job body never
// runs.
type CronHandler struct {
	secret          string
	sequenceService *service.SequenceService
	sessionService  *service.SessionService
}

func NewCronHandler(secret string, sequenceService *service.SequenceService, sessionService *service.SessionService) *CronHandler {
	return &CronHandler{
		secret:          secret,
		sequenceService: sequenceService,
		sessionService:  sessionService,
	}
}

// Run dispatches a named job.
// GET /api/cron/:job?secret=...
func (h *CronHandler) Run(c *fiber.Ctx) error {
	if !h.authorized(c.Query("secret")) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	switch c.Params("job") {
	case "process-emails":
		return h.processEmails(c)
	case "cleanup-sessions":
		return h.cleanupSessions(c)
	}

	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "unknown job",
	})
}

func (h *CronHandler) processEmails(c *fiber.Ctx) error {
	summary, err := h.sequenceService.ProcessPending(c.Context())
	if err != nil {
		// Only a whole-batch failure reaches here; per-step delivery
		// failures are reported in the summary with a 200.
		log.Printf("[CRON] process-emails failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "job failed",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"job":       "process-emails",
		"attempted": summary.Attempted,
		"sent":      summary.Sent,
		"failed":    summary.Failed,
		"skipped":   summary.Skipped,
	})
}

func (h *CronHandler) cleanupSessions(c *fiber.Ctx) error {
	if err := h.sessionService.PurgeExpired(c.Context()); err != nil {
		log.Printf("[CRON] cleanup-sessions failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "job failed",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"job": "cleanup-sessions",
		"ok":  true,
	})
}

// authorized compares secrets in constant time. An unset server secret
// disables the endpoint entirely rather than leaving it open.
func (h *CronHandler) authorized(provided string) bool {
	if h.secret == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(h.secret), []byte(provided)) == 1
}

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"
)

// ProbeHandler handles health and Kubernetes probe endpoints.
type ProbeHandler struct {
	checker ConnectionChecker
	now     func() time.Time
}

// NewProbeHandler creates a new probe handler.
func NewProbeHandler(checker ConnectionChecker) *ProbeHandler {
	return &ProbeHandler{checker: checker, now: time.Now}
}

// Health handles the /health endpoint. It always answers 200 while the
// process is up and reports the Slack connection separately.
func (h *ProbeHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "HOLMES system operational",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"slack":     h.checker.Connected(),
	})
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// Returns 200 OK once the bot token has been verified against Slack.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if !h.checker.Connected() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "slack unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

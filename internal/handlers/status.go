package handlers

import (
	"sort"

	"github.com/gofiber/fiber/v3"

	"holmes/internal/actions"
	"holmes/internal/render"
)

// StatusHandler serves the operator status page.
type StatusHandler struct {
	registry *actions.Registry
	channels []string
	checker  ConnectionChecker
}

// NewStatusHandler creates a new status page handler.
func NewStatusHandler(registry *actions.Registry, channels []string, checker ConnectionChecker) *StatusHandler {
	return &StatusHandler{registry: registry, channels: channels, checker: checker}
}

type actionRow struct {
	ID          string
	Description string
}

// Index renders registered actions, watched channels and the Slack link state.
func (h *StatusHandler) Index(c fiber.Ctx) error {
	list := h.registry.List()
	rows := make([]actionRow, 0, len(list))
	for id, desc := range list {
		rows = append(rows, actionRow{ID: id, Description: desc})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	return c.Render("status", fiber.Map{
		"Title":     "HOLMES",
		"Connected": h.checker.Connected(),
		"Actions":   rows,
		"Channels":  h.channels,
		"Templates": render.Names(),
	})
}

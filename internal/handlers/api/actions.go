package api

import (
	"sort"

	"github.com/gofiber/fiber/v3"

	"holmes/internal/actions"
)

// ActionInfo describes one registered action identifier.
type ActionInfo struct {
	ID      string `json:"id"`
	Handler string `json:"handler"`
}

// ActionsHandler exposes the action registry.
type ActionsHandler struct {
	registry *actions.Registry
}

// NewActionsHandler creates a new actions API handler.
func NewActionsHandler(registry *actions.Registry) *ActionsHandler {
	return &ActionsHandler{registry: registry}
}

// List returns every registered action sorted by identifier.
func (h *ActionsHandler) List(c fiber.Ctx) error {
	list := h.registry.List()
	out := make([]ActionInfo, 0, len(list))
	for id, desc := range list {
		out = append(out, ActionInfo{ID: id, Handler: desc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return jsonSuccess(c, out)
}

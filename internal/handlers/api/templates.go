package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"holmes/internal/render"
	"holmes/internal/validation"
)

// TemplatesHandler lists and previews response templates.
type TemplatesHandler struct {
	renderer *render.Renderer
}

// NewTemplatesHandler creates a new templates API handler.
func NewTemplatesHandler(renderer *render.Renderer) *TemplatesHandler {
	return &TemplatesHandler{renderer: renderer}
}

// List returns the template names.
func (h *TemplatesHandler) List(c fiber.Ctx) error {
	return jsonSuccess(c, render.Names())
}

// Preview renders a template with parameters taken from the query string:
// user, label, channel and ts (unix seconds).
func (h *TemplatesHandler) Preview(c fiber.Ctx) error {
	p := render.Params{
		UserID:  c.Query("user"),
		Label:   c.Query("label"),
		Channel: c.Query("channel"),
	}
	if p.UserID != "" && !validation.ValidateUserID(p.UserID) {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}
	if p.Channel != "" && !validation.ValidateChannelID(p.Channel) {
		return jsonError(c, fiber.StatusBadRequest, "invalid channel id")
	}
	if ts := c.Query("ts"); ts != "" {
		v, err := strconv.ParseInt(ts, 10, 64)
		if err != nil || v < 0 {
			return jsonError(c, fiber.StatusBadRequest, "invalid timestamp")
		}
		p.Timestamp = v
	}

	msg, err := h.renderer.Render(c.Params("name"), p)
	if err != nil {
		if errors.Is(err, render.ErrInvalidTemplate) {
			return jsonError(c, fiber.StatusNotFound, "template not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to render template")
	}
	return jsonSuccess(c, msg)
}

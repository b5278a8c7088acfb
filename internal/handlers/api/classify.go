package api

import (
	"github.com/gofiber/fiber/v3"

	"holmes/internal/alert"
)

// ClassifyRequest is the body of POST /api/classify.
type ClassifyRequest struct {
	Text string `json:"text"`
}

// ClassifyResponse reports the detected category and per-category scores.
type ClassifyResponse struct {
	Detected bool                   `json:"detected"`
	Category alert.Category         `json:"category,omitempty"`
	Scores   map[alert.Category]int `json:"scores"`
}

// ClassifyHandler runs alert text through the classifier.
type ClassifyHandler struct {
	classifier *alert.Classifier
}

// NewClassifyHandler creates a new classify API handler.
func NewClassifyHandler(classifier *alert.Classifier) *ClassifyHandler {
	return &ClassifyHandler{classifier: classifier}
}

// Classify handles POST /api/classify.
func (h *ClassifyHandler) Classify(c fiber.Ctx) error {
	var req ClassifyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	cat, ok := h.classifier.Classify(req.Text)
	return jsonSuccess(c, ClassifyResponse{
		Detected: ok,
		Category: cat,
		Scores:   h.classifier.Scores(req.Text),
	})
}

package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// Dispatcher runs Slack work in the background so requests can be
// acknowledged within Slack's three second budget.
type Dispatcher interface {
	DispatchEvent(event slackevents.EventsAPIEvent)
	DispatchSlashCommand(cmd slack.SlashCommand)
	DispatchInteraction(cb slack.InteractionCallback)
}

// ConnectionChecker reports whether the last Slack probe succeeded.
type ConnectionChecker interface {
	Connected() bool
}

func badRequest(c fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

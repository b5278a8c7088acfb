package handlers

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// SlackHandler receives Events API callbacks, slash commands and
// interactive payloads over HTTP.
type SlackHandler struct {
	dispatcher Dispatcher
}

// NewSlackHandler creates a new Slack handler.
func NewSlackHandler(d Dispatcher) *SlackHandler {
	return &SlackHandler{dispatcher: d}
}

// Events handles POST /slack/events. Slack sends JSON for the Events API
// and form bodies for commands and block actions; all of them may arrive
// on the one request URL.
func (h *SlackHandler) Events(c fiber.Ctx) error {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return h.eventsAPI(c)
	}

	form, err := url.ParseQuery(string(c.Body()))
	if err != nil {
		return badRequest(c, "malformed form body")
	}
	switch {
	case form.Has("payload"):
		return h.interaction(c, form)
	case form.Has("command"):
		return h.command(c, form)
	default:
		return badRequest(c, "unsupported slack request")
	}
}

// Slash handles POST /slack/slash.
func (h *SlackHandler) Slash(c fiber.Ctx) error {
	form, err := url.ParseQuery(string(c.Body()))
	if err != nil || !form.Has("command") {
		return badRequest(c, "missing command")
	}
	return h.command(c, form)
}

// Interactive handles POST /slack/interactive.
func (h *SlackHandler) Interactive(c fiber.Ctx) error {
	form, err := url.ParseQuery(string(c.Body()))
	if err != nil || !form.Has("payload") {
		return badRequest(c, "missing payload")
	}
	return h.interaction(c, form)
}

type outerEvent struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
}

func (h *SlackHandler) eventsAPI(c fiber.Ctx) error {
	body := c.Body()

	var outer outerEvent
	if err := json.Unmarshal(body, &outer); err != nil {
		return badRequest(c, "malformed event payload")
	}

	switch outer.Type {
	case slackevents.URLVerification:
		return c.JSON(fiber.Map{"challenge": outer.Challenge})
	case slackevents.CallbackEvent:
		event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
		if err != nil {
			return badRequest(c, "malformed event payload")
		}
		h.dispatcher.DispatchEvent(event)
	default:
		slog.Debug("ignoring slack event", "type", outer.Type)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *SlackHandler) command(c fiber.Ctx, form url.Values) error {
	h.dispatcher.DispatchSlashCommand(slashCommandFrom(form))
	return c.SendStatus(fiber.StatusOK)
}

func (h *SlackHandler) interaction(c fiber.Ctx, form url.Values) error {
	var cb slack.InteractionCallback
	if err := json.Unmarshal([]byte(form.Get("payload")), &cb); err != nil {
		return badRequest(c, "malformed interaction payload")
	}
	h.dispatcher.DispatchInteraction(cb)
	return c.SendStatus(fiber.StatusOK)
}

func slashCommandFrom(form url.Values) slack.SlashCommand {
	return slack.SlashCommand{
		Token:       form.Get("token"),
		TeamID:      form.Get("team_id"),
		TeamDomain:  form.Get("team_domain"),
		ChannelID:   form.Get("channel_id"),
		ChannelName: form.Get("channel_name"),
		UserID:      form.Get("user_id"),
		UserName:    form.Get("user_name"),
		Command:     form.Get("command"),
		Text:        form.Get("text"),
		ResponseURL: form.Get("response_url"),
		TriggerID:   form.Get("trigger_id"),
		APIAppID:    form.Get("api_app_id"),
	}
}

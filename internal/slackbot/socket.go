package slackbot

import (
	"context"
	"log/slog"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"holmes/internal/metrics"
)

type acker interface {
	Ack(req socketmode.Request, payload ...interface{})
}

// SocketRunner receives Slack traffic over Socket Mode instead of public
// HTTP endpoints.
type SocketRunner struct {
	client *socketmode.Client
	acker  acker
	bot    *Bot
	logger *slog.Logger
}

// NewSocketRunner creates a runner. api must have been built with
// slack.OptionAppLevelToken.
func NewSocketRunner(api *slack.Client, bot *Bot, debug bool) *SocketRunner {
	client := socketmode.New(api, socketmode.OptionDebug(debug))
	return &SocketRunner{
		client: client,
		acker:  client,
		bot:    bot,
		logger: bot.logger.With("transport", "socketmode"),
	}
}

// Run connects and processes events until ctx is cancelled.
func (s *SocketRunner) Run(ctx context.Context) error {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-s.client.Events:
				if !ok {
					return
				}
				s.handle(evt)
			}
		}
	}()
	return s.client.RunContext(ctx)
}

func (s *SocketRunner) handle(evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		s.logger.Info("connecting to Socket Mode")

	case socketmode.EventTypeConnected:
		s.logger.Info("connected to Socket Mode")
		metrics.SetSocketModeConnected(true)

	case socketmode.EventTypeConnectionError:
		s.logger.Warn("Socket Mode connection error", "data", evt.Data)
		metrics.SetSocketModeConnected(false)

	case socketmode.EventTypeEventsAPI:
		event, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		s.ack(evt)
		s.bot.DispatchEvent(event)

	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			return
		}
		s.ack(evt)
		s.bot.DispatchSlashCommand(cmd)

	case socketmode.EventTypeInteractive:
		cb, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			return
		}
		s.ack(evt)
		s.bot.DispatchInteraction(cb)
	}
}

func (s *SocketRunner) ack(evt socketmode.Event) {
	if evt.Request != nil {
		s.acker.Ack(*evt.Request)
	}
}

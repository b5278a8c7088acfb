// Package slackbot connects HOLMES to Slack: it classifies channel messages,
// answers /holmes and executes the replies produced by action handlers.
package slackbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"holmes/internal/actions"
	"holmes/internal/alert"
	"holmes/internal/metrics"
	"holmes/internal/render"
	"holmes/internal/validation"
)

// SlackAPI is the subset of the Slack Web API HOLMES calls. *slack.Client
// satisfies it.
type SlackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error)
	PostEphemeralContext(ctx context.Context, channelID, userID string, options ...slack.MsgOption) (string, error)
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
}

// SlashCommand is the command HOLMES answers.
const SlashCommand = "/holmes"

const defaultDispatchTimeout = 10 * time.Second

// Event is an inbound channel message.
type Event struct {
	ChannelID       string
	UserID          string
	Text            string
	Timestamp       string
	ThreadTimestamp string
	BotID           string
	SubType         string
}

// EventFromMessage converts an Events API message event.
func EventFromMessage(ev *slackevents.MessageEvent) Event {
	return Event{
		ChannelID:       ev.Channel,
		UserID:          ev.User,
		Text:            ev.Text,
		Timestamp:       ev.TimeStamp,
		ThreadTimestamp: ev.ThreadTimeStamp,
		BotID:           ev.BotID,
		SubType:         ev.SubType,
	}
}

// Options configures a Bot.
type Options struct {
	MonitoredChannels   []string
	AllowDirectMessages bool
	DispatchTimeout     time.Duration
	Logger              *slog.Logger
	Now                 func() time.Time
}

// Bot routes Slack traffic to the classifier and the action registry.
// Everything it holds is read-only after New, so handlers may run
// concurrently.
type Bot struct {
	client     SlackAPI
	registry   *actions.Registry
	renderer   *render.Renderer
	classifier *alert.Classifier

	monitored map[string]struct{}
	allowDM   bool
	timeout   time.Duration
	logger    *slog.Logger
	now       func() time.Time

	wg sync.WaitGroup
}

// New creates a bot.
func New(client SlackAPI, registry *actions.Registry, renderer *render.Renderer, classifier *alert.Classifier, opts Options) *Bot {
	monitored := make(map[string]struct{}, len(opts.MonitoredChannels))
	for _, ch := range opts.MonitoredChannels {
		monitored[ch] = struct{}{}
	}
	if opts.DispatchTimeout <= 0 {
		opts.DispatchTimeout = defaultDispatchTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Bot{
		client:     client,
		registry:   registry,
		renderer:   renderer,
		classifier: classifier,
		monitored:  monitored,
		allowDM:    opts.AllowDirectMessages,
		timeout:    opts.DispatchTimeout,
		logger:     opts.Logger,
		now:        opts.Now,
	}
}

// Registry returns the action registry the bot dispatches to.
func (b *Bot) Registry() *actions.Registry {
	return b.registry
}

// MonitoredChannels returns the watched channel IDs in sorted order.
func (b *Bot) MonitoredChannels() []string {
	out := make([]string, 0, len(b.monitored))
	for ch := range b.monitored {
		out = append(out, ch)
	}
	slices.Sort(out)
	return out
}

// watches reports whether messages in channel are classified.
func (b *Bot) watches(channel string) bool {
	if channel == "" {
		return false
	}
	if _, ok := b.monitored[channel]; ok {
		return true
	}
	return b.allowDM && validation.IsDirectMessage(channel)
}

// HandleMessage classifies ev and, on a match, offers investigation help in
// the message's thread. Bot messages and unwatched conversations are ignored.
func (b *Bot) HandleMessage(ctx context.Context, ev Event) error {
	log := loggerFrom(ctx, b.logger)

	if ev.BotID != "" || ev.SubType == "bot_message" {
		log.Debug("skipping bot message", "channel", ev.ChannelID)
		return nil
	}
	if !b.watches(ev.ChannelID) {
		log.Debug("channel not monitored", "channel", ev.ChannelID)
		return nil
	}

	category, ok := b.classifier.Classify(ev.Text)
	if !ok {
		return nil
	}
	metrics.RecordAlert(string(category))
	log.Info("alert detected", "category", category, "channel", ev.ChannelID, "user", ev.UserID)

	name := alertTemplate(category)
	msg, err := b.renderer.Render(name, render.Params{
		UserID:    ev.UserID,
		Timestamp: b.now().Unix(),
		Label:     category.Title(),
	})
	if err != nil {
		return err
	}

	thread := ev.ThreadTimestamp
	if thread == "" {
		thread = ev.Timestamp
	}
	return b.apply(ctx, actions.Reply{Op: actions.OpThread, Channel: ev.ChannelID, TS: thread, Template: name, Message: msg})
}

// alertTemplate picks the thread reply for category. Latency and data
// alerts share the general template.
func alertTemplate(c alert.Category) string {
	switch c {
	case alert.CategoryRevenue:
		return render.AlertRevenue
	case alert.CategoryTraffic:
		return render.AlertTraffic
	case alert.CategoryErrors:
		return render.AlertErrors
	default:
		return render.AlertGeneral
	}
}

// HandleSlashCommand answers /holmes with the decision tree. When the bot
// cannot post to the channel (not a member, private conversation) the tree
// is sent to the user as a direct message instead.
func (b *Bot) HandleSlashCommand(ctx context.Context, cmd slack.SlashCommand) error {
	log := loggerFrom(ctx, b.logger).With("command", cmd.Command, "channel", cmd.ChannelID, "user", cmd.UserID)

	if cmd.Command != SlashCommand {
		return b.call(ctx, "chat.postEphemeral", func(ctx context.Context) error {
			_, err := b.client.PostEphemeralContext(ctx, cmd.ChannelID, cmd.UserID,
				slack.MsgOptionText(fmt.Sprintf("Unknown command %s. Try %s.", cmd.Command, SlashCommand), false))
			return err
		})
	}

	msg, err := b.renderer.Render(render.InitialDecision, render.Params{UserID: cmd.UserID})
	if err != nil {
		return err
	}

	postErr := b.apply(ctx, actions.Reply{Op: actions.OpPost, Channel: cmd.ChannelID, Template: render.InitialDecision, Message: msg})
	if postErr == nil {
		log.Info("posted decision tree")
		return nil
	}
	log.Warn("channel post failed, falling back to direct message", "error", postErr)

	dmErr := b.apply(ctx, actions.Reply{Op: actions.OpPost, Channel: cmd.UserID, Template: render.InitialDecision, Message: msg})
	if dmErr != nil {
		return errors.Join(postErr, dmErr)
	}
	log.Info("sent decision tree as direct message")
	return nil
}

// HandleInteraction runs the handler for every block action in cb.
func (b *Bot) HandleInteraction(ctx context.Context, cb slack.InteractionCallback) error {
	if cb.Type != slack.InteractionTypeBlockActions {
		loggerFrom(ctx, b.logger).Debug("ignoring interaction", "type", cb.Type)
		return nil
	}

	var errs []error
	for _, action := range cb.ActionCallback.BlockActions {
		if err := b.handleAction(ctx, &cb, action); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", action.ActionID, err))
		}
	}
	return errors.Join(errs...)
}

func (b *Bot) handleAction(ctx context.Context, cb *slack.InteractionCallback, action *slack.BlockAction) error {
	log := loggerFrom(ctx, b.logger).With("action", action.ActionID, "user", cb.User.ID)

	// Metrics use the Kind name; unknown IDs share the "unknown" series.
	h, kind, err := b.registry.Lookup(action.ActionID)
	label := kind.String()
	switch {
	case errors.Is(err, actions.ErrUnrecognizedAction):
		log.Warn("unrecognized action")
		metrics.RecordAction(label, metrics.OutcomeUnrecognized)
		return nil
	case errors.Is(err, actions.ErrNoHandler):
		log.Warn("no handler registered")
		metrics.RecordAction(label, metrics.OutcomeNoHandler)
		return nil
	case err != nil:
		return err
	}

	inv := actions.InvocationFrom(cb, action, b.now())
	replies, err := h.Handle(inv)
	if err != nil {
		metrics.RecordAction(label, metrics.OutcomeError)
		return err
	}

	for _, r := range replies {
		if err := b.apply(ctx, r); err != nil {
			metrics.RecordAction(label, metrics.OutcomeError)
			return err
		}
	}
	metrics.RecordAction(label, metrics.OutcomeOK)
	log.Info("action handled", "replies", len(replies))
	return nil
}

// HandleEventsAPI routes an Events API callback.
func (b *Bot) HandleEventsAPI(ctx context.Context, event slackevents.EventsAPIEvent) error {
	if event.Type != slackevents.CallbackEvent {
		return nil
	}
	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		return b.HandleMessage(ctx, EventFromMessage(ev))
	default:
		return nil
	}
}

// Go runs fn in the background under a new dispatch ID. The work is
// detached from the inbound request so Slack can be acknowledged at once.
func (b *Bot) Go(kind string, fn func(ctx context.Context) error) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		log := b.logger.With("dispatch_id", uuid.NewString(), "kind", kind)
		ctx := withLogger(context.Background(), log)
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				log.Error("dispatch panicked", "panic", r)
			}
			metrics.ObserveDispatch(kind, time.Since(start).Seconds())
		}()

		if err := fn(ctx); err != nil {
			log.Error("dispatch failed", "error", err)
		}
	}()
}

// DispatchEvent handles event in the background.
func (b *Bot) DispatchEvent(event slackevents.EventsAPIEvent) {
	b.Go("event", func(ctx context.Context) error { return b.HandleEventsAPI(ctx, event) })
}

// DispatchSlashCommand handles cmd in the background.
func (b *Bot) DispatchSlashCommand(cmd slack.SlashCommand) {
	b.Go("slash_command", func(ctx context.Context) error { return b.HandleSlashCommand(ctx, cmd) })
}

// DispatchInteraction handles cb in the background.
func (b *Bot) DispatchInteraction(cb slack.InteractionCallback) {
	b.Go("interaction", func(ctx context.Context) error { return b.HandleInteraction(ctx, cb) })
}

// Wait blocks until every background dispatch has finished.
func (b *Bot) Wait() {
	b.wg.Wait()
}

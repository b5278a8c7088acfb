package slackbot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"holmes/internal/actions"
	"holmes/internal/alert"
	"holmes/internal/config"
	"holmes/internal/render"
	"holmes/internal/testutil"
)

const (
	monitoredChannel = "C09EB37M4HE"
	otherChannel     = "C0OTHER01"
	testUser         = "U0TESTER1"
)

var fixedNow = time.Unix(1700000000, 0)

func newTestBot(t *testing.T, fake *testutil.FakeSlack, allowDM bool) *Bot {
	t.Helper()
	dir := config.DefaultDirectory()
	r := render.New(dir)
	return New(fake, actions.Default(r, dir), r, alert.New(alert.DefaultPatterns), Options{
		MonitoredChannels:   []string{monitoredChannel},
		AllowDirectMessages: allowDM,
		DispatchTimeout:     time.Second,
		Logger:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:                 func() time.Time { return fixedNow },
	})
}

func TestHandleMessage_PostsAlertInThread(t *testing.T) {
	fake := testutil.NewFakeSlack()
	bot := newTestBot(t, fake, true)

	err := bot.HandleMessage(context.Background(), Event{
		ChannelID: monitoredChannel,
		UserID:    testUser,
		Text:      "MASSIVE SPEND detected, budget exceeded on bidder 42",
		Timestamp: "1700000000.000100",
	})
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	calls := fake.CallsTo("chat.postMessage")
	if len(calls) != 1 {
		t.Fatalf("got %d posts, want 1", len(calls))
	}
	c := calls[0]
	if c.Channel != monitoredChannel || c.ThreadTS != "1700000000.000100" {
		t.Errorf("posted to %s thread %s", c.Channel, c.ThreadTS)
	}
	if c.Text != "🕵️ HOLMES: Revenue alert detected - Investigation assistance available" {
		t.Errorf("Text = %q", c.Text)
	}
	if !strings.Contains(c.Blocks, "start_revenue_investigation") {
		t.Error("alert should offer the revenue investigation button")
	}
	if !strings.Contains(c.Blocks, "!date^1700000000^") {
		t.Error("alert should carry the dispatch time")
	}
}

func TestHandleMessage_ThreadReplyStaysInParentThread(t *testing.T) {
	fake := testutil.NewFakeSlack()
	bot := newTestBot(t, fake, true)

	_ = bot.HandleMessage(context.Background(), Event{
		ChannelID:       monitoredChannel,
		UserID:          testUser,
		Text:            "error rate climbing, 503 error everywhere",
		Timestamp:       "1700000050.000200",
		ThreadTimestamp: "1700000000.000100",
	})

	calls := fake.CallsTo("chat.postMessage")
	if len(calls) != 1 || calls[0].ThreadTS != "1700000000.000100" {
		t.Fatalf("expected reply in parent thread, got %+v", calls)
	}
}

func TestHandleMessage_LatencyUsesGeneralAlert(t *testing.T) {
	fake := testutil.NewFakeSlack()
	bot := newTestBot(t, fake, true)

	_ = bot.HandleMessage(context.Background(), Event{
		ChannelID: monitoredChannel, UserID: testUser, Text: "p99 latency at 900 milliseconds", Timestamp: "1.1",
	})

	calls := fake.CallsTo("chat.postMessage")
	if len(calls) != 1 {
		t.Fatalf("got %d posts, want 1", len(calls))
	}
	if !strings.Contains(calls[0].Text, "Latency alert detected") || !strings.Contains(calls[0].Blocks, "start_investigation") {
		t.Errorf("unexpected general alert: %+v", calls[0])
	}
}

func TestHandleMessage_Filtering(t *testing.T) {
	tests := []struct {
		name    string
		allowDM bool
		ev      Event
	}{
		{"bot id", true, Event{ChannelID: monitoredChannel, BotID: "B01", Text: "overspend"}},
		{"bot subtype", true, Event{ChannelID: monitoredChannel, SubType: "bot_message", Text: "overspend"}},
		{"unmonitored channel", true, Event{ChannelID: otherChannel, Text: "overspend"}},
		{"direct message disabled", false, Event{ChannelID: "D0DIRECT1", Text: "overspend"}},
		{"no alert", true, Event{ChannelID: monitoredChannel, Text: "good morning team"}},
		{"empty text", true, Event{ChannelID: monitoredChannel}},
		{"missing channel", true, Event{Text: "overspend"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeSlack()
			if err := newTestBot(t, fake, tt.allowDM).HandleMessage(context.Background(), tt.ev); err != nil {
				t.Fatalf("HandleMessage: %v", err)
			}
			if n := len(fake.Calls()); n != 0 {
				t.Errorf("expected no slack calls, got %d", n)
			}
		})
	}
}

func TestHandleMessage_DirectMessageAllowed(t *testing.T) {
	fake := testutil.NewFakeSlack()
	_ = newTestBot(t, fake, true).HandleMessage(context.Background(), Event{
		ChannelID: "D0DIRECT1", UserID: testUser, Text: "traffic drop on bid requests", Timestamp: "2.2",
	})
	if len(fake.CallsTo("chat.postMessage")) != 1 {
		t.Error("direct messages should be classified when allowed")
	}
}

func TestHandleSlashCommand(t *testing.T) {
	t.Run("posts to channel", func(t *testing.T) {
		fake := testutil.NewFakeSlack()
		err := newTestBot(t, fake, true).HandleSlashCommand(context.Background(), slack.SlashCommand{
			Command: "/holmes", ChannelID: otherChannel, UserID: testUser,
		})
		if err != nil {
			t.Fatal(err)
		}
		calls := fake.CallsTo("chat.postMessage")
		if len(calls) != 1 || calls[0].Channel != otherChannel {
			t.Fatalf("got %+v", calls)
		}
		if calls[0].Text != "🕵️ HOLMES: Platform Investigation System" {
			t.Errorf("Text = %q", calls[0].Text)
		}
	})

	t.Run("falls back to direct message", func(t *testing.T) {
		fake := testutil.NewFakeSlack()
		fake.FailNext("chat.postMessage", errors.New("not_in_channel"))

		err := newTestBot(t, fake, true).HandleSlashCommand(context.Background(), slack.SlashCommand{
			Command: "/holmes", ChannelID: otherChannel, UserID: testUser,
		})
		if err != nil {
			t.Fatal(err)
		}
		calls := fake.CallsTo("chat.postMessage")
		if len(calls) != 2 || calls[1].Channel != testUser {
			t.Fatalf("expected DM fallback, got %+v", calls)
		}
	})

	t.Run("both fail", func(t *testing.T) {
		fake := testutil.NewFakeSlack()
		fake.FailNext("chat.postMessage", errors.New("not_in_channel"))
		fake.FailNext("chat.postMessage", errors.New("cannot_dm_bot"))

		err := newTestBot(t, fake, true).HandleSlashCommand(context.Background(), slack.SlashCommand{
			Command: "/holmes", ChannelID: otherChannel, UserID: testUser,
		})
		if err == nil || !strings.Contains(err.Error(), "cannot_dm_bot") {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		fake := testutil.NewFakeSlack()
		_ = newTestBot(t, fake, true).HandleSlashCommand(context.Background(), slack.SlashCommand{
			Command: "/watson", ChannelID: otherChannel, UserID: testUser,
		})
		calls := fake.CallsTo("chat.postEphemeral")
		if len(calls) != 1 || calls[0].User != testUser || !strings.Contains(calls[0].Text, "/holmes") {
			t.Fatalf("got %+v", calls)
		}
	})
}

func blockActions(actionIDs ...string) slack.InteractionCallback {
	cb := slack.InteractionCallback{Type: slack.InteractionTypeBlockActions}
	cb.User.ID = testUser
	cb.Channel.ID = otherChannel
	cb.Message.Timestamp = "1700000000.000100"
	for _, id := range actionIDs {
		cb.ActionCallback.BlockActions = append(cb.ActionCallback.BlockActions, &slack.BlockAction{ActionID: id})
	}
	return cb
}

func TestHandleInteraction_AppliesReplies(t *testing.T) {
	fake := testutil.NewFakeSlack()
	if err := newTestBot(t, fake, true).HandleInteraction(context.Background(), blockActions("select_revenue")); err != nil {
		t.Fatal(err)
	}

	calls := fake.Calls()
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2: %+v", len(calls), calls)
	}
	if calls[0].Method != "chat.update" || calls[0].TS != "1700000000.000100" || calls[0].Text != "✅ User selected: *Revenue/Spend Issue*" {
		t.Errorf("update = %+v", calls[0])
	}
	if calls[1].Method != "chat.postMessage" || calls[1].ThreadTS != "1700000000.000100" || calls[1].Text != "Revenue Issue Investigation Options" {
		t.Errorf("thread post = %+v", calls[1])
	}
}

func TestHandleInteraction_UnknownActionIsIgnored(t *testing.T) {
	fake := testutil.NewFakeSlack()
	if err := newTestBot(t, fake, true).HandleInteraction(context.Background(), blockActions("launch_rockets")); err != nil {
		t.Fatalf("unknown actions should not error: %v", err)
	}
	if len(fake.Calls()) != 0 {
		t.Error("unknown action should not call slack")
	}
}

func TestHandleInteraction_NoHandlerIsIgnored(t *testing.T) {
	fake := testutil.NewFakeSlack()
	r := render.New(nil)
	bot := New(fake, actions.NewBuilder().Build(), r, alert.New(alert.DefaultPatterns), Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err := bot.HandleInteraction(context.Background(), blockActions("select_revenue")); err != nil {
		t.Fatal(err)
	}
	if len(fake.Calls()) != 0 {
		t.Error("kind without handler should not call slack")
	}
}

func TestHandleInteraction_IgnoresOtherInteractionTypes(t *testing.T) {
	fake := testutil.NewFakeSlack()
	cb := blockActions("select_revenue")
	cb.Type = slack.InteractionTypeViewSubmission
	if err := newTestBot(t, fake, true).HandleInteraction(context.Background(), cb); err != nil {
		t.Fatal(err)
	}
	if len(fake.Calls()) != 0 {
		t.Error("view submissions should be ignored")
	}
}

func TestHandleInteraction_StopsOnFailedReply(t *testing.T) {
	fake := testutil.NewFakeSlack()
	fake.FailNext("chat.update", errors.New("message_not_found"))

	err := newTestBot(t, fake, true).HandleInteraction(context.Background(), blockActions("select_latency"))
	if err == nil || !strings.Contains(err.Error(), "select_latency") {
		t.Fatalf("err = %v", err)
	}
	if len(fake.CallsTo("chat.postMessage")) != 0 {
		t.Error("thread reply should not be sent after the update failed")
	}
}

func TestCall_RetriesOnceWhenRateLimited(t *testing.T) {
	fake := testutil.NewFakeSlack()
	fake.FailNext("chat.postMessage", testutil.RateLimited(time.Millisecond))

	err := newTestBot(t, fake, true).HandleSlashCommand(context.Background(), slack.SlashCommand{
		Command: "/holmes", ChannelID: otherChannel, UserID: testUser,
	})
	if err != nil {
		t.Fatal(err)
	}
	calls := fake.CallsTo("chat.postMessage")
	if len(calls) != 2 || calls[1].Channel != otherChannel {
		t.Fatalf("expected one retry to the same channel, got %+v", calls)
	}
}

func TestCall_GivesUpAfterSecondRateLimit(t *testing.T) {
	fake := testutil.NewFakeSlack()
	bot := newTestBot(t, fake, true)
	fake.FailNext("chat.update", testutil.RateLimited(time.Millisecond))
	fake.FailNext("chat.update", testutil.RateLimited(time.Millisecond))

	err := bot.HandleInteraction(context.Background(), blockActions("druid_check_no"))
	var rl *slack.RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("err = %v, want rate limited", err)
	}
	if n := len(fake.CallsTo("chat.update")); n != 2 {
		t.Errorf("got %d attempts, want 2", n)
	}
}

func TestCall_RetryRespectsContext(t *testing.T) {
	fake := testutil.NewFakeSlack()
	bot := newTestBot(t, fake, true)
	bot.timeout = 20 * time.Millisecond
	fake.FailNext("chat.update", testutil.RateLimited(time.Hour))

	start := time.Now()
	err := bot.HandleInteraction(context.Background(), blockActions("druid_check_yes"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("retry should not wait past the dispatch timeout")
	}
}

func TestApply_RejectsIncompleteReplies(t *testing.T) {
	bot := newTestBot(t, testutil.NewFakeSlack(), true)

	if err := bot.apply(context.Background(), actions.Reply{Op: actions.OpPost}); !errors.Is(err, ErrMissingChannel) {
		t.Errorf("err = %v, want ErrMissingChannel", err)
	}
	if err := bot.apply(context.Background(), actions.Reply{Op: actions.OpUpdate, Channel: otherChannel}); !errors.Is(err, ErrMissingTimestamp) {
		t.Errorf("err = %v, want ErrMissingTimestamp", err)
	}
}

func TestHandleEventsAPI_RoutesMessages(t *testing.T) {
	fake := testutil.NewFakeSlack()
	bot := newTestBot(t, fake, true)

	event := slackevents.EventsAPIEvent{
		Type: slackevents.CallbackEvent,
		InnerEvent: slackevents.EventsAPIInnerEvent{
			Type: "message",
			Data: &slackevents.MessageEvent{Channel: monitoredChannel, User: testUser, Text: "fill rate collapsed", TimeStamp: "3.3"},
		},
	}
	if err := bot.HandleEventsAPI(context.Background(), event); err != nil {
		t.Fatal(err)
	}
	if len(fake.CallsTo("chat.postMessage")) != 1 {
		t.Error("message callback should be classified")
	}

	event.Type = slackevents.URLVerification
	if err := bot.HandleEventsAPI(context.Background(), event); err != nil {
		t.Fatal(err)
	}
	if len(fake.Calls()) != 1 {
		t.Error("non-callback events should be ignored")
	}
}

func TestDispatch_WaitDrainsBackgroundWork(t *testing.T) {
	fake := testutil.NewFakeSlack()
	bot := newTestBot(t, fake, true)

	bot.DispatchInteraction(blockActions("select_discrepancy"))
	bot.DispatchSlashCommand(slack.SlashCommand{Command: "/holmes", ChannelID: otherChannel, UserID: testUser})
	bot.Go("panics", func(context.Context) error { panic("boom") })
	bot.Wait()

	if n := len(fake.Calls()); n != 3 {
		t.Errorf("got %d calls after Wait, want 3", n)
	}
}

func TestMonitoredChannels_Sorted(t *testing.T) {
	bot := New(testutil.NewFakeSlack(), actions.NewBuilder().Build(), render.New(nil), alert.New(alert.DefaultPatterns), Options{
		MonitoredChannels: []string{"C0ZZZZZZZ", "C0AAAAAAA"},
	})
	got := bot.MonitoredChannels()
	if len(got) != 2 || got[0] != "C0AAAAAAA" {
		t.Errorf("MonitoredChannels = %v", got)
	}
}

type fakeAcker struct {
	mu   sync.Mutex
	acks []string
}

func (f *fakeAcker) Ack(req socketmode.Request, _ ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acks = append(f.acks, req.EnvelopeID)
}

func TestSocketRunner_AcksAndDispatches(t *testing.T) {
	fake := testutil.NewFakeSlack()
	bot := newTestBot(t, fake, true)
	acks := &fakeAcker{}
	runner := &SocketRunner{acker: acks, bot: bot, logger: bot.logger}

	runner.handle(socketmode.Event{
		Type:    socketmode.EventTypeSlashCommand,
		Data:    slack.SlashCommand{Command: "/holmes", ChannelID: otherChannel, UserID: testUser},
		Request: &socketmode.Request{EnvelopeID: "env-1"},
	})
	runner.handle(socketmode.Event{
		Type:    socketmode.EventTypeInteractive,
		Data:    blockActions("select_error"),
		Request: &socketmode.Request{EnvelopeID: "env-2"},
	})
	runner.handle(socketmode.Event{
		Type: socketmode.EventTypeEventsAPI,
		Data: "not an events api payload",
	})
	bot.Wait()

	if len(acks.acks) != 2 || acks.acks[0] != "env-1" || acks.acks[1] != "env-2" {
		t.Errorf("acks = %v", acks.acks)
	}
	if n := len(fake.Calls()); n != 3 {
		t.Errorf("got %d slack calls, want 3", n)
	}
}

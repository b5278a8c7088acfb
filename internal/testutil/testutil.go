// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/slack-go/slack"
)

// Call is one recorded Slack Web API call.
type Call struct {
	Method   string // chat.postMessage, chat.update, chat.postEphemeral, auth.test
	Channel  string
	TS       string // message ts for chat.update
	ThreadTS string
	User     string // ephemeral recipient
	Text     string
	Blocks   string // raw blocks JSON
}

// FakeSlack is an in-memory Slack Web API client that records every call.
// Queue failures with FailNext; calls succeed otherwise.
type FakeSlack struct {
	mu       sync.Mutex
	calls    []Call
	failures map[string][]error
	seq      int

	BotUserID string
}

// NewFakeSlack creates a fake client.
func NewFakeSlack() *FakeSlack {
	return &FakeSlack{failures: make(map[string][]error), BotUserID: "U0HOLMES1"}
}

// FailNext makes the next call to method return err. Multiple calls queue up.
func (f *FakeSlack) FailNext(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method] = append(f.failures[method], err)
}

// RateLimited returns the error Slack's client produces for HTTP 429.
func RateLimited(retryAfter time.Duration) error {
	return &slack.RateLimitedError{RetryAfter: retryAfter}
}

// Calls returns a snapshot of the recorded calls.
func (f *FakeSlack) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the recorded calls for method.
func (f *FakeSlack) CallsTo(method string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeSlack) record(c Call) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if q := f.failures[c.Method]; len(q) > 0 {
		f.failures[c.Method] = q[1:]
		return "", q[0]
	}
	f.seq++
	return fmt.Sprintf("1700000000.%06d", f.seq), nil
}

func decode(method, channel string, options []slack.MsgOption) Call {
	c := Call{Method: method, Channel: channel}
	_, values, err := slack.UnsafeApplyMsgOptions("", channel, "", options...)
	if err != nil {
		return c
	}
	c.Text = values.Get("text")
	c.Blocks = values.Get("blocks")
	c.ThreadTS = values.Get("thread_ts")
	return c
}

func (f *FakeSlack) PostMessageContext(_ context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	ts, err := f.record(decode("chat.postMessage", channelID, options))
	if err != nil {
		return "", "", err
	}
	return channelID, ts, nil
}

func (f *FakeSlack) UpdateMessageContext(_ context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error) {
	c := decode("chat.update", channelID, options)
	c.TS = timestamp
	if _, err := f.record(c); err != nil {
		return "", "", "", err
	}
	return channelID, timestamp, c.Text, nil
}

func (f *FakeSlack) PostEphemeralContext(_ context.Context, channelID, userID string, options ...slack.MsgOption) (string, error) {
	c := decode("chat.postEphemeral", channelID, options)
	c.User = userID
	return f.record(c)
}

func (f *FakeSlack) AuthTestContext(context.Context) (*slack.AuthTestResponse, error) {
	if _, err := f.record(Call{Method: "auth.test"}); err != nil {
		return nil, err
	}
	return &slack.AuthTestResponse{UserID: f.BotUserID, Team: "holmes-test"}, nil
}

// WaitForCalls polls until at least n calls were recorded or the timeout
// expires, for code that dispatches in the background.
func WaitForCalls(t *testing.T, f *FakeSlack, n int, timeout time.Duration) []Call {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		calls := f.Calls()
		if len(calls) >= n {
			return calls
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d slack calls, got %d: %+v", n, len(calls), calls)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Form encodes key/value pairs as an application/x-www-form-urlencoded body.
func Form(pairs ...string) string {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return v.Encode()
}

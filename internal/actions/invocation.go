package actions

import (
	"time"

	"github.com/slack-go/slack"

	"holmes/internal/render"
)

// Invocation is everything a handler knows about one button press.
type Invocation struct {
	ActionID  string
	Kind      Kind
	UserID    string
	ChannelID string
	MessageTS string // the message carrying the clicked button
	ThreadTS  string // the thread replies belong to
	Now       time.Time
}

// InvocationFrom extracts an Invocation from a block_actions callback.
//
// Slack fills different fields depending on where the message lives, so each
// value has a fixed fallback order:
//
//	channel: channel.id, then container.channel_id
//	message: message.ts, then container.message_ts
//	thread:  message.thread_ts, then the message ts
//	user:    user.id, then "unknown"
func InvocationFrom(cb *slack.InteractionCallback, action *slack.BlockAction, now time.Time) Invocation {
	inv := Invocation{Now: now, UserID: render.UnknownUser}
	if action != nil {
		inv.ActionID = action.ActionID
		inv.Kind = ParseKind(action.ActionID)
	}
	if cb == nil {
		return inv
	}

	inv.ChannelID = firstNonEmpty(cb.Channel.ID, cb.Container.ChannelID)
	inv.MessageTS = firstNonEmpty(cb.Message.Timestamp, cb.Container.MessageTs)
	inv.ThreadTS = firstNonEmpty(cb.Message.ThreadTimestamp, inv.MessageTS)
	inv.UserID = firstNonEmpty(cb.User.ID, render.UnknownUser)
	return inv
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// params returns the render inputs shared by every reply to inv.
func (inv Invocation) params() render.Params {
	p := render.Params{UserID: inv.UserID}
	if !inv.Now.IsZero() {
		p.Timestamp = inv.Now.Unix()
	}
	return p
}

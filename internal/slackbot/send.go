package slackbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/slack-go/slack"

	"holmes/internal/actions"
	"holmes/internal/metrics"
)

var (
	ErrMissingChannel   = errors.New("reply has no channel")
	ErrMissingTimestamp = errors.New("reply has no message timestamp")
)

// apply executes one reply against Slack.
func (b *Bot) apply(ctx context.Context, r actions.Reply) error {
	if r.Channel == "" {
		return fmt.Errorf("%w: %s %s", ErrMissingChannel, r.Op, r.Template)
	}

	opts := r.Message.MsgOptions()
	switch r.Op {
	case actions.OpUpdate:
		if r.TS == "" {
			return fmt.Errorf("%w: update %s", ErrMissingTimestamp, r.Template)
		}
		return b.call(ctx, "chat.update", func(ctx context.Context) error {
			_, _, _, err := b.client.UpdateMessageContext(ctx, r.Channel, r.TS, opts...)
			return err
		})
	case actions.OpThread:
		if r.TS != "" {
			opts = append(opts, slack.MsgOptionTS(r.TS))
		}
		return b.call(ctx, "chat.postMessage", func(ctx context.Context) error {
			_, _, err := b.client.PostMessageContext(ctx, r.Channel, opts...)
			return err
		})
	case actions.OpPost:
		return b.call(ctx, "chat.postMessage", func(ctx context.Context) error {
			_, _, err := b.client.PostMessageContext(ctx, r.Channel, opts...)
			return err
		})
	default:
		return fmt.Errorf("unknown reply op %d", r.Op)
	}
}

// call runs fn under the dispatch timeout. A rate-limited call is retried
// once after the delay Slack asked for, unless the context ends first.
func (b *Bot) call(ctx context.Context, method string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	err := fn(ctx)

	var rl *slack.RateLimitedError
	if errors.As(err, &rl) {
		metrics.RecordSlackCall(method, metrics.OutcomeRateLimited)
		loggerFrom(ctx, b.logger).Warn("slack rate limited, retrying", "method", method, "retry_after", rl.RetryAfter)

		timer := time.NewTimer(rl.RetryAfter)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s: %w", method, errors.Join(err, ctx.Err()))
		case <-timer.C:
		}
		err = fn(ctx)
	}

	if err != nil {
		metrics.RecordSlackCall(method, metrics.OutcomeError)
		return fmt.Errorf("%s: %w", method, err)
	}
	metrics.RecordSlackCall(method, metrics.OutcomeOK)
	return nil
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func loggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return fallback
}

package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/slack-go/slack"

	"holmes/internal/metrics"
)

// AuthTester is the Slack call used to probe the connection.
type AuthTester interface {
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
}

// Status is the outcome of the latest probe.
type Status struct {
	Connected bool
	BotUserID string
	Team      string
	Error     string
	CheckedAt time.Time
}

// HealthChecker periodically verifies the bot token with auth.test.
type HealthChecker struct {
	client   AuthTester
	interval time.Duration
	timeout  time.Duration

	mu     sync.RWMutex
	status Status
}

// NewHealthChecker creates a new health checker.
func NewHealthChecker(client AuthTester, interval time.Duration) *HealthChecker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &HealthChecker{
		client:   client,
		interval: interval,
		timeout:  10 * time.Second,
	}
}

// Start begins the background check loop. Blocks until ctx is cancelled.
func (h *HealthChecker) Start(ctx context.Context) {
	log.Printf("Health checker started (interval: %v)", h.interval)

	// Run immediately on start
	h.Check(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Health checker stopped")
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

// Check runs one probe and records the result.
func (h *HealthChecker) Check(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	st := Status{CheckedAt: time.Now()}
	resp, err := h.client.AuthTestContext(ctx)
	if err != nil {
		st.Error = err.Error()
		metrics.RecordSlackCall("auth.test", metrics.OutcomeError)
	} else {
		st.Connected = true
		st.BotUserID = resp.UserID
		st.Team = resp.Team
		metrics.RecordSlackCall("auth.test", metrics.OutcomeOK)
	}
	metrics.SetSlackConnected(st.Connected)

	h.mu.Lock()
	prev := h.status
	h.status = st
	h.mu.Unlock()

	if prev.Connected != st.Connected || prev.CheckedAt.IsZero() {
		if st.Connected {
			log.Printf("Health checker: slack connected as %s (%s)", st.BotUserID, st.Team)
		} else {
			log.Printf("Health checker: slack unreachable: %s", st.Error)
		}
	}
	return st
}

// Status returns the latest probe result.
func (h *HealthChecker) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

// Connected reports whether the latest probe succeeded.
func (h *HealthChecker) Connected() bool {
	return h.Status().Connected
}

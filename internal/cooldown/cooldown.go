// Package cooldown implements the CooldownGate (spec.md 4.1): tracking the
// character's server-side cooldown expiry and blocking action submission
// until it clears.
package cooldown

import (
	"context"
	"sync"
	"time"
)

// pollInterval bounds how coarsely wait_until_ready polls so it stays
// cancellable (spec.md 4.1: "≤ 250 ms chunks").
const pollInterval = 250 * time.Millisecond

// Gate is the CooldownGate. Build it with New: the zero value has no
// clock, so Arm, IsReady and WaitUntilReady panic on it.
type Gate struct {
	mu      sync.Mutex
	readyAt time.Time
	buffer  time.Duration
	now     func() time.Time
}

// Option configures a Gate at construction.
type Option func(*Gate)

// WithBuffer overrides the default 1s buffer added after the server's
// reported cooldown (spec.md 4.1).
func WithBuffer(d time.Duration) Option {
	return func(g *Gate) { g.buffer = d }
}

// withClock overrides the time source; used by tests.
func withClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// New constructs a Gate that is immediately ready (spec.md 4.1: reset on
// start — the first action after process boot re-reads cooldown from the
// server rather than assuming readiness from a prior run).
func New(opts ...Option) *Gate {
	g := &Gate{buffer: 1 * time.Second, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Arm records the cooldown communicated by the most recent action's
// response. It overwrites any prior value monotonically: arming never
// shortens an active cooldown (spec.md 4.1).
func (g *Gate) Arm(seconds float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	candidate := g.now().Add(time.Duration(seconds*float64(time.Second)) + g.buffer)
	if candidate.After(g.readyAt) {
		g.readyAt = candidate
	}
}

// ArmUntil is Arm expressed as an absolute expiry, for callers (e.g. the
// loop's initial sync) that already know the server's cooldown_expiration
// timestamp rather than a remaining-seconds count.
func (g *Gate) ArmUntil(expiresAt time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	candidate := expiresAt.Add(g.buffer)
	if candidate.After(g.readyAt) {
		g.readyAt = candidate
	}
}

// IsReady reports whether the gate currently permits an action.
func (g *Gate) IsReady() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.now().Before(g.readyAt)
}

// ReadyAt returns the current ready timestamp.
func (g *Gate) ReadyAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.readyAt
}

// WaitUntilReady blocks until the gate is ready or ctx is cancelled,
// sleeping in coarse, cancellable chunks (spec.md 4.1, §5 suspension
// point 1).
func (g *Gate) WaitUntilReady(ctx context.Context) error {
	for {
		remaining := g.ReadyAt().Sub(g.now())
		if remaining <= 0 {
			return nil
		}
		wait := pollInterval
		if remaining < wait {
			wait = remaining
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

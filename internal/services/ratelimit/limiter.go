// Package ratelimit admits calls to the image generation provider against a
// fixed quota per rolling window. Every admitted request is remembered by its
// timestamp and forgotten once it leaves the window, so capacity frees up one
// slot at a time instead of resetting on a fixed boundary.
package ratelimit

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/phambaophuc/id-photo-studio/internal/models"
)

var ErrInvalidPolicy = errors.New("quota and window must be positive")

type Option func(*Limiter)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// Limiter is a sliding-window admission counter. It reports whether one more
// request fits the quota; it never blocks and never calls anything itself.
// Callers check before acting and record after deciding to proceed, or use
// TryAdmit to do both under one lock.
type Limiter struct {
	mu      sync.Mutex
	quota   int
	window  time.Duration
	history []time.Time
	now     func() time.Time
}

func New(quota int, window time.Duration, opts ...Option) (*Limiter, error) {
	if quota <= 0 || window <= 0 {
		return nil, ErrInvalidPolicy
	}

	l := &Limiter{
		quota:   quota,
		window:  window,
		history: make([]time.Time, 0, quota),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *Limiter) Quota() int {
	return l.quota
}

func (l *Limiter) Window() time.Duration {
	return l.window
}

// CanAdmit reports whether one more request fits the current window.
func (l *Limiter) CanAdmit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.now())
	return len(l.history) < l.quota
}

// RecordAdmission counts a request at the current instant.
func (l *Limiter) RecordAdmission() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.history = append(l.history, l.now())
}

func (l *Limiter) RemainingCapacity() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.now())
	return max(0, l.quota-len(l.history))
}

// WaitTime is how long until the oldest admission leaves the window. That
// frees at least one slot; it does not promise the quota is below the limit
// by then if more entries are still in the window.
func (l *Limiter) WaitTime() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.waitTime(l.now())
}

// TryAdmit checks and records in one step. On rejection it returns the time
// to wait before trying again.
func (l *Limiter) TryAdmit() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)
	if len(l.history) >= l.quota {
		return false, l.waitTime(now)
	}

	l.history = append(l.history, now)
	return true, 0
}

func (l *Limiter) Snapshot() models.QuotaStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	status := models.QuotaStatus{
		Limit:     l.quota,
		Remaining: max(0, l.quota-len(l.history)),
	}
	if len(l.history) > 0 {
		resetAt := l.history[0].Add(l.window)
		status.ResetAt = &resetAt
	}
	if status.Remaining == 0 {
		status.WaitTime = l.waitTime(now)
		status.WaitSeconds = WaitSeconds(status.WaitTime)
	}
	return status
}

// prune drops entries whose age reached the window. It is the only place the
// history shrinks, and every read goes through it.
func (l *Limiter) prune(now time.Time) {
	keep := 0
	for keep < len(l.history) && now.Sub(l.history[keep]) >= l.window {
		keep++
	}
	if keep == 0 {
		return
	}
	l.history = append(l.history[:0], l.history[keep:]...)
}

func (l *Limiter) waitTime(now time.Time) time.Duration {
	if len(l.history) == 0 {
		return 0
	}
	return max(0, l.window-now.Sub(l.history[0]))
}

// WaitSeconds rounds a wait up to whole seconds for display.
func WaitSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

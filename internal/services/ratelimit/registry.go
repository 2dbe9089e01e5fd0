package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Registry hands out one Limiter per credential so that every session using
// the same provider key draws from the same quota.
type Registry struct {
	mu       sync.Mutex
	quota    int
	window   time.Duration
	opts     []Option
	limiters map[string]*Limiter
}

func NewRegistry(quota int, window time.Duration, opts ...Option) (*Registry, error) {
	if quota <= 0 || window <= 0 {
		return nil, ErrInvalidPolicy
	}
	return &Registry{
		quota:    quota,
		window:   window,
		opts:     opts,
		limiters: make(map[string]*Limiter),
	}, nil
}

// For returns the limiter bound to credential, creating it on first use.
func (r *Registry) For(credential string) *Limiter {
	key := KeyFor(credential)

	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.limiters[key]; ok {
		return l
	}

	// quota and window were validated by NewRegistry
	l, _ := New(r.quota, r.window, r.opts...)
	r.limiters[key] = l
	return l
}

func (r *Registry) Quota() int {
	return r.quota
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

// KeyFor hashes a credential so raw keys never sit in map keys or logs.
func KeyFor(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:])
}

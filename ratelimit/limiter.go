// Package ratelimit provides a token-bucket rate limiter backed by
// golang.org/x/time/rate for use as a request gate inside a pipeline, plus a
// keyed variant that lazily maintains one limiter per group.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter wraps a token-bucket limiter that decides whether an incoming
// request should be allowed.
type Limiter struct {
	lim *rate.Limiter
}

// NewLimiter creates a Limiter that permits rps requests per second with the
// given burst size.
func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{lim: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Allow reports whether a single request may proceed.
func (l *Limiter) Allow() bool {
	return l.lim.Allow()
}

// Keyed maintains one lazily created Limiter per key. It is safe for
// concurrent use across in-flight dispatches.
type Keyed struct {
	mu       sync.Mutex
	limiters map[string]*Limiter
}

// NewKeyed creates an empty keyed limiter set.
func NewKeyed() *Keyed {
	return &Keyed{limiters: make(map[string]*Limiter)}
}

// Get returns the limiter for key, creating it with the given parameters on
// first use. The parameters of an existing limiter are not changed.
func (k *Keyed) Get(key string, rps float64, burst int) *Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	if l, ok := k.limiters[key]; ok {
		return l
	}
	l := NewLimiter(rps, burst)
	k.limiters[key] = l
	return l
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

package auth

import (
	"sync"
	"time"
)

// RateLimitWindow is the sliding window over which per-address request
// counts are bounded.
const RateLimitWindow = 15 * time.Minute

// RouteClass groups routes that share a request budget.
type RouteClass string

// Route classes and their budgets within the window.
const (
	RouteSetup   RouteClass = "setup"
	RouteLogin   RouteClass = "login"
	RouteGeneral RouteClass = "general"
)

// routeBudgets is the request budget per client address per window.
var routeBudgets = map[RouteClass]int{
	RouteSetup:   3,
	RouteLogin:   5,
	RouteGeneral: 100,
}

// RateLimitResult is the outcome of a rate limit check.
type RateLimitResult struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// RetryAfter is how long the client should wait before the oldest
	// charged request leaves the window. Zero when Allowed.
	RetryAfter time.Duration
}

// RateLimiter bounds request rate per client address per route class over a
// sliding window. Budget is charged on arrival for admitted requests only;
// a rejected request does not consume budget.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	budgets map[RouteClass]int
	hits    map[string][]time.Time
	clock   func() time.Time
}

// NewRateLimiter creates a RateLimiter with the standard window and budgets.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithClock(time.Now)
}

// NewRateLimiterWithClock creates a RateLimiter with an injectable clock.
func NewRateLimiterWithClock(clock func() time.Time) *RateLimiter {
	return &RateLimiter{
		window:  RateLimitWindow,
		budgets: routeBudgets,
		hits:    make(map[string][]time.Time),
		clock:   clock,
	}
}

// Check admits or rejects a request from addr for the given route class,
// charging the budget when admitted.
func (l *RateLimiter) Check(addr string, class RouteClass) RateLimitResult {
	budget, ok := l.budgets[class]
	if !ok {
		budget = l.budgets[RouteGeneral]
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	key := string(class) + "|" + addr

	// Drop entries that have aged out of the window.
	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if now.Sub(t) < l.window {
			kept = append(kept, t)
		}
	}

	if len(kept) >= budget {
		retryAfter := l.window - now.Sub(kept[0])
		l.hits[key] = kept
		return RateLimitResult{Allowed: false, RetryAfter: retryAfter}
	}

	l.hits[key] = append(kept, now)
	return RateLimitResult{Allowed: true}
}

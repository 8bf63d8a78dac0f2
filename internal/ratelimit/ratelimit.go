// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

// Package ratelimit tracks GitHub's rate-limit budget from response headers
// and backs off before the budget is exhausted. The budget is shared
// process-wide state, so one Tracker is threaded through every transport.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Header names used by the GitHub API to expose rate-limit state.
const (
	headerRemaining  = "X-RateLimit-Remaining"
	headerReset      = "X-RateLimit-Reset"
	headerRetryAfter = "Retry-After"
)

// Tracker records the remaining request budget and reset time reported by
// the most recent API response. It is safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
	observed  bool

	// threshold is the remaining-request count below which Wait blocks
	// until the budget resets.
	threshold int

	// now is stubbed in tests.
	now func() time.Time
}

// NewTracker creates a Tracker that backs off once the remaining budget
// drops below threshold. A threshold of zero disables backoff.
func NewTracker(threshold int) *Tracker {
	return &Tracker{
		threshold: threshold,
		now:       time.Now,
	}
}

// Observe updates the tracker from a response's rate-limit headers.
// Responses without the headers leave the tracked state unchanged.
func (t *Tracker) Observe(resp *http.Response) {
	remaining, err := strconv.Atoi(resp.Header.Get(headerRemaining))
	if err != nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.remaining = remaining
	t.observed = true
	if reset, err := strconv.ParseInt(resp.Header.Get(headerReset), 10, 64); err == nil {
		t.reset = time.Unix(reset, 0)
	}
}

// Remaining returns the last observed remaining budget and whether any
// response has been observed yet.
func (t *Tracker) Remaining() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining, t.observed
}

// Wait blocks until the rate-limit window resets if the remaining budget
// has dropped below the configured threshold. It returns early with the
// context's error if the context is canceled while waiting.
func (t *Tracker) Wait(ctx context.Context) error {
	t.mu.Lock()
	low := t.observed && t.threshold > 0 && t.remaining < t.threshold
	reset := t.reset
	now := t.now()
	t.mu.Unlock()

	if !low || !reset.After(now) {
		return nil
	}

	select {
	case <-time.After(reset.Sub(now)):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ResetTime extracts the reset time from a rate-limited response's headers.
// It prefers X-RateLimit-Reset (epoch seconds) and falls back to
// Retry-After (delta seconds). Returns the zero time when neither is usable.
func ResetTime(h http.Header, now time.Time) time.Time {
	if epoch, err := strconv.ParseInt(h.Get(headerReset), 10, 64); err == nil {
		return time.Unix(epoch, 0)
	}
	if delta, err := strconv.Atoi(h.Get(headerRetryAfter)); err == nil {
		return now.Add(time.Duration(delta) * time.Second)
	}
	return time.Time{}
}

// IsRateLimited reports whether a response represents rate-limit
// exhaustion: 429, or 403 with a drained budget header. A plain 403
// without rate-limit headers is an authorization failure, not a rate limit.
func IsRateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if resp.StatusCode != http.StatusForbidden {
		return false
	}
	return resp.Header.Get(headerRemaining) == "0" || resp.Header.Get(headerRetryAfter) != ""
}

// WaitUntil sleeps until the given reset time, honoring context
// cancellation. A zero or past reset returns immediately.
func WaitUntil(ctx context.Context, reset time.Time) error {
	d := time.Until(reset)
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewPacer returns a token-bucket limiter that spaces requests out on the
// client side so bursts do not chew through the shared budget. rps <= 0
// yields an unlimited pacer.
func NewPacer(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

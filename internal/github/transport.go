// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

package github

import (
	"fmt"
	"net/http"
	"time"

	"github.com/therealfredp3d/pullpal/internal/ratelimit"
	"golang.org/x/time/rate"
)

const userAgent = "pullpal"

// authTransport attaches the bearer token and API version headers to every
// request. An empty token sends unauthenticated requests, which GitHub
// serves with a lower rate limit.
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.base.RoundTrip(req)
}

// pacingTransport spaces requests out through a shared client-side pacer
// and waits out the budget when the tracker reports it is nearly drained.
// Every response's rate-limit headers feed back into the tracker, keeping
// the process-wide view current.
type pacingTransport struct {
	base    http.RoundTripper
	tracker *ratelimit.Tracker
	pacer   *rate.Limiter
}

// RoundTrip implements http.RoundTripper.
func (t *pacingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if err := t.tracker.Wait(ctx); err != nil {
		return nil, err
	}
	if err := t.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	t.tracker.Observe(resp)
	return resp, nil
}

// retryTransport adds exponential backoff retry for transient failures:
// transport-level faults and 502/503/504 responses. Classified API errors
// (404, 401, rate limits) pass through untouched; retrying those is the
// batch driver's call, not the transport's.
type retryTransport struct {
	base           http.RoundTripper
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

func newRetryTransport(base http.RoundTripper, maxRetries int) http.RoundTripper {
	return &retryTransport{
		base:           base,
		maxRetries:     maxRetries,
		initialBackoff: time.Second,
		maxBackoff:     30 * time.Second,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastErr error
	backoff := t.initialBackoff

	for attempt := 0; attempt < t.maxRetries; attempt++ {
		resp, err := t.base.RoundTrip(req.Clone(req.Context()))

		if err == nil && !isRetryableStatusCode(resp.StatusCode) {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			if attempt == t.maxRetries-1 {
				// Out of attempts. Hand the response back so the
				// caller classifies the 5xx instead of seeing a
				// transport failure.
				return resp, nil
			}
			lastErr = fmt.Errorf("received status %d", resp.StatusCode)
			resp.Body.Close()
		}

		if attempt < t.maxRetries-1 {
			select {
			case <-time.After(backoff):
				backoff *= 2
				if backoff > t.maxBackoff {
					backoff = t.maxBackoff
				}
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}
	}

	return nil, fmt.Errorf("giving up after %d attempts: %w", t.maxRetries, lastErr)
}

// isRetryableStatusCode checks if an HTTP status code should trigger a retry.
func isRetryableStatusCode(code int) bool {
	switch code {
	case http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

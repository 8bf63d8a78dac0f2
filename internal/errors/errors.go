// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

// Package errors defines sentinel errors for consistent error handling across
// the application. These errors map to specific exit codes in the CLI for
// proper scripting support.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidToken indicates GitHub rejected the supplied credentials.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrNotFound indicates the requested pull request or repository does
	// not exist or is not accessible. Maps to exit code 2.
	ErrNotFound = errors.New("not found")

	// ErrNetworkFailure indicates a failure below the HTTP layer: DNS,
	// connection refused, timeout. Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimited indicates GitHub's API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimited = errors.New("github rate limit exceeded")
)

// RateLimitError carries the reset time reported by GitHub alongside the
// ErrRateLimited sentinel. Callers decide whether to wait until Reset and
// retry or give up.
type RateLimitError struct {
	// Reset is the time at which the rate-limit window renews. Zero when
	// the response carried no usable reset header.
	Reset time.Time
}

func (e *RateLimitError) Error() string {
	if e.Reset.IsZero() {
		return ErrRateLimited.Error()
	}
	return fmt.Sprintf("github rate limit exceeded, resets at %s", e.Reset.Format(time.RFC3339))
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// StatusError is a classified HTTP error response from the GitHub API.
// Client (4xx) and server (5xx) conditions are both expressed through this
// type; the sentinel wrapped by Unwrap distinguishes the special cases
// (404 not found, 401 bad credentials).
type StatusError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Message is the human-readable message from the API error body,
	// empty when the body carried none.
	Message string

	sentinel error
}

// NewStatusError builds a StatusError wrapping the given sentinel.
// A nil sentinel is allowed for plain 4xx/5xx conditions.
func NewStatusError(statusCode int, message string, sentinel error) *StatusError {
	return &StatusError{StatusCode: statusCode, Message: message, sentinel: sentinel}
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("github api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("github api error: status %d: %s", e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error { return e.sentinel }

// IsServerError reports whether the error is a classified 5xx response.
func IsServerError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode >= 500
}

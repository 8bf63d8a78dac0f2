// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pperrors "github.com/therealfredp3d/pullpal/internal/errors"
	"github.com/therealfredp3d/pullpal/internal/github"
)

func addPR(mock *github.MockClient, number int, title string) {
	mock.AddPullRequest(
		&github.PullRequest{Number: number, Title: title, Author: "alice", State: "open"},
		[]github.Comment{{Author: "bob", Body: "comment"}},
		nil,
		nil,
	)
}

func TestRunBatchIsolation(t *testing.T) {
	mock := github.NewMockClient()
	addPR(mock, 1, "first")
	addPR(mock, 3, "third")
	// PR 2 is deliberately absent, so its metadata fetch returns 404.

	driver := NewDriver(mock, Options{})
	report, err := driver.Run(context.Background(), Request{
		Owner:   "octocat",
		Repo:    "hello-world",
		Numbers: []int{1, 2, 3},
	})
	require.NoError(t, err, "a per-PR failure must not fail the run")

	require.Len(t, report.Succeeded, 2)
	assert.Equal(t, 1, report.Succeeded[0].Number)
	assert.Equal(t, 3, report.Succeeded[1].Number)

	require.Len(t, report.Failed, 1)
	assert.Equal(t, 2, report.Failed[0].Number)
	assert.ErrorIs(t, report.Failed[0].Err, pperrors.ErrNotFound)
}

func TestRunPreservesSubmissionOrderWithWorkers(t *testing.T) {
	mock := github.NewMockClient()
	numbers := []int{5, 1, 9, 3, 7}
	for _, n := range numbers {
		addPR(mock, n, fmt.Sprintf("pr-%d", n))
	}

	driver := NewDriver(mock, Options{Workers: 4})
	report, err := driver.Run(context.Background(), Request{
		Owner:   "octocat",
		Repo:    "hello-world",
		Numbers: numbers,
	})
	require.NoError(t, err)

	require.Len(t, report.Succeeded, len(numbers))
	for i, n := range numbers {
		assert.Equal(t, n, report.Succeeded[i].Number,
			"concurrent execution must not reorder the report")
	}
	assert.Empty(t, report.Failed)
}

func TestRunRateLimitBackoffAndRetry(t *testing.T) {
	mock := github.NewMockClient()
	addPR(mock, 42, "rate limited once")

	reset := time.Now().Add(2 * time.Second)
	var rateLimited int32
	mock.GetPullRequestErr = func(number int) error {
		if atomic.CompareAndSwapInt32(&rateLimited, 0, 1) {
			return &pperrors.RateLimitError{Reset: reset}
		}
		return nil
	}

	driver := NewDriver(mock, Options{RateLimitRetries: 2})
	start := time.Now()
	report, err := driver.Run(context.Background(), Request{
		Owner:   "octocat",
		Repo:    "hello-world",
		Numbers: []int{42},
	})
	require.NoError(t, err)

	elapsed := time.Since(start)
	require.Len(t, report.Succeeded, 1, "the retried fetch should succeed")
	assert.Empty(t, report.Failed)
	assert.GreaterOrEqual(t, elapsed, 1900*time.Millisecond,
		"driver must wait out the reset before retrying")
}

func TestRunRateLimitExhaustsRetries(t *testing.T) {
	mock := github.NewMockClient()
	addPR(mock, 42, "always rate limited")
	mock.GetPullRequestErr = func(number int) error {
		return &pperrors.RateLimitError{Reset: time.Now().Add(10 * time.Millisecond)}
	}

	driver := NewDriver(mock, Options{RateLimitRetries: 1})
	report, err := driver.Run(context.Background(), Request{
		Owner:   "octocat",
		Repo:    "hello-world",
		Numbers: []int{42},
	})
	require.NoError(t, err)

	assert.Empty(t, report.Succeeded)
	require.Len(t, report.Failed, 1)
	assert.ErrorIs(t, report.Failed[0].Err, pperrors.ErrRateLimited,
		"exhausted retries downgrade to a permanent failure entry")
}

func TestRunLatestN(t *testing.T) {
	mock := github.NewMockClient()
	for i := 0; i < 15; i++ {
		number := 200 - i
		addPR(mock, number, fmt.Sprintf("pr-%d", number))
		mock.Listing = append(mock.Listing, github.PullRequestSummary{
			Number:    number,
			State:     "open",
			UpdatedAt: fmt.Sprintf("2023-01-%02dT00:00:00Z", 15-i),
		})
	}

	driver := NewDriver(mock, Options{})
	report, err := driver.Run(context.Background(), Request{
		Owner:  "octocat",
		Repo:   "hello-world",
		Latest: 12,
		State:  "all",
	})
	require.NoError(t, err)

	require.Len(t, report.Succeeded, 12, "latest 12 of 15 must assemble exactly 12")
	for i, record := range report.Succeeded {
		assert.Equal(t, 200-i, record.Number, "discovery order must be preserved")
	}
}

func TestRunLatestNOpenOnly(t *testing.T) {
	mock := github.NewMockClient()
	states := []string{"open", "closed", "open", "closed", "open"}
	for i, state := range states {
		number := 10 + i
		addPR(mock, number, "pr")
		mock.Listing = append(mock.Listing, github.PullRequestSummary{Number: number, State: state})
	}

	driver := NewDriver(mock, Options{})
	report, err := driver.Run(context.Background(), Request{
		Owner:  "octocat",
		Repo:   "hello-world",
		Latest: 10,
		State:  "open",
	})
	require.NoError(t, err)

	require.Len(t, report.Succeeded, 3, "state scope filters discovery")
	for i, want := range []int{10, 12, 14} {
		assert.Equal(t, want, report.Succeeded[i].Number)
	}
}

func TestRunDiscoveryFailureIsFatal(t *testing.T) {
	mock := github.NewMockClient()
	mock.ListPullRequestsErr = pperrors.NewStatusError(404, "Not Found", pperrors.ErrNotFound)

	driver := NewDriver(mock, Options{})
	_, err := driver.Run(context.Background(), Request{
		Owner:  "octocat",
		Repo:   "missing",
		Latest: 5,
	})
	require.Error(t, err, "listing failure is a run-level precondition failure")
	assert.ErrorIs(t, err, pperrors.ErrNotFound)
}

func TestRunNoSelection(t *testing.T) {
	driver := NewDriver(github.NewMockClient(), Options{})
	_, err := driver.Run(context.Background(), Request{Owner: "o", Repo: "r"})
	require.Error(t, err)
}

func TestRunContextCancellation(t *testing.T) {
	mock := github.NewMockClient()
	addPR(mock, 1, "pr")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	driver := NewDriver(mock, Options{})
	_, err := driver.Run(ctx, Request{Owner: "o", Repo: "r", Numbers: []int{1}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssembleWithRetryNonRateLimitErrorNotRetried(t *testing.T) {
	mock := github.NewMockClient()
	addPR(mock, 1, "pr")
	var calls int32
	mock.GetPullRequestErr = func(number int) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("permanent failure")
	}

	driver := NewDriver(mock, Options{RateLimitRetries: 3})
	report, err := driver.Run(context.Background(), Request{Owner: "o", Repo: "r", Numbers: []int{1}})
	require.NoError(t, err)

	require.Len(t, report.Failed, 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "only rate limits are retried at the driver")
}

// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

package github

import (
	"context"
	"fmt"
	"sync"

	pperrors "github.com/therealfredp3d/pullpal/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
// Canned data is keyed by PR number; per-endpoint error hooks simulate
// partial failures.
type MockClient struct {
	mu sync.Mutex

	// Canned data keyed by PR number.
	PullRequests   map[int]*PullRequest
	IssueComments  map[int][]Comment
	Reviews        map[int][]Review
	ReviewComments map[int][]ReviewComment

	// Listing returned by ListPullRequests, already sorted by update
	// time descending.
	Listing []PullRequestSummary

	// Per-endpoint error hooks. When set, the hook's return value is
	// used as the call's error; a nil return falls through to the
	// canned data.
	GetPullRequestErr     func(number int) error
	ListIssueCommentsErr  func(number int) error
	ListReviewsErr        func(number int) error
	ListReviewCommentsErr func(number int) error
	ListPullRequestsErr   error

	// Calls records every method invocation in order, for verification.
	Calls []string
}

// NewMockClient creates an empty mock client.
func NewMockClient() *MockClient {
	return &MockClient{
		PullRequests:   make(map[int]*PullRequest),
		IssueComments:  make(map[int][]Comment),
		Reviews:        make(map[int][]Review),
		ReviewComments: make(map[int][]ReviewComment),
	}
}

// AddPullRequest registers a pull request with its conversation data.
func (m *MockClient) AddPullRequest(pr *PullRequest, comments []Comment, reviews []Review, reviewComments []ReviewComment) {
	m.PullRequests[pr.Number] = pr
	m.IssueComments[pr.Number] = comments
	m.Reviews[pr.Number] = reviews
	m.ReviewComments[pr.Number] = reviewComments
}

func (m *MockClient) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

// GetPullRequest implements the Client interface.
func (m *MockClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	m.record(fmt.Sprintf("GetPullRequest(%d)", number))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.GetPullRequestErr != nil {
		if err := m.GetPullRequestErr(number); err != nil {
			return nil, err
		}
	}
	pr, ok := m.PullRequests[number]
	if !ok {
		return nil, fmt.Errorf("pull request #%d in %s/%s: %w", number, owner, repo, pperrors.ErrNotFound)
	}
	return pr, nil
}

// ListIssueComments implements the Client interface.
func (m *MockClient) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]Comment, error) {
	m.record(fmt.Sprintf("ListIssueComments(%d)", number))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ListIssueCommentsErr != nil {
		if err := m.ListIssueCommentsErr(number); err != nil {
			return nil, err
		}
	}
	return m.IssueComments[number], nil
}

// ListReviews implements the Client interface.
func (m *MockClient) ListReviews(ctx context.Context, owner, repo string, number int) ([]Review, error) {
	m.record(fmt.Sprintf("ListReviews(%d)", number))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ListReviewsErr != nil {
		if err := m.ListReviewsErr(number); err != nil {
			return nil, err
		}
	}
	return m.Reviews[number], nil
}

// ListReviewComments implements the Client interface.
func (m *MockClient) ListReviewComments(ctx context.Context, owner, repo string, number int) ([]ReviewComment, error) {
	m.record(fmt.Sprintf("ListReviewComments(%d)", number))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ListReviewCommentsErr != nil {
		if err := m.ListReviewCommentsErr(number); err != nil {
			return nil, err
		}
	}
	return m.ReviewComments[number], nil
}

// ListPullRequests implements the Client interface.
func (m *MockClient) ListPullRequests(ctx context.Context, owner, repo string, opts ListOptions) ([]PullRequestSummary, error) {
	m.record(fmt.Sprintf("ListPullRequests(limit=%d,state=%s)", opts.Limit, opts.State))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ListPullRequestsErr != nil {
		return nil, m.ListPullRequestsErr
	}

	listing := m.Listing
	if opts.State != "" && opts.State != "all" {
		filtered := make([]PullRequestSummary, 0, len(listing))
		for _, s := range listing {
			if s.State == opts.State {
				filtered = append(filtered, s)
			}
		}
		listing = filtered
	}
	if opts.Limit > 0 && len(listing) > opts.Limit {
		listing = listing[:opts.Limit]
	}
	return listing, nil
}

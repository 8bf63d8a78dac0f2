// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

package github

import "context"

// Client defines the interface for interacting with GitHub's API.
// This interface allows for easy mocking in tests.
type Client interface {
	// GetPullRequest retrieves the metadata of a single pull request.
	// Returns an error wrapping errors.ErrNotFound if the pull request
	// does not exist in the repository.
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error)

	// ListIssueComments retrieves every PR-level discussion comment,
	// following pagination, in the order GitHub returns them.
	ListIssueComments(ctx context.Context, owner, repo string, number int) ([]Comment, error)

	// ListReviews retrieves every submitted review, following pagination,
	// in the order GitHub returns them.
	ListReviews(ctx context.Context, owner, repo string, number int) ([]Review, error)

	// ListReviewComments retrieves every inline review comment, following
	// pagination, in the order GitHub returns them.
	ListReviewComments(ctx context.Context, owner, repo string, number int) ([]ReviewComment, error)

	// ListPullRequests lists the repository's pull requests sorted by
	// update time, most recent first, requesting only as many pages as
	// opts.Limit requires.
	ListPullRequests(ctx context.Context, owner, repo string, opts ListOptions) ([]PullRequestSummary, error)
}

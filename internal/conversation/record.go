// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

// Package conversation assembles a pull request's full conversation (its
// metadata, discussion comments, reviews, and inline review comments) into
// one normalized record ready for serialization.
package conversation

import "github.com/therealfredp3d/pullpal/internal/github"

// Record is the unified conversation of one pull request. It is built fresh
// per fetch, never mutated afterwards, and either carries all four sections
// or is not produced at all.
type Record struct {
	// Number is the pull request number the record was assembled for.
	Number int `json:"pr_number"`

	// Metadata holds the pull request's own fields: title, author,
	// state, body, and timestamps.
	Metadata github.PullRequest `json:"metadata"`

	// Comments are the PR-level discussion comments in API order,
	// which is chronological.
	Comments []github.Comment `json:"comments"`

	// Reviews are the submitted review verdicts in API order.
	Reviews []github.Review `json:"reviews"`

	// ReviewComments are the inline diff comments in API order.
	ReviewComments []github.ReviewComment `json:"review_comments"`
}

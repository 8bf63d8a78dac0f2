// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

package conversation

import (
	"context"
	"fmt"

	"github.com/therealfredp3d/pullpal/internal/github"
	"golang.org/x/sync/errgroup"
)

// Assembler fetches the four conversation endpoints for a pull request and
// merges the results into one Record.
type Assembler struct {
	client github.Client
}

// NewAssembler creates an Assembler backed by the given client.
func NewAssembler(client github.Client) *Assembler {
	return &Assembler{client: client}
}

// Assemble fetches metadata, issue comments, reviews, and review comments
// for one pull request and returns the merged record. The four fetches are
// independent and run concurrently; the first failure cancels the rest and
// fails the whole assembly. A partially-fetched record is never returned.
func (a *Assembler) Assemble(ctx context.Context, owner, repo string, number int) (*Record, error) {
	var (
		metadata       *github.PullRequest
		comments       []github.Comment
		reviews        []github.Review
		reviewComments []github.ReviewComment
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		metadata, err = a.client.GetPullRequest(ctx, owner, repo, number)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = a.client.ListIssueComments(ctx, owner, repo, number)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = a.client.ListReviews(ctx, owner, repo, number)
		return err
	})
	g.Go(func() error {
		var err error
		reviewComments, err = a.client.ListReviewComments(ctx, owner, repo, number)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assemble conversation for #%d: %w", number, err)
	}

	// Empty sections stay as empty arrays, not null, in serialized output.
	if comments == nil {
		comments = []github.Comment{}
	}
	if reviews == nil {
		reviews = []github.Review{}
	}
	if reviewComments == nil {
		reviewComments = []github.ReviewComment{}
	}

	return &Record{
		Number:         number,
		Metadata:       *metadata,
		Comments:       comments,
		Reviews:        reviews,
		ReviewComments: reviewComments,
	}, nil
}

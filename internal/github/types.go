// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

package github

// Timestamps are kept as the ISO-8601 strings GitHub returns. They are
// passed through to output verbatim, so nothing here parses them into
// time.Time and back.

// PullRequest holds the metadata of a single pull request as returned by
// the pulls endpoint.
type PullRequest struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	State     string `json:"state"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// PullRequestSummary is one entry of the repository's pull request listing.
// It carries just enough to select pull requests by recency.
type PullRequestSummary struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	State     string `json:"state"`
	UpdatedAt string `json:"updated_at"`
}

// Comment is a PR-level discussion comment (GitHub's issue comments
// endpoint, as opposed to inline review comments).
type Comment struct {
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
	Body      string `json:"body"`
}

// ReviewState is the verdict of a submitted review.
type ReviewState string

// ReviewState values as reported by the GitHub API.
const (
	ReviewApproved         ReviewState = "APPROVED"
	ReviewChangesRequested ReviewState = "CHANGES_REQUESTED"
	ReviewCommented        ReviewState = "COMMENTED"
	ReviewDismissed        ReviewState = "DISMISSED"
	ReviewPending          ReviewState = "PENDING"
)

// Review is a top-level review verdict with optional body text.
type Review struct {
	Author    string      `json:"author"`
	CreatedAt string      `json:"created_at"`
	State     ReviewState `json:"state"`
	Body      string      `json:"body"`
}

// ReviewComment is an inline comment attached to a file and line within the
// PR's diff. Line is nil when GitHub omits it, which happens for outdated
// or resolved threads; the JSON key is kept and rendered as null.
type ReviewComment struct {
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
	Body      string `json:"body"`
	Path      string `json:"path"`
	Line      *int   `json:"line"`
}

// ListOptions configures the repository pull request listing used for
// latest-N discovery.
type ListOptions struct {
	// State filters the listing: "open", "closed", or "all".
	// Defaults to "all" if empty.
	State string

	// Limit caps how many pull requests are returned. The listing stops
	// requesting pages as soon as Limit entries have been collected.
	// Zero means a single page.
	Limit int
}

// Wire-format payloads. GitHub nests the author under "user" and, for
// reviews, reports the timestamp as "submitted_at"; the toXxx methods map
// those into the normalized shapes above.

type apiUser struct {
	Login string `json:"login"`
}

type apiPullRequest struct {
	Number    int     `json:"number"`
	Title     string  `json:"title"`
	State     string  `json:"state"`
	Body      *string `json:"body"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
	User      apiUser `json:"user"`
}

func (p *apiPullRequest) toPullRequest() *PullRequest {
	body := ""
	if p.Body != nil {
		body = *p.Body
	}
	return &PullRequest{
		Number:    p.Number,
		Title:     p.Title,
		Author:    p.User.Login,
		State:     p.State,
		Body:      body,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (p *apiPullRequest) toSummary() PullRequestSummary {
	return PullRequestSummary{
		Number:    p.Number,
		Title:     p.Title,
		State:     p.State,
		UpdatedAt: p.UpdatedAt,
	}
}

type apiIssueComment struct {
	User      apiUser `json:"user"`
	CreatedAt string  `json:"created_at"`
	Body      string  `json:"body"`
}

func (c *apiIssueComment) toComment() Comment {
	return Comment{
		Author:    c.User.Login,
		CreatedAt: c.CreatedAt,
		Body:      c.Body,
	}
}

type apiReview struct {
	User        apiUser `json:"user"`
	SubmittedAt string  `json:"submitted_at"`
	State       string  `json:"state"`
	Body        string  `json:"body"`
}

func (r *apiReview) toReview() Review {
	return Review{
		Author:    r.User.Login,
		CreatedAt: r.SubmittedAt,
		State:     ReviewState(r.State),
		Body:      r.Body,
	}
}

type apiReviewComment struct {
	User      apiUser `json:"user"`
	CreatedAt string  `json:"created_at"`
	Body      string  `json:"body"`
	Path      string  `json:"path"`
	Line      *int    `json:"line"`
}

func (c *apiReviewComment) toReviewComment() ReviewComment {
	return ReviewComment{
		Author:    c.User.Login,
		CreatedAt: c.CreatedAt,
		Body:      c.Body,
		Path:      c.Path,
		Line:      c.Line,
	}
}

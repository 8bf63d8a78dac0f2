// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pperrors "github.com/therealfredp3d/pullpal/internal/errors"
	"github.com/therealfredp3d/pullpal/internal/ratelimit"
)

// DefaultEndpoint is the public GitHub API root.
const DefaultEndpoint = "https://api.github.com"

// errorBodyLimit caps how much of an error response body is read when
// extracting the API's message field.
const errorBodyLimit = 4096

// RESTClient implements Client against GitHub's REST API v3. Requests are
// paced and budget-tracked process-wide, transient failures are retried with
// exponential backoff, and HTTP error responses come back as classified
// errors rather than raw statuses.
type RESTClient struct {
	endpoint string
	http     *http.Client
	pageSize int
	tracker  *ratelimit.Tracker
	now      func() time.Time
}

// Options configures a RESTClient. The zero value gets sensible defaults.
type Options struct {
	// Endpoint is the API root, for GitHub Enterprise deployments.
	// Defaults to DefaultEndpoint.
	Endpoint string

	// Timeout bounds each HTTP request. Defaults to 30s.
	Timeout time.Duration

	// PageSize is the per_page value for paginated endpoints.
	// Defaults to 100, GitHub's maximum.
	PageSize int

	// MaxRetries bounds transient-failure retries inside the transport.
	// Defaults to 3.
	MaxRetries int

	// BudgetThreshold is the remaining-request count below which the
	// client sleeps until the rate-limit window resets. Zero disables
	// the backoff.
	BudgetThreshold int

	// RequestsPerSecond paces outgoing requests. Zero means unpaced.
	RequestsPerSecond float64
}

// NewRESTClient creates a client authenticated with the given token.
// An empty token is allowed and means unauthenticated access with
// GitHub's lower anonymous rate limit.
func NewRESTClient(token string, opts Options) *RESTClient {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}

	tracker := ratelimit.NewTracker(opts.BudgetThreshold)

	var transport http.RoundTripper = &authTransport{
		token: token,
		base:  http.DefaultTransport,
	}
	transport = &pacingTransport{
		base:    transport,
		tracker: tracker,
		pacer:   ratelimit.NewPacer(opts.RequestsPerSecond, 1),
	}
	transport = newRetryTransport(transport, opts.MaxRetries)

	return &RESTClient{
		endpoint: strings.TrimSuffix(opts.Endpoint, "/"),
		http: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		pageSize: opts.PageSize,
		tracker:  tracker,
		now:      time.Now,
	}
}

// Tracker exposes the client's rate-limit tracker for callers that want to
// inspect the remaining budget.
func (c *RESTClient) Tracker() *ratelimit.Tracker {
	return c.tracker
}

// GetPullRequest retrieves the metadata of a single pull request.
func (c *RESTClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, number)

	var pr apiPullRequest
	if err := c.do(ctx, path, nil, &pr); err != nil {
		if errors.Is(err, pperrors.ErrNotFound) {
			return nil, fmt.Errorf("pull request #%d in %s/%s: %w", number, owner, repo, err)
		}
		return nil, err
	}
	return pr.toPullRequest(), nil
}

// ListIssueComments retrieves all PR-level discussion comments.
func (c *RESTClient) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]Comment, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments", owner, repo, number)

	raw, err := paginate[apiIssueComment](ctx, c, path, nil, c.pageSize)
	if err != nil {
		return nil, err
	}

	comments := make([]Comment, len(raw))
	for i := range raw {
		comments[i] = raw[i].toComment()
	}
	return comments, nil
}

// ListReviews retrieves all submitted reviews.
func (c *RESTClient) ListReviews(ctx context.Context, owner, repo string, number int) ([]Review, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/reviews", owner, repo, number)

	raw, err := paginate[apiReview](ctx, c, path, nil, c.pageSize)
	if err != nil {
		return nil, err
	}

	reviews := make([]Review, len(raw))
	for i := range raw {
		reviews[i] = raw[i].toReview()
	}
	return reviews, nil
}

// ListReviewComments retrieves all inline review comments.
func (c *RESTClient) ListReviewComments(ctx context.Context, owner, repo string, number int) ([]ReviewComment, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/comments", owner, repo, number)

	raw, err := paginate[apiReviewComment](ctx, c, path, nil, c.pageSize)
	if err != nil {
		return nil, err
	}

	comments := make([]ReviewComment, len(raw))
	for i := range raw {
		comments[i] = raw[i].toReviewComment()
	}
	return comments, nil
}

// ListPullRequests lists pull requests sorted by update time descending.
// It requests only as many pages as needed to collect opts.Limit entries;
// page-size granularity means at most one page of over-fetch, which is
// trimmed before returning.
func (c *RESTClient) ListPullRequests(ctx context.Context, owner, repo string, opts ListOptions) ([]PullRequestSummary, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls", owner, repo)

	state := opts.State
	if state == "" {
		state = "all"
	}
	query := url.Values{}
	query.Set("state", state)
	query.Set("sort", "updated")
	query.Set("direction", "desc")

	perPage := c.pageSize
	var summaries []PullRequestSummary
	for page := 1; ; page++ {
		q := url.Values{}
		for k, vs := range query {
			q[k] = vs
		}
		q.Set("per_page", fmt.Sprint(perPage))
		q.Set("page", fmt.Sprint(page))

		var batch []apiPullRequest
		if err := c.do(ctx, path, q, &batch); err != nil {
			return nil, err
		}
		for i := range batch {
			summaries = append(summaries, batch[i].toSummary())
		}

		if len(batch) < perPage || (opts.Limit > 0 && len(summaries) >= opts.Limit) {
			break
		}
	}

	if opts.Limit > 0 && len(summaries) > opts.Limit {
		summaries = summaries[:opts.Limit]
	}
	return summaries, nil
}

// do issues one GET request and decodes the JSON response into out.
// Error responses (4xx/5xx) are returned as classified errors; only
// transport-level faults surface as network failures.
func (c *RESTClient) do(ctx context.Context, path string, query url.Values, out any) error {
	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %v: %w", path, err, pperrors.ErrNetworkFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.classify(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// classify maps an HTTP error response onto the error taxonomy: 404 not
// found, 401 bad credentials, rate-limit exhaustion with its reset time,
// and plain client or server errors carrying the API message.
func (c *RESTClient) classify(resp *http.Response) error {
	msg := apiMessage(resp.Body)

	if ratelimit.IsRateLimited(resp) {
		return &pperrors.RateLimitError{Reset: ratelimit.ResetTime(resp.Header, c.now())}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return pperrors.NewStatusError(resp.StatusCode, msg, pperrors.ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return pperrors.NewStatusError(resp.StatusCode, msg, pperrors.ErrInvalidToken)
	default:
		return pperrors.NewStatusError(resp.StatusCode, msg, nil)
	}
}

// apiMessage extracts the "message" field from a GitHub error body.
func apiMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, errorBodyLimit))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	return payload.Message
}

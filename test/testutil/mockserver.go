// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

// Package testutil provides common test helpers for pullpal: an httptest
// GitHub REST server with page/per_page pagination, plus canned failure
// servers for rate-limit and error-path tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// PRFixture is the canned data the mock server serves for one pull request.
// Items are raw wire-format maps so tests control exactly what the API
// "returns", unknown fields included.
type PRFixture struct {
	Metadata       map[string]any
	IssueComments  []map[string]any
	Reviews        []map[string]any
	ReviewComments []map[string]any
}

// GitHubServer is an httptest server impersonating the GitHub REST API for
// a single repository.
type GitHubServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
}

// NewGitHubServer starts a mock API server for owner/repo. The listing is
// served from /repos/{owner}/{repo}/pulls in the given order (tests supply
// it already sorted by update time descending); the state query parameter
// filters it. Every collection endpoint honors page/per_page.
func NewGitHubServer(t *testing.T, owner, repo string, fixtures map[int]PRFixture, listing []map[string]any) *GitHubServer {
	t.Helper()

	gs := &GitHubServer{}
	prefix := fmt.Sprintf("/repos/%s/%s", owner, repo)

	gs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gs.mu.Lock()
		gs.requests = append(gs.requests, r.URL.RequestURI())
		gs.mu.Unlock()

		path, ok := strings.CutPrefix(r.URL.Path, prefix)
		if !ok {
			writeAPIError(w, http.StatusNotFound, "Not Found")
			return
		}

		switch {
		case path == "/pulls":
			items := listing
			if state := r.URL.Query().Get("state"); state != "" && state != "all" {
				filtered := make([]map[string]any, 0, len(items))
				for _, item := range items {
					if item["state"] == state {
						filtered = append(filtered, item)
					}
				}
				items = filtered
			}
			writePage(w, r, items)

		case strings.HasPrefix(path, "/pulls/") || strings.HasPrefix(path, "/issues/"):
			parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
			number, err := strconv.Atoi(parts[1])
			if err != nil {
				writeAPIError(w, http.StatusNotFound, "Not Found")
				return
			}
			fixture, ok := fixtures[number]
			if !ok {
				writeAPIError(w, http.StatusNotFound, "Not Found")
				return
			}

			switch {
			case parts[0] == "pulls" && len(parts) == 2:
				writeJSON(w, fixture.Metadata)
			case parts[0] == "issues" && len(parts) == 3 && parts[2] == "comments":
				writePage(w, r, fixture.IssueComments)
			case parts[0] == "pulls" && len(parts) == 3 && parts[2] == "reviews":
				writePage(w, r, fixture.Reviews)
			case parts[0] == "pulls" && len(parts) == 3 && parts[2] == "comments":
				writePage(w, r, fixture.ReviewComments)
			default:
				writeAPIError(w, http.StatusNotFound, "Not Found")
			}

		default:
			writeAPIError(w, http.StatusNotFound, "Not Found")
		}
	}))

	t.Cleanup(gs.Close)
	return gs
}

// Requests returns every request URI seen so far, in order.
func (gs *GitHubServer) Requests() []string {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return append([]string(nil), gs.requests...)
}

// RequestCountMatching counts requests whose URI contains the substring.
func (gs *GitHubServer) RequestCountMatching(substr string) int {
	count := 0
	for _, uri := range gs.Requests() {
		if strings.Contains(uri, substr) {
			count++
		}
	}
	return count
}

// writePage slices items according to page/per_page and writes the slice.
func writePage(w http.ResponseWriter, r *http.Request, items []map[string]any) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = 30
	}

	start := (page - 1) * perPage
	if start > len(items) {
		start = len(items)
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}

	// Empty pages serialize as [], never null.
	pageItems := items[start:end]
	if pageItems == nil {
		pageItems = []map[string]any{}
	}
	writeJSON(w, pageItems)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// NewRateLimitServer creates a server whose first failCount requests are
// rejected with 429 and rate-limit headers pointing resetDelta into the
// future; subsequent requests are handled by next.
func NewRateLimitServer(t *testing.T, failCount int, resetDelta time.Duration, next http.Handler) *httptest.Server {
	t.Helper()
	var requestCount int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := atomic.AddInt32(&requestCount, 1)
		if count <= int32(failCount) {
			reset := time.Now().Add(resetDelta)
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
			writeAPIError(w, http.StatusTooManyRequests, "API rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	}))

	t.Cleanup(server.Close)
	return server
}

// NewErrorServer creates a server that always returns the given status with
// a GitHub-style error body.
func NewErrorServer(t *testing.T, statusCode int, message string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, statusCode, message)
	}))
	t.Cleanup(server.Close)
	return server
}

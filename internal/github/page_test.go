// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageItem struct {
	ID int `json:"id"`
}

// newPagedServer serves total sequential items through page/per_page
// slicing and counts requests.
func newPagedServer(t *testing.T, total int, requests *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		require.GreaterOrEqual(t, page, 1, "page must start at 1")
		require.GreaterOrEqual(t, perPage, 1, "per_page must be set")

		start := (page - 1) * perPage
		if start > total {
			start = total
		}
		end := start + perPage
		if end > total {
			end = total
		}

		items := make([]pageItem, 0, end-start)
		for i := start; i < end; i++ {
			items = append(items, pageItem{ID: i})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(items)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPaginateCompleteness(t *testing.T) {
	tests := []struct {
		name         string
		perPage      int
		total        int
		wantRequests int32
	}{
		{"zero pages per_page 1", 1, 0, 1},
		{"one page per_page 1", 1, 1, 2},
		{"two pages per_page 1", 1, 2, 3},
		{"ten pages per_page 1", 1, 10, 11},
		{"zero pages per_page 100", 100, 0, 1},
		{"one partial page per_page 100", 100, 51, 1},
		{"two pages last partial per_page 100", 100, 150, 2},
		{"ten pages last partial per_page 100", 100, 951, 10},
		{"exact page boundary needs trailing empty page", 100, 100, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests int32
			server := newPagedServer(t, tt.total, &requests)
			client := NewRESTClient("", Options{Endpoint: server.URL})

			items, err := paginate[pageItem](context.Background(), client, "/items", nil, tt.perPage)
			require.NoError(t, err)

			// No drops, no duplicates, original order.
			require.Len(t, items, tt.total)
			for i, item := range items {
				assert.Equal(t, i, item.ID)
			}
			assert.Equal(t, tt.wantRequests, requests)
		})
	}
}

func TestPaginateEmptyFirstPage(t *testing.T) {
	var requests int32
	server := newPagedServer(t, 0, &requests)
	client := NewRESTClient("", Options{Endpoint: server.URL})

	items, err := paginate[pageItem](context.Background(), client, "/items", nil, 100)
	require.NoError(t, err)
	assert.NotNil(t, items, "empty sequence should be an empty slice, not nil")
	assert.Empty(t, items)
}

func TestPaginatePropagatesErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message": "boom"}`))
	}))
	t.Cleanup(server.Close)
	client := NewRESTClient("", Options{Endpoint: server.URL})

	_, err := paginate[pageItem](context.Background(), client, "/items", nil, 100)
	require.Error(t, err)
}

// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

package github

import (
	"context"
	"net/url"
	"strconv"
)

// defaultPageSize is the per_page value used for paginated endpoints.
// 100 is GitHub's maximum.
const defaultPageSize = 100

// paginate drains a collection endpoint page by page, starting at page 1,
// and returns the concatenation of every page in API order. A page shorter
// than perPage is the last one; an empty first page yields an empty, non-nil
// result. Errors abort the sequence immediately, nothing is retried here.
func paginate[T any](ctx context.Context, c *RESTClient, path string, query url.Values, perPage int) ([]T, error) {
	if perPage <= 0 {
		perPage = defaultPageSize
	}

	items := make([]T, 0, perPage)
	for page := 1; ; page++ {
		q := url.Values{}
		for k, vs := range query {
			q[k] = vs
		}
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", strconv.Itoa(page))

		var batch []T
		if err := c.do(ctx, path, q, &batch); err != nil {
			return nil, err
		}

		items = append(items, batch...)
		if len(batch) < perPage {
			return items, nil
		}
	}
}

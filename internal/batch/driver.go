// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

// Package batch drives conversation assembly across a set of pull requests.
// It is the recovery boundary: one pull request's failure becomes a report
// entry instead of aborting the run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/therealfredp3d/pullpal/internal/conversation"
	pperrors "github.com/therealfredp3d/pullpal/internal/errors"
	"github.com/therealfredp3d/pullpal/internal/github"
	"github.com/therealfredp3d/pullpal/internal/ratelimit"
	"golang.org/x/sync/errgroup"
)

// Request describes one batch run.
type Request struct {
	Owner string
	Repo  string

	// Numbers is the explicit list of pull requests to fetch. When empty,
	// Latest selects the N most recently updated pull requests instead.
	Numbers []int

	// Latest is the number of most-recently-updated pull requests to
	// discover via the repository listing. Ignored when Numbers is set.
	Latest int

	// State scopes latest-N discovery: "open", "closed", or "all"
	// (the default).
	State string
}

// Failure pairs a pull request number with the error that stopped its
// assembly.
type Failure struct {
	Number int
	Err    error
}

// Report is the outcome of a batch run. Succeeded preserves the order
// numbers were submitted (or discovered, for latest-N); Failed likewise.
type Report struct {
	Succeeded []*conversation.Record
	Failed    []Failure
}

// Options configures a Driver. The zero value gets sensible defaults.
type Options struct {
	// Workers bounds how many pull requests are assembled concurrently.
	// Defaults to 1; kept small because the rate-limit budget is shared.
	Workers int

	// RateLimitRetries is how many times a rate-limited assembly is
	// retried after waiting for the reset, before the failure becomes
	// permanent. Defaults to 2.
	RateLimitRetries int

	// Progress, when non-nil, receives human-readable status lines.
	Progress func(msg string)
}

// Default driver settings. The retry count and fallback wait are explicit
// constants, configurable through Options.
const (
	defaultRateLimitRetries = 2
	fallbackRateLimitWait   = 30 * time.Second
	maxWorkers              = 4
)

// Driver runs the assembler over a set of pull requests.
type Driver struct {
	client    github.Client
	assembler *conversation.Assembler
	opts      Options
}

// NewDriver creates a Driver using the given client for discovery and
// assembly.
func NewDriver(client github.Client, opts Options) *Driver {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Workers > maxWorkers {
		opts.Workers = maxWorkers
	}
	if opts.RateLimitRetries < 0 {
		opts.RateLimitRetries = 0
	} else if opts.RateLimitRetries == 0 {
		opts.RateLimitRetries = defaultRateLimitRetries
	}
	return &Driver{
		client:    client,
		assembler: conversation.NewAssembler(client),
		opts:      opts,
	}
}

// Run resolves the set of pull request numbers and assembles each one.
// Per-PR failures are collected into the report; Run itself only fails
// when discovery fails or the context is canceled.
func (d *Driver) Run(ctx context.Context, req Request) (*Report, error) {
	numbers := req.Numbers
	if len(numbers) == 0 {
		if req.Latest <= 0 {
			return nil, fmt.Errorf("no pull requests requested")
		}
		var err error
		numbers, err = d.discoverLatest(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("list pull requests for %s/%s: %w", req.Owner, req.Repo, err)
		}
		d.progress(fmt.Sprintf("Found %d pull requests to fetch", len(numbers)))
	}

	type result struct {
		record *conversation.Record
		err    error
	}
	results := make([]result, len(numbers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)
	for i, number := range numbers {
		i, number := i, number
		g.Go(func() error {
			record, err := d.assembleWithRetry(gctx, req.Owner, req.Repo, number)
			results[i] = result{record: record, err: err}
			if err != nil {
				d.progress(fmt.Sprintf("PR #%d failed: %v", number, err))
				// A canceled context means the whole run is going
				// down, not just this PR.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				return nil
			}
			d.progress(fmt.Sprintf("PR #%d fetched", number))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Workers may finish out of order; the report follows submission order.
	report := &Report{}
	for i, number := range numbers {
		if results[i].err != nil {
			report.Failed = append(report.Failed, Failure{Number: number, Err: results[i].err})
			continue
		}
		report.Succeeded = append(report.Succeeded, results[i].record)
	}
	return report, nil
}

// discoverLatest resolves latest-N requests through the repository listing,
// which is sorted by update time descending.
func (d *Driver) discoverLatest(ctx context.Context, req Request) ([]int, error) {
	summaries, err := d.client.ListPullRequests(ctx, req.Owner, req.Repo, github.ListOptions{
		State: req.State,
		Limit: req.Latest,
	})
	if err != nil {
		return nil, err
	}

	numbers := make([]int, len(summaries))
	for i, s := range summaries {
		numbers[i] = s.Number
	}
	return numbers, nil
}

// assembleWithRetry assembles one pull request, waiting out rate limits a
// bounded number of times before giving up. Other errors are not retried
// here; transient transport faults are already retried inside the client.
func (d *Driver) assembleWithRetry(ctx context.Context, owner, repo string, number int) (*conversation.Record, error) {
	var lastErr error

	for attempt := 0; attempt <= d.opts.RateLimitRetries; attempt++ {
		record, err := d.assembler.Assemble(ctx, owner, repo, number)
		if err == nil {
			return record, nil
		}
		lastErr = err

		var rle *pperrors.RateLimitError
		if !errors.As(err, &rle) || attempt == d.opts.RateLimitRetries {
			return nil, err
		}

		reset := rle.Reset
		if reset.IsZero() {
			reset = time.Now().Add(fallbackRateLimitWait)
		}
		d.progress(fmt.Sprintf("Rate limited; waiting until %s before retrying PR #%d",
			reset.Format(time.Kitchen), number))
		if err := ratelimit.WaitUntil(ctx, reset); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (d *Driver) progress(msg string) {
	if d.opts.Progress != nil {
		d.opts.Progress(msg)
	}
}

// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/therealfredp3d/pullpal/internal/batch"
	"github.com/therealfredp3d/pullpal/internal/config"
	pperrors "github.com/therealfredp3d/pullpal/internal/errors"
	"github.com/therealfredp3d/pullpal/internal/github"
	"github.com/therealfredp3d/pullpal/internal/output"
)

// fetchFlags collects the fetch command's flag values.
type fetchFlags struct {
	token      string
	owner      string
	repo       string
	pr         int
	prs        string
	latest     int
	state      string
	outputDir  string
	outputFile string
	format     string
	configPath string
	workers    int
}

func newFetchCommand() *cobra.Command {
	flags := &fetchFlags{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch pull request conversations from a GitHub repository",
		Long: `Fetch one or more pull request conversations and save each to a file.

Select pull requests with exactly one of:
  --pr 123          a single pull request
  --prs 1,2,3       an explicit list
  --latest 10       the N most recently updated pull requests

Authentication uses a GitHub token from --token, the GITHUB_TOKEN
environment variable, or a .env file. Without a token, requests are
unauthenticated and subject to GitHub's lower anonymous rate limit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN)")
	cmd.Flags().StringVar(&flags.owner, "owner", "octocat", "Repository owner")
	cmd.Flags().StringVar(&flags.repo, "repo", "hello-world", "Repository name")
	cmd.Flags().IntVar(&flags.pr, "pr", 0, "Single pull request number to fetch")
	cmd.Flags().StringVar(&flags.prs, "prs", "", "Comma-separated list of pull request numbers (e.g. '1,2,3')")
	cmd.Flags().IntVar(&flags.latest, "latest", 0, "Fetch the N most recently updated pull requests")
	cmd.Flags().StringVar(&flags.state, "state", "all", "PR state scope for --latest: open, closed, or all")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "Output directory for conversation files (default 'pr-conversation')")
	cmd.Flags().StringVar(&flags.outputFile, "output-file", "", "Output file path, only valid with --pr")
	cmd.Flags().StringVar(&flags.format, "format", "", "Output format: md or json (default md)")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "Path to config file")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Number of pull requests fetched concurrently")

	cmd.MarkFlagsMutuallyExclusive("pr", "prs", "latest")
	cmd.MarkFlagsOneRequired("pr", "prs", "latest")

	return cmd
}

func runFetch(ctx context.Context, flags *fetchFlags) error {
	config.LoadDotenv()

	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return err
	}
	if flags.outputDir != "" {
		cfg.Defaults.OutputDir = flags.outputDir
	}
	if flags.format != "" {
		cfg.Defaults.OutputFormat = flags.format
	}
	if flags.workers > 0 {
		cfg.Defaults.Workers = flags.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, err := output.ParseFormat(cfg.Defaults.OutputFormat)
	if err != nil {
		return err
	}

	numbers, err := resolveNumbers(flags)
	if err != nil {
		return err
	}
	if flags.outputFile != "" && flags.pr == 0 {
		return fmt.Errorf("--output-file is only valid with --pr")
	}
	if flags.latest > 0 && !validState(flags.state) {
		return fmt.Errorf("invalid --state %q (want open, closed, or all)", flags.state)
	}

	token := cfg.ResolveToken(flags.token)
	if token == "" {
		fmt.Fprintln(os.Stderr, "Warning: no GitHub token found; proceeding unauthenticated with a lower rate limit")
	}

	client := github.NewRESTClient(token, github.Options{
		Endpoint:          cfg.GitHub.APIEndpoint,
		Timeout:           time.Duration(cfg.Defaults.RequestTimeoutSeconds) * time.Second,
		PageSize:          cfg.Defaults.PageSize,
		BudgetThreshold:   cfg.RateLimit.BudgetThreshold,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
	})

	var writer output.Writer
	if flags.outputFile != "" {
		writer = output.NewSingleFileWriter(flags.outputFile, format)
	} else {
		writer = output.NewFileWriter(cfg.Defaults.OutputDir, flags.repo, format)
	}

	driver := batch.NewDriver(client, batch.Options{
		Workers:          cfg.Defaults.Workers,
		RateLimitRetries: cfg.RateLimit.MaxRetries,
		Progress: func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		},
	})

	fmt.Fprintf(os.Stderr, "Fetching pull request conversations from %s/%s...\n", flags.owner, flags.repo)

	report, err := driver.Run(ctx, batch.Request{
		Owner:   flags.owner,
		Repo:    flags.repo,
		Numbers: numbers,
		Latest:  flags.latest,
		State:   flags.state,
	})
	if err != nil {
		return err
	}

	for _, record := range report.Succeeded {
		path, err := writer.Write(record)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved PR #%d conversation to %s\n", record.Number, path)
	}

	for _, failure := range report.Failed {
		fmt.Fprintf(os.Stderr, "Failed PR #%d: %v\n", failure.Number, failure.Err)
	}
	fmt.Fprintf(os.Stderr, "Done: %d saved, %d failed\n", len(report.Succeeded), len(report.Failed))

	// A partially-failed batch is still a success; only a batch with no
	// successes at all surfaces as a hard failure.
	if len(report.Succeeded) == 0 && len(report.Failed) > 0 {
		return fmt.Errorf("all %d pull requests failed: %w", len(report.Failed), report.Failed[0].Err)
	}
	return nil
}

// resolveNumbers turns the --pr/--prs selection into an explicit list.
// An empty result means latest-N discovery.
func resolveNumbers(flags *fetchFlags) ([]int, error) {
	if flags.pr != 0 {
		if flags.pr < 0 {
			return nil, fmt.Errorf("invalid pull request number: %d", flags.pr)
		}
		return []int{flags.pr}, nil
	}
	if flags.prs != "" {
		return parsePRList(flags.prs)
	}
	if flags.latest < 0 {
		return nil, fmt.Errorf("invalid --latest value: %d", flags.latest)
	}
	return nil, nil
}

// parsePRList parses a comma-separated list of pull request numbers.
func parsePRList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	numbers := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid pull request number %q in --prs", part)
		}
		numbers = append(numbers, n)
	}
	if len(numbers) == 0 {
		return nil, fmt.Errorf("--prs contained no pull request numbers")
	}
	return numbers, nil
}

func validState(state string) bool {
	switch state {
	case "open", "closed", "all":
		return true
	default:
		return false
	}
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, pperrors.ErrInvalidToken) ||
		errors.Is(err, pperrors.ErrNotFound) ||
		errors.Is(err, pperrors.ErrRateLimited) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, pperrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}

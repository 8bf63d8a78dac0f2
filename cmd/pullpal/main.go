// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "pullpal",
		Short: "Fetch and save complete GitHub pull request conversations",
		Long: `PullPal fetches the full conversation of GitHub pull requests (the
description, discussion comments, reviews, and inline review comments)
and saves each one as a Markdown or JSON file for archival or offline
analysis.`,
		Version:       version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	rootCmd.AddCommand(newFetchCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

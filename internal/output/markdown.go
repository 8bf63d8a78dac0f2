// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

package output

import (
	"fmt"
	"strings"

	"github.com/therealfredp3d/pullpal/internal/conversation"
)

// RenderMarkdown formats a conversation record as a Markdown document:
// title and metadata header, then Description, Comments, Reviews, and
// Review Comments sections. Empty sections are omitted entirely.
func RenderMarkdown(record *conversation.Record) string {
	var b strings.Builder
	meta := record.Metadata

	fmt.Fprintf(&b, "# PR #%d: %s\n\n", record.Number, meta.Title)
	fmt.Fprintf(&b, "**Author:** %s\n", meta.Author)
	fmt.Fprintf(&b, "**Created:** %s\n", meta.CreatedAt)
	fmt.Fprintf(&b, "**Updated:** %s\n", meta.UpdatedAt)
	fmt.Fprintf(&b, "**State:** %s\n\n", meta.State)

	if meta.Body != "" {
		b.WriteString("## Description\n\n")
		fmt.Fprintf(&b, "%s\n\n", meta.Body)
	}

	if len(record.Comments) > 0 {
		b.WriteString("## Comments\n\n")
		for _, c := range record.Comments {
			fmt.Fprintf(&b, "### %s - %s\n\n", c.Author, c.CreatedAt)
			fmt.Fprintf(&b, "%s\n\n", c.Body)
		}
	}

	if len(record.Reviews) > 0 {
		b.WriteString("## Reviews\n\n")
		for _, r := range record.Reviews {
			fmt.Fprintf(&b, "### %s - %s\n\n", r.Author, r.CreatedAt)
			fmt.Fprintf(&b, "**State:** %s\n\n", r.State)
			if r.Body != "" {
				fmt.Fprintf(&b, "%s\n\n", r.Body)
			}
		}
	}

	if len(record.ReviewComments) > 0 {
		b.WriteString("## Review Comments\n\n")
		for _, c := range record.ReviewComments {
			fmt.Fprintf(&b, "### %s - %s\n\n", c.Author, c.CreatedAt)
			fmt.Fprintf(&b, "**Path:** %s\n", c.Path)
			if c.Line != nil {
				fmt.Fprintf(&b, "**Line:** %d\n", *c.Line)
			} else {
				// GitHub omits the line for outdated threads.
				b.WriteString("**Line:** outdated\n")
			}
			fmt.Fprintf(&b, "\n%s\n\n", c.Body)
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

// Package output renders assembled conversation records to Markdown or JSON
// and places them on disk, one file per pull request.
package output

import (
	"fmt"

	"github.com/therealfredp3d/pullpal/internal/conversation"
)

// Format selects the serialization of a conversation record.
type Format string

// Supported output formats.
const (
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMarkdown, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want md or json)", s)
	}
}

// Ext returns the file extension for the format, dot included.
func (f Format) Ext() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".md"
}

// Writer persists one conversation record per call. Implementations own
// file naming and placement; callers just hand over the record.
type Writer interface {
	// Write renders and persists a record, returning the path written.
	Write(record *conversation.Record) (string, error)
}

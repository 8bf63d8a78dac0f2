// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/therealfredp3d/pullpal/internal/conversation"
)

// FileWriter writes one file per conversation record into a directory,
// named {repo}-{number} with the format's extension. The directory is
// created on first use.
type FileWriter struct {
	dir    string
	repo   string
	format Format

	// path, when set, overrides the computed filename. Only sensible
	// for single-PR runs.
	path string
}

// NewFileWriter creates a writer placing records under dir.
func NewFileWriter(dir, repo string, format Format) *FileWriter {
	return &FileWriter{dir: dir, repo: repo, format: format}
}

// NewSingleFileWriter creates a writer that writes every record to the
// given path, for single-PR fetches with an explicit output file.
func NewSingleFileWriter(path string, format Format) *FileWriter {
	return &FileWriter{path: path, format: format}
}

// Write implements the Writer interface.
func (w *FileWriter) Write(record *conversation.Record) (string, error) {
	data, err := w.render(record)
	if err != nil {
		return "", err
	}

	path := w.path
	if path == "" {
		if err := os.MkdirAll(w.dir, 0o755); err != nil {
			return "", fmt.Errorf("create output directory %s: %w", w.dir, err)
		}
		path = filepath.Join(w.dir, fmt.Sprintf("%s-%d%s", w.repo, record.Number, w.format.Ext()))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write conversation file %s: %w", path, err)
	}
	return path, nil
}

func (w *FileWriter) render(record *conversation.Record) ([]byte, error) {
	if w.format == FormatJSON {
		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal conversation record: %w", err)
		}
		return append(data, '\n'), nil
	}
	return []byte(RenderMarkdown(record)), nil
}

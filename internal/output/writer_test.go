// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"md", FormatMarkdown, false},
		{"json", FormatJSON, false},
		{"yaml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileWriterMarkdown(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conversations")
	writer := NewFileWriter(dir, "hello-world", FormatMarkdown)

	path, err := writer.Write(sampleRecord())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "hello-world-123.md"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# PR #123: Fix bug")
}

func TestFileWriterJSON(t *testing.T) {
	dir := t.TempDir()
	writer := NewFileWriter(dir, "hello-world", FormatJSON)

	path, err := writer.Write(sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "hello-world-123.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.EqualValues(t, 123, decoded["pr_number"])

	meta, ok := decoded["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Fix bug", meta["title"])

	comments, ok := decoded["comments"].([]any)
	require.True(t, ok)
	assert.Len(t, comments, 1)
}

func TestFileWriterJSONKeepsNullLine(t *testing.T) {
	record := sampleRecord()
	record.ReviewComments[0].Line = nil

	writer := NewFileWriter(t.TempDir(), "hello-world", FormatJSON)
	path, err := writer.Write(record)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"line": null`, "absent line keeps its key")
}

func TestSingleFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my-pr.md")
	writer := NewSingleFileWriter(path, FormatMarkdown)

	got, err := writer.Write(sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestFileWriterCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	writer := NewFileWriter(dir, "repo", FormatMarkdown)

	_, err := writer.Write(sampleRecord())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

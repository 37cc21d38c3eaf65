package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newswatch/internal/domain/entity"
)

func testSnapshot() *entity.Snapshot {
	warning := "No rssUrl configured (link-only source)."
	return &entity.Snapshot{
		GeneratedAt: entity.NewISOTime(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)),
		Sources: []entity.SourceStatus{
			{
				Source: entity.Source{
					ID:           "ours-news",
					Company:      "Swiis",
					CompanyGroup: entity.CompanyGroupOurs,
					Type:         entity.SourceTypeWebsite,
					Title:        "Swiis News",
					PageURL:      "https://example.com/news",
				},
				Warning: &warning,
			},
		},
		Items: []entity.Item{},
	}
}

func TestWriterCreatesDirectoriesAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docs", "data", "content.json")

	w := NewWriter(path)
	require.NoError(t, w.Write(testSnapshot()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "2026-01-02T03:04:05.000Z", decoded["generatedAt"])

	// Two-space indentation, matching what downstream diff tooling expects.
	assert.True(t, strings.HasPrefix(string(data), "{\n  \""))
}

func TestWriterReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"old":true}`), 0o644))

	w := NewWriter(path)
	require.NoError(t, w.Write(testSnapshot()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"old"`)
	assert.Contains(t, string(data), `"ours-news"`)
}

func TestWriterLeavesNoStagingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.json")

	w := NewWriter(path)
	require.NoError(t, w.Write(testSnapshot()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "content.json", entries[0].Name())
}

func TestWriterDirectoryCreationFailure(t *testing.T) {
	dir := t.TempDir()
	// A file where a directory is needed makes MkdirAll fail.
	blocker := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	w := NewWriter(filepath.Join(blocker, "content.json"))
	err := w.Write(testSnapshot())
	require.Error(t, err)
}

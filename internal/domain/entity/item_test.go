package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Hello World", "Hello World"},
		{"collapses runs", "Hello   World", "Hello World"},
		{"trims ends", "  Hello World  ", "Hello World"},
		{"newlines and tabs", "Hello\n\tWorld\r\n", "Hello World"},
		{"only whitespace", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestStableID_KnownVectors(t *testing.T) {
	// Pinned against hashes produced by earlier snapshot generations.
	// These must never change, or every item gains a new identity.
	tests := []struct {
		sourceID, link, isoDate, title string
		want                           string
	}{
		{"a", "", "", "", "a:2df8fb"},
		{"compass-news", "https://example.com/post", "2024-01-02T03:04:05.000Z", "Hello World", "compass-news:2d54f596"},
		// Non-ASCII and an astral-plane emoji: the hash walks UTF-16
		// code units, so the surrogate pair counts as two units.
		{"src", "https://example.com/été", "2024-01-02T03:04:05.000Z", "Café 😀", "src:8a7d9a7e"},
	}

	for _, tt := range tests {
		got := StableID(tt.sourceID, tt.link, tt.isoDate, tt.title)
		assert.Equal(t, tt.want, got)
	}
}

func TestStableID_Deterministic(t *testing.T) {
	first := StableID("src", "https://x/1", "2024-01-01T00:00:00.000Z", "Title")
	second := StableID("src", "https://x/1", "2024-01-01T00:00:00.000Z", "Title")
	assert.Equal(t, first, second)
}

func TestStableID_SensitiveToEveryInput(t *testing.T) {
	base := StableID("src", "link", "date", "title")

	assert.NotEqual(t, base, StableID("src2", "link", "date", "title"))
	assert.NotEqual(t, base, StableID("src", "link2", "date", "title"))
	assert.NotEqual(t, base, StableID("src", "link", "date2", "title"))
	assert.NotEqual(t, base, StableID("src", "link", "date", "title2"))
}

package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const capstoneFixture = `<div class="article-grid">
<a href="https://www.capstonefostercare.co.uk/news-and-blogs/fostering-myths">
<div class="img-gradient">
<img class="lazy" src="/media/fostering-myths.jpg" alt="Myths">
</div>
<div class="article-card__body">
<p class="small article-card__date">2nd January, 2026</p>
<h4 class="card-title">Fostering&nbsp;Myths Debunked</h4>
</div>
</a>
<a href="https://www.capstonefostercare.co.uk/news-and-blogs/allowances">
<div class="img-gradient">
<img class="lazy" src="https://cdn.capstone.example/allowances.jpg" alt="">
</div>
<p class="small article-card__date">21st December, 2025</p>
<h4 class="card-title">Fostering Allowances Explained</h4>
</a>
</div>`

func TestParseCapstone(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	entries := parseCapstone(capstoneFixture, now)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "Fostering Myths Debunked", first.Title)
	assert.Equal(t, "https://www.capstonefostercare.co.uk/news-and-blogs/fostering-myths", first.Link)
	// Relative image paths are resolved against the site root.
	assert.Equal(t, "https://www.capstonefostercare.co.uk/media/fostering-myths.jpg", first.Image)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), first.PublishedAt.UTC())

	second := entries[1]
	assert.Equal(t, "https://cdn.capstone.example/allowances.jpg", second.Image)
	require.NotNil(t, second.PublishedAt)
	assert.Equal(t, time.Date(2025, 12, 21, 0, 0, 0, 0, time.UTC), second.PublishedAt.UTC())
}

func TestStripOrdinal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2nd January, 2026", "2 January, 2026"},
		{"21st December, 2025", "21 December, 2025"},
		{"3rd May, 2024", "3 May, 2024"},
		{"4th June, 2024", "4 June, 2024"},
		{"15 July 2024", "15 July 2024"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripOrdinal(tt.in))
	}
}

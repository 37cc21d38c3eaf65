package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newswatch/internal/domain/entity"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/"
     xmlns:media="http://search.yahoo.com/mrss/">
  <channel>
    <title>Example News</title>
    <link>https://example.com</link>
    <item>
      <title>First Story</title>
      <link>https://example.com/first</link>
      <pubDate>Tue, 02 Jan 2024 03:04:05 +0000</pubDate>
      <description>&lt;p&gt;A &lt;b&gt;short&lt;/b&gt; summary.&lt;/p&gt;</description>
      <content:encoded>&lt;p&gt;The full story with an &lt;img src="https://example.com/body.jpg"&gt; image.&lt;/p&gt;</content:encoded>
      <enclosure url="https://example.com/first.jpg" type="image/jpeg" length="1024"/>
      <media:thumbnail url="https://example.com/thumb.jpg"/>
      <media:content url="https://example.com/video.mp4" medium="video"/>
      <media:content url="https://example.com/photo.png" medium="image"/>
    </item>
    <item>
      <title>Undated Story</title>
      <link>https://example.com/undated</link>
      <description>No date here.</description>
    </item>
  </channel>
</rss>`

func newFixtureServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func websiteSource(id, rssURL string) entity.Source {
	return entity.Source{
		ID:      id,
		Company: "Example",
		Type:    entity.SourceTypeWebsite,
		Title:   "Example News",
		RSSURL:  rssURL,
	}
}

func TestRSSFetcherMapsEntries(t *testing.T) {
	srv := newFixtureServer(t, rssFixture)

	f := NewRSSFetcher(srv.Client(), "newswatch-test/1.0")
	entries, err := f.Fetch(context.Background(), websiteSource("example-news", srv.URL))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "First Story", first.Title)
	assert.Equal(t, "https://example.com/first", first.Link)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), first.PublishedAt.UTC())
	assert.Equal(t, "A short summary.", first.Snippet)
	assert.Contains(t, first.Content, "https://example.com/body.jpg")
	assert.Equal(t, "https://example.com/first.jpg", first.EnclosureURL)
	assert.ElementsMatch(t, []string{
		"https://example.com/photo.png",
		"https://example.com/thumb.jpg",
	}, first.MediaURLs)

	undated := entries[1]
	assert.Nil(t, undated.PublishedAt)
	assert.Equal(t, "No date here.", undated.Snippet)
	// Description doubles as content when no content:encoded exists.
	assert.Equal(t, "No date here.", undated.Content)
}

func TestRSSFetcherAtomUpdatedFallback(t *testing.T) {
	const atom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Example Blog</title>
  <entry>
    <title>Atom Entry</title>
    <link href="https://example.com/atom-entry"/>
    <updated>2024-05-06T07:08:09Z</updated>
    <summary>Atom summary.</summary>
  </entry>
</feed>`
	srv := newFixtureServer(t, atom)

	f := NewRSSFetcher(srv.Client(), "newswatch-test/1.0")
	entries, err := f.Fetch(context.Background(), websiteSource("example-blog", srv.URL))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NotNil(t, entries[0].PublishedAt)
	assert.Equal(t, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), entries[0].PublishedAt.UTC())
}

func TestRSSFetcherHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	f := NewRSSFetcher(srv.Client(), "newswatch-test/1.0")
	_, err := f.Fetch(context.Background(), websiteSource("gone", srv.URL))
	require.Error(t, err)
}

func TestRSSFetcherMalformedFeed(t *testing.T) {
	srv := newFixtureServer(t, "this is not xml at all")

	f := NewRSSFetcher(srv.Client(), "newswatch-test/1.0")
	_, err := f.Fetch(context.Background(), websiteSource("broken", srv.URL))
	require.Error(t, err)
}

func TestPublishedAtRawStringFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *time.Time
	}{
		{
			name: "date only",
			raw:  "2024-03-04",
			want: timePtr(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)),
		},
		{
			name: "rfc3339",
			raw:  "2024-03-04T05:06:07Z",
			want: timePtr(time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)),
		},
		{
			name: "garbage",
			raw:  "sometime last week",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := publishedAt(&gofeed.Item{Published: tt.raw})
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(got.UTC()))
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }

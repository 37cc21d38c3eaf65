// Package fetcher provides the feed-based source adapters: syndication
// feeds via gofeed and Facebook pages via the Graph API.
package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"newswatch/internal/domain/entity"
	"newswatch/internal/resilience/circuitbreaker"
	"newswatch/internal/resilience/retry"
	"newswatch/internal/utils/text"
)

// RSSFetcher fetches and parses a source's syndication feed into raw
// entries. It wraps the fetch in retry and circuit-breaker logic.
type RSSFetcher struct {
	client         *http.Client
	userAgent      string
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewRSSFetcher creates an RSSFetcher over the given HTTP client. The client
// carries the per-request timeout; no global parser state is shared between
// calls, so fetchers are safe for concurrent use in tests.
func NewRSSFetcher(client *http.Client, userAgent string) *RSSFetcher {
	return &RSSFetcher{
		client:         client,
		userAgent:      userAgent,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
	}
}

// Fetch retrieves the feed at the source's rssUrl and maps every feed entry
// to a RawEntry.
func (f *RSSFetcher) Fetch(ctx context.Context, src entity.Source) ([]entity.RawEntry, error) {
	var entries []entity.RawEntry

	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		result, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doFetch(ctx, src.RSSURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("source_id", src.ID),
					slog.String("url", src.RSSURL))
			}
			return err
		}
		entries = result.([]entity.RawEntry)
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}

	return entries, nil
}

// doFetch performs one fetch-and-parse attempt.
func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) ([]entity.RawEntry, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = f.userAgent
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		// Surface the status code so the retry layer can tell transient
		// server errors from permanent ones.
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &retry.HTTPError{StatusCode: httpErr.StatusCode, Message: httpErr.Status}
		}
		return nil, err
	}

	entries := make([]entity.RawEntry, 0, len(feed.Items))
	for _, it := range feed.Items {
		// Prefer the full HTML body (content:encoded) over the summary.
		content := it.Content
		if content == "" {
			content = it.Description
		}

		entries = append(entries, entity.RawEntry{
			Title:        it.Title,
			Link:         it.Link,
			PublishedAt:  publishedAt(it),
			Snippet:      entity.NormalizeText(text.StripTags(it.Description)),
			Content:      strings.TrimSpace(content),
			EnclosureURL: enclosureURL(it),
			MediaURLs:    mediaImageURLs(it),
			ITunesImage:  itunesImage(it),
		})
	}

	return entries, nil
}

// rawDateLayouts are tried against unparsed date strings when gofeed's own
// parsing produced nothing.
var rawDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"2006-01-02",
}

// publishedAt resolves the entry date through the fallback chain: structured
// published date, structured updated date, then the raw strings. Returns nil
// when nothing parses; the item then sorts last.
func publishedAt(it *gofeed.Item) *time.Time {
	if it.PublishedParsed != nil {
		return it.PublishedParsed
	}
	if it.UpdatedParsed != nil {
		return it.UpdatedParsed
	}
	for _, raw := range []string{it.Published, it.Updated} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		for _, layout := range rawDateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return &t
			}
		}
	}
	return nil
}

// enclosureURL returns the first enclosure URL, if any. Whether it actually
// names an image is decided later by the image resolver.
func enclosureURL(it *gofeed.Item) string {
	for _, enc := range it.Enclosures {
		if enc != nil && enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}

// mediaImageURLs collects image URLs from the media:content and
// media:thumbnail extensions. Thumbnails are always images; content entries
// only count when their medium or type says so.
func mediaImageURLs(it *gofeed.Item) []string {
	media, ok := it.Extensions["media"]
	if !ok {
		return nil
	}

	var urls []string
	for _, ext := range media["content"] {
		u := ext.Attrs["url"]
		if u == "" {
			continue
		}
		kind := ext.Attrs["medium"] + " " + ext.Attrs["type"]
		if strings.Contains(strings.ToLower(kind), "image") {
			urls = append(urls, u)
		}
	}
	for _, ext := range media["thumbnail"] {
		if u := ext.Attrs["url"]; u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// itunesImage returns the podcast-style channel item image, if present.
func itunesImage(it *gofeed.Item) string {
	if it.ITunesExt == nil {
		return ""
	}
	return it.ITunesExt.Image
}

package scraper

import (
	"regexp"
	"strings"
	"time"

	"newswatch/internal/domain/entity"
)

const (
	compassNewsURL  = "https://www.compassfostering.com/news/"
	compassBlogsURL = "https://www.compassfostering.com/blogs/"
)

// Card shape on both Compass listings: anchor, lazy-loaded image, a date
// span styled with opacity-70, then the heading.
var (
	compassNewsRE = regexp.MustCompile(`(?is)<a\s+href=(https://www\.compassfostering\.com/news/[^\s>]+)[^>]*>.*?<img[^>]+data-src=([^\s>]+).*?<span[^>]*opacity-70">([^<]+)</span><h3 class="heading-five my-4">([^<]+)</h3>`)

	// The blogs listing mixes in cross-posted news cards, so the anchor match
	// is broader and filtered below.
	compassBlogsRE = regexp.MustCompile(`(?is)<a\s+href=(https://www\.compassfostering\.com/[^>\s]+)[^>]*class="Post__Grid-split-image[^>]*>.*?<img[^>]+data-src=([^\s>]+).*?<span[^>]*opacity-70">([^<]+)</span><h3 class="heading-five my-4">([^<]+)</h3>`)
)

// parseCompassNews extracts articles from the Compass news listing. Dates
// look like "26 December 2025".
func parseCompassNews(html string, now time.Time) []entity.RawEntry {
	matches := compassNewsRE.FindAllStringSubmatch(html, maxEntries)

	entries := make([]entity.RawEntry, 0, len(matches))
	for _, m := range matches {
		link, image, dateText, title := m[1], m[2], m[3], m[4]
		published := parseLongDate(dateText, now)
		entries = append(entries, entity.RawEntry{
			Title:       strings.TrimSpace(title),
			Link:        strings.TrimSpace(link),
			PublishedAt: &published,
			Image:       strings.TrimSpace(image),
		})
	}
	return entries
}

// parseCompassBlogs extracts articles from the Compass blogs listing,
// skipping cards that link back into /news/ so the two listings never
// produce the same article twice.
func parseCompassBlogs(html string, now time.Time) []entity.RawEntry {
	matches := compassBlogsRE.FindAllStringSubmatch(html, -1)

	var entries []entity.RawEntry
	for _, m := range matches {
		if len(entries) >= maxEntries {
			break
		}
		link, image, dateText, title := m[1], m[2], m[3], m[4]
		if strings.Contains(link, "/news/") {
			continue
		}
		published := parseLongDate(dateText, now)
		entries = append(entries, entity.RawEntry{
			Title:       strings.TrimSpace(title),
			Link:        strings.TrimSpace(link),
			PublishedAt: &published,
			Image:       strings.TrimSpace(image),
		})
	}
	return entries
}

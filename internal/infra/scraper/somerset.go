package scraper

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"newswatch/internal/domain/entity"
)

const (
	somersetListingURL = "https://www.fosteringinsomerset.org.uk/news"
	somersetBaseURL    = "https://www.fosteringinsomerset.org.uk"
)

// Somerset cards: an article element whose anchor carries the image as an
// inline background-image style, a day/month badge with no year, then the
// title heading.
var somersetRE = regexp.MustCompile(`(?is)<article[^>]*>.*?<a[^>]*href="(/news/[^"]+)"[^>]*style="background-image: url\(([^)]+)\)[^>]*>.*?<span class="number">(\d+)</span>.*?<span class="month">([^<]+)</span>.*?<h2 class="title"><a[^>]*>([^<]+)</a></h2>`)

// somersetImageRE pulls the percent-encoded image path out of the resizer
// query string in the background-image URL.
var somersetImageRE = regexp.MustCompile(`Url=([^&]+)`)

// parseSomerset extracts articles from the Fostering in Somerset listing.
func parseSomerset(html string, now time.Time) []entity.RawEntry {
	matches := somersetRE.FindAllStringSubmatch(html, maxEntries)

	entries := make([]entity.RawEntry, 0, len(matches))
	for _, m := range matches {
		link, imageStyle, day, month, title := m[1], m[2], m[3], m[4], m[5]
		published := parseDayMonth(day, month, now)
		entries = append(entries, entity.RawEntry{
			Title:       strings.TrimSpace(title),
			Link:        somersetBaseURL + strings.TrimSpace(link),
			PublishedAt: &published,
			Image:       somersetImageURL(imageStyle),
		})
	}
	return entries
}

// somersetImageURL decodes the resizer-wrapped image path. No match means no
// image; the resolver falls back to scanning the article page.
func somersetImageURL(style string) string {
	m := somersetImageRE.FindStringSubmatch(style)
	if m == nil {
		return ""
	}
	decoded, err := url.PathUnescape(m[1])
	if err != nil {
		return ""
	}
	return somersetBaseURL + decoded
}

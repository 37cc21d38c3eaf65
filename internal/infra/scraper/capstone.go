package scraper

import (
	"regexp"
	"strings"
	"time"

	"newswatch/internal/domain/entity"
)

const (
	capstoneListingURL = "https://www.capstonefostercare.co.uk/news-and-blogs"
	capstoneBaseURL    = "https://www.capstonefostercare.co.uk"
)

// Capstone cards: anchor wrapping a gradient-framed image, then a date
// paragraph and the card title.
var capstoneRE = regexp.MustCompile(`(?is)<a href="(https://www\.capstonefostercare\.co\.uk/news-and-blogs/[^"]+)">\s*<div class="img-gradient">\s*<img[^>]+src="([^"]+)"[^>]*>\s*</div>.*?<p[^>]*class="[^"]*article-card__date[^"]*">([^<]+)</p>\s*<h4[^>]*class="card-title">([^<]+)</h4>`)

// parseCapstone extracts articles from the Capstone listing. Dates carry
// ordinals ("2nd January, 2026") and image paths are usually site-relative.
func parseCapstone(html string, now time.Time) []entity.RawEntry {
	matches := capstoneRE.FindAllStringSubmatch(html, maxEntries)

	entries := make([]entity.RawEntry, 0, len(matches))
	for _, m := range matches {
		link, imagePath, dateText, title := m[1], m[2], m[3], m[4]
		published := parseLongDate(dateText, now)
		entries = append(entries, entity.RawEntry{
			Title:       strings.TrimSpace(strings.ReplaceAll(title, "&nbsp;", " ")),
			Link:        strings.TrimSpace(link),
			PublishedAt: &published,
			Image:       absoluteURL(capstoneBaseURL, imagePath),
		})
	}
	return entries
}

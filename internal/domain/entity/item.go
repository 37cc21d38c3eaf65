package entity

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf16"
)

const (
	// UntitledPlaceholder replaces an empty title during normalization.
	UntitledPlaceholder = "(untitled)"

	// MaxImages caps the number of image URLs carried by one item.
	MaxImages = 10
)

// RawEntry is the adapter-local representation of one discovered article or
// post before normalization. RSS and scraper adapters both produce it; the
// media-hint fields are only populated on the feed path.
type RawEntry struct {
	Title       string
	Link        string
	PublishedAt *time.Time // nil when the adapter could not parse a date
	Snippet     string
	Content     string // raw HTML body, if the adapter had one

	// Image is a direct image URL supplied by a scraper. When set, the
	// resolver waterfall is skipped entirely.
	Image string

	// Feed-native media hints, consumed by the resolver fallback chain.
	EnclosureURL string
	MediaURLs    []string // image URLs from media:content / media:thumbnail
	ITunesImage  string
}

// Item is the canonical, persisted unit of content. It is created once per
// raw entry during normalization and never mutated afterwards. Items with an
// empty Link are dropped at aggregation.
type Item struct {
	ID           string       `json:"id"`
	SourceID     string       `json:"sourceId"`
	SourceTitle  string       `json:"sourceTitle"`
	Company      string       `json:"company"`
	CompanyGroup CompanyGroup `json:"companyGroup"`
	Type         SourceType   `json:"type"`
	PageURL      string       `json:"pageUrl"`
	Title        string       `json:"title"`
	Link         string       `json:"link"`
	ISODate      *ISOTime     `json:"isoDate"`
	Snippet      string       `json:"snippet"`
	Content      string       `json:"content"`
	Images       []string     `json:"images"`
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// NormalizeText collapses runs of whitespace into single spaces and trims
// the ends.
func NormalizeText(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

// StableID computes the deterministic identity of an item from the tuple
// (sourceID, link, isoDate, title). The tuple is joined with "|" and run
// through a 31-multiplier rolling hash over the string's UTF-16 code units,
// truncated to 32 bits. The result is "<sourceID>:<hash in hex>".
//
// The UTF-16 walk matters: ids are the primary key across snapshot
// generations and must reproduce byte-for-byte what earlier generations
// computed, including for strings outside the basic multilingual plane.
func StableID(sourceID, link, isoDate, title string) string {
	base := strings.Join([]string{sourceID, link, isoDate, title}, "|")
	var h uint32
	for _, u := range utf16.Encode([]rune(base)) {
		h = h*31 + uint32(u)
	}
	return fmt.Sprintf("%s:%x", sourceID, h)
}

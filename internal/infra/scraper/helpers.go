// Package scraper implements the per-site HTML scrapers used for sources
// that publish no feed. Each scraper pairs an HTTP fetch with a pure parse
// function so the extraction logic stays testable against fixture HTML.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"newswatch/internal/domain/entity"
	"newswatch/internal/resilience/retry"
)

const (
	// maxEntries caps how many articles one scrape yields.
	maxEntries = 10

	// maxResponseBytes caps how much HTML we read from a listing page.
	maxResponseBytes = 10 << 20
)

// parseFunc extracts raw entries from a listing page. now anchors dates that
// carry no year of their own.
type parseFunc func(html string, now time.Time) []entity.RawEntry

// siteScraper fetches one listing page and hands it to a parse function. A
// failed fetch is an expected steady state for third-party sites, so it logs
// a warning and yields an empty result instead of an error.
type siteScraper struct {
	client    *http.Client
	userAgent string
	pageURL   string
	parse     parseFunc
	now       func() time.Time
}

func (s *siteScraper) Fetch(ctx context.Context, src entity.Source) ([]entity.RawEntry, error) {
	html, err := fetchPage(ctx, s.client, s.userAgent, s.pageURL)
	if err != nil {
		slog.Warn("scrape fetch failed, returning no entries",
			slog.String("source_id", src.ID),
			slog.String("url", s.pageURL),
			slog.Any("error", err))
		return []entity.RawEntry{}, nil
	}
	return s.parse(html, s.now()), nil
}

// fetchPage retrieves a page body with retries. Non-2xx responses become
// HTTPErrors so the retry layer can distinguish 503s from 404s.
func fetchPage(ctx context.Context, client *http.Client, userAgent, pageURL string) (string, error) {
	var body string

	err := retry.WithBackoff(ctx, retry.ScrapeConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return fmt.Errorf("building request for %s: %w", pageURL, err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", pageURL, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &retry.HTTPError{StatusCode: resp.StatusCode, Message: pageURL}
		}

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return fmt.Errorf("reading %s: %w", pageURL, err)
		}
		body = string(raw)
		return nil
	})
	if err != nil {
		return "", err
	}
	return body, nil
}

// ordinalRE matches day ordinals like "2nd " so "2nd January, 2026" parses.
var ordinalRE = regexp.MustCompile(`(\d+)(st|nd|rd|th)\s+`)

func stripOrdinal(s string) string {
	return ordinalRE.ReplaceAllString(s, "$1 ")
}

// longDateLayouts cover the spelled-out dates the listing pages use.
var longDateLayouts = []string{
	"2 January 2006",
	"2 January, 2006",
	"January 2, 2006",
}

// parseLongDate parses dates like "26 December 2025". Unparsable text falls
// back to now, matching how the site pages are treated elsewhere: a bad date
// never drops the article.
func parseLongDate(s string, now time.Time) time.Time {
	s = strings.TrimSpace(stripOrdinal(s))
	for _, layout := range longDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now
}

// parseDayMonth resolves a day and abbreviated month with no year against
// now: take the current year, and step back one year if that would place the
// article in the future. Listing pages only show past articles.
func parseDayMonth(day, month string, now time.Time) time.Time {
	for _, layout := range []string{"Jan 2 2006", "January 2 2006"} {
		candidate := fmt.Sprintf("%s %s %d", strings.TrimSpace(month), strings.TrimSpace(day), now.Year())
		t, err := time.Parse(layout, candidate)
		if err != nil {
			continue
		}
		if t.After(now) {
			t = t.AddDate(-1, 0, 0)
		}
		return t
	}
	return now
}

// absoluteURL prefixes site-relative paths with the site base.
func absoluteURL(base, path string) string {
	if strings.HasPrefix(path, "http") {
		return path
	}
	return base + path
}

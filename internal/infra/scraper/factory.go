package scraper

import (
	"net/http"
	"time"

	"newswatch/internal/infra/fetcher"
	"newswatch/internal/usecase/build"
)

// Factory builds the per-source fetcher registry for sources that publish no
// feed. Keys are source IDs from the registry file; a source whose ID is not
// here and that has no rssUrl stays link-only.
type Factory struct {
	client        *http.Client
	userAgent     string
	facebookToken string
}

// NewFactory creates a Factory sharing one HTTP client across all scrapers.
func NewFactory(client *http.Client, userAgent, facebookToken string) *Factory {
	return &Factory{
		client:        client,
		userAgent:     userAgent,
		facebookToken: facebookToken,
	}
}

// CreateFetchers returns the scraper registry keyed by source ID.
func (f *Factory) CreateFetchers() map[string]build.SourceFetcher {
	return map[string]build.SourceFetcher{
		"competitor1-news":  f.site(compassNewsURL, parseCompassNews),
		"competitor1-blogs": f.site(compassBlogsURL, parseCompassBlogs),
		"competitor5-news":  f.site(capstoneListingURL, parseCapstone),
		"competitor7-news":  f.site(somersetListingURL, parseSomerset),

		"ours-facebook":        f.facebook("swiisfostercare"),
		"competitor1-facebook": f.facebook("compassfostering"),
	}
}

func (f *Factory) site(pageURL string, parse parseFunc) build.SourceFetcher {
	return &siteScraper{
		client:    f.client,
		userAgent: f.userAgent,
		pageURL:   pageURL,
		parse:     parse,
		now:       time.Now,
	}
}

func (f *Factory) facebook(pageID string) build.SourceFetcher {
	return fetcher.NewFacebookFetcher(f.client, fetcher.FacebookConfig{
		AccessToken: f.facebookToken,
		PageID:      pageID,
	})
}

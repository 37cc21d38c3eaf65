// Package build implements the snapshot build use case: it walks the source
// registry in order, dispatches each source to the right adapter, resolves
// featured images, normalizes raw entries into items, and aggregates
// everything into one snapshot artifact.
package build

import "errors"

// Warning strings attached to a SourceResult. The literal texts are part of
// the snapshot contract and must not change.
const (
	// WarningLinkOnly is attached to sources with no feed URL and no
	// registered scraper capability.
	WarningLinkOnly = "No rssUrl configured (link-only source)."

	warningScrapeFmt = "Scraping failed: %s"
	warningFeedFmt   = "Failed to fetch/parse feed: %s"
)

// ErrRunCanceled indicates the whole run was canceled mid-source. Partial
// results for the in-flight source are discarded, never written.
var ErrRunCanceled = errors.New("snapshot run canceled")

// Package images resolves the candidate image list for raw entries: direct
// scraper images first, then a scan of the article page, then hints carried
// in the feed entry itself.
package images

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"sync"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"newswatch/internal/domain/entity"
	"newswatch/internal/resilience/circuitbreaker"
)

const (
	// DefaultWorkers bounds concurrent article-page fetches within one
	// source batch.
	DefaultWorkers = 4

	// pageFetchesPerSecond throttles article-page requests. Entries of one
	// batch usually share a host, so this is per-host politeness in effect.
	pageFetchesPerSecond = 4

	// maxPageBytes caps how much of an article page we read while looking
	// for a featured image.
	maxPageBytes = 10 << 20
)

// Featured-image patterns, tried in order against the article page.
var featuredPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<meta property="og:image" content="([^"]+)"`),
	regexp.MustCompile(`(?i)<meta name="twitter:image" content="([^"]+)"`),
	regexp.MustCompile(`(?is)<article[^>]*>.*?<img[^>]+src=["']([^"']+)["']`),
	regexp.MustCompile(`(?is)<main[^>]*>.*?<img[^>]+src=["']([^"']+)["']`),
}

var (
	absoluteURLRE = regexp.MustCompile(`(?i)^https?://`)
	imageExtRE    = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp|svg)$`)
	imgTagRE      = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)
)

// Resolver implements the image-resolution waterfall. Page fetches run
// through a shared rate limiter and circuit breaker; any fetch failure just
// drops down to the feed hints, never fails the entry.
type Resolver struct {
	client         *http.Client
	userAgent      string
	circuitBreaker *circuitbreaker.CircuitBreaker
	limiter        *rate.Limiter
	workers        int64
}

// NewResolver creates a Resolver. workers <= 0 selects DefaultWorkers.
func NewResolver(client *http.Client, userAgent string, workers int) *Resolver {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Resolver{
		client:         client,
		userAgent:      userAgent,
		circuitBreaker: circuitbreaker.New(circuitbreaker.ImageFetchConfig()),
		limiter:        rate.NewLimiter(rate.Limit(pageFetchesPerSecond), 1),
		workers:        int64(workers),
	}
}

// ResolveAll resolves images for a batch of entries concurrently. The result
// is index-aligned with the input; a canceled context leaves the remaining
// slots as empty lists.
func (r *Resolver) ResolveAll(ctx context.Context, entries []entity.RawEntry) [][]string {
	results := make([][]string, len(entries))
	for i := range results {
		results[i] = []string{}
	}

	sem := semaphore.NewWeighted(r.workers)
	var wg sync.WaitGroup

	for i := range entries {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = r.Resolve(ctx, entries[i])
		}(i)
	}

	wg.Wait()
	return results
}

// Resolve runs the waterfall for a single entry: scraper-supplied image,
// article-page featured image, then feed hints.
func (r *Resolver) Resolve(ctx context.Context, entry entity.RawEntry) []string {
	if entry.Image != "" {
		return []string{entry.Image}
	}

	if entry.Link != "" {
		if featured := r.featuredImage(ctx, entry.Link); featured != "" {
			return []string{featured}
		}
	}

	return fallbackHints(entry)
}

// featuredImage fetches the article page and scans it for a featured image.
// Only absolute http(s) URLs count; relative paths on unknown sites are not
// worth the guesswork of resolving.
func (r *Resolver) featuredImage(ctx context.Context, pageURL string) string {
	html, err := r.fetchPage(ctx, pageURL)
	if err != nil {
		slog.Debug("featured image fetch failed",
			slog.String("url", pageURL),
			slog.Any("error", err))
		return ""
	}

	for _, pattern := range featuredPatterns {
		m := pattern.FindStringSubmatch(html)
		if m != nil && absoluteURLRE.MatchString(m[1]) {
			return m[1]
		}
	}
	return ""
}

func (r *Resolver) fetchPage(ctx context.Context, pageURL string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := r.circuitBreaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", r.userAgent)

		resp, err := r.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, &httpStatusError{code: resp.StatusCode}
		}

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
		if err != nil {
			return nil, err
		}
		return string(raw), nil
	})
	if err != nil {
		return "", err
	}
	return body.(string), nil
}

type httpStatusError struct{ code int }

func (e *httpStatusError) Error() string {
	return http.StatusText(e.code)
}

// fallbackHints collects image candidates from the feed entry itself:
// image-suffixed enclosures, media extension URLs, the itunes image, and
// absolute <img> tags in the content HTML. Duplicates collapse, and when
// more than one candidate survives the first is dropped since leading images
// in feed content are commonly site logos.
func fallbackHints(entry entity.RawEntry) []string {
	var candidates []string

	if entry.EnclosureURL != "" && imageExtRE.MatchString(entry.EnclosureURL) {
		candidates = append(candidates, entry.EnclosureURL)
	}

	candidates = append(candidates, entry.MediaURLs...)

	if entry.ITunesImage != "" {
		candidates = append(candidates, entry.ITunesImage)
	}

	for _, m := range imgTagRE.FindAllStringSubmatch(entry.Content, -1) {
		if absoluteURLRE.MatchString(m[1]) {
			candidates = append(candidates, m[1])
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	unique := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		unique = append(unique, c)
	}

	if len(unique) > 1 {
		return unique[1:]
	}
	return unique
}

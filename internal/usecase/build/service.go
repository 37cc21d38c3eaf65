package build

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newswatch/internal/domain/entity"
	"newswatch/internal/observability/metrics"
)

// SourceFetcher fetches the raw entries for a single source. The feed
// adapter, the per-site scrapers, and the Facebook adapter all implement it.
type SourceFetcher interface {
	Fetch(ctx context.Context, src entity.Source) ([]entity.RawEntry, error)
}

// ImageResolver resolves the candidate image lists for a batch of raw
// entries. The result is index-aligned with the input and never shorter;
// resolution failures surface as empty lists, not errors.
type ImageResolver interface {
	ResolveAll(ctx context.Context, entries []entity.RawEntry) [][]string
}

// SnapshotWriter persists the finished snapshot artifact.
type SnapshotWriter interface {
	Write(snap *entity.Snapshot) error
}

// Service runs one snapshot build. Sources are processed strictly one at a
// time in registry order as a politeness constraint toward remote hosts;
// only image resolution inside a single source fans out.
type Service struct {
	feed     SourceFetcher
	scrapers map[string]SourceFetcher // capability registry keyed by source id
	images   ImageResolver
	writer   SnapshotWriter
	metrics  *metrics.BuilderMetrics
}

// NewService creates a build Service.
//
// The scrapers map is the scraper adapter registry: a capability keyed by
// source id takes priority over the feed adapter whenever the source has no
// feed URL. A nil map disables scraping entirely.
func NewService(
	feed SourceFetcher,
	scrapers map[string]SourceFetcher,
	images ImageResolver,
	writer SnapshotWriter,
	m *metrics.BuilderMetrics,
) *Service {
	return &Service{
		feed:     feed,
		scrapers: scrapers,
		images:   images,
		writer:   writer,
		metrics:  m,
	}
}

// Stats summarizes one build run.
type Stats struct {
	Sources  int
	Items    int
	Warnings int
	Duration time.Duration
}

// Run executes one full build against the given registry and writes the
// snapshot. Per-source failures never abort the run; once the registry is
// valid a snapshot is always attempted, even if every source fails. The only
// errors returned are cancellation and a failed snapshot write.
func (s *Service) Run(ctx context.Context, sources []entity.Source) (*Stats, error) {
	logger := slog.Default()
	start := time.Now()
	stats := &Stats{Sources: len(sources)}

	results := make([]entity.SourceResult, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			s.metrics.RecordRun("failure", time.Since(start))
			return nil, fmt.Errorf("%w: %v", ErrRunCanceled, err)
		}

		logger.Info("fetching source",
			slog.String("source_id", src.ID),
			slog.String("mode", s.dispatchMode(src)))

		res := s.fetchSource(ctx, src)
		if res.Warning != "" {
			stats.Warnings++
			s.metrics.RecordSourceWarning(src.ID)
			logger.Warn("source degraded",
				slog.String("source_id", src.ID),
				slog.String("warning", res.Warning))
		} else {
			logger.Info("source fetched",
				slog.String("source_id", src.ID),
				slog.Int("items", len(res.Items)))
		}
		results = append(results, res)
	}

	snap := Aggregate(results, time.Now())
	if err := s.writer.Write(snap); err != nil {
		s.metrics.RecordRun("failure", time.Since(start))
		return nil, fmt.Errorf("write snapshot: %w", err)
	}

	stats.Items = len(snap.Items)
	stats.Duration = time.Since(start)
	s.metrics.RecordRun("success", stats.Duration)
	s.metrics.RecordSnapshot(stats.Items)

	logger.Info("snapshot built",
		slog.Int("sources", stats.Sources),
		slog.Int("items", stats.Items),
		slog.Int("warnings", stats.Warnings),
		slog.Duration("duration", stats.Duration))

	return stats, nil
}

// dispatchMode names the adapter a source will be routed to, for logging.
func (s *Service) dispatchMode(src entity.Source) string {
	switch {
	case s.scraperFor(src) != nil:
		return "scrape"
	case src.RSSURL != "":
		return "feed"
	default:
		return "link-only"
	}
}

// scraperFor returns the registered scraper capability for the source, or
// nil. A capability only applies when the source has no feed URL: a feed,
// when configured, is always the cheaper and more reliable path.
func (s *Service) scraperFor(src entity.Source) SourceFetcher {
	if src.RSSURL != "" {
		return nil
	}
	return s.scrapers[src.ID]
}

// fetchSource produces exactly one SourceResult and never fails: adapter and
// network errors are converted into the result's warning string.
func (s *Service) fetchSource(ctx context.Context, src entity.Source) entity.SourceResult {
	res := entity.SourceResult{Source: src, Items: []entity.Item{}}

	var entries []entity.RawEntry
	var err error

	switch {
	case s.scraperFor(src) != nil:
		entries, err = s.scraperFor(src).Fetch(ctx, src)
		if err != nil {
			res.Warning = fmt.Sprintf(warningScrapeFmt, err)
			return res
		}
	case src.RSSURL != "":
		entries, err = s.feed.Fetch(ctx, src)
		if err != nil {
			res.Warning = fmt.Sprintf(warningFeedFmt, err)
			return res
		}
	default:
		res.Warning = WarningLinkOnly
		return res
	}

	images := s.images.ResolveAll(ctx, entries)
	for i, e := range entries {
		res.Items = append(res.Items, NormalizeItem(e, src, images[i]))
	}
	return res
}

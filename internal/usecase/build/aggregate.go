package build

import (
	"sort"
	"strings"
	"time"

	"newswatch/internal/domain/entity"
)

// NormalizeItem converts one raw entry plus its source into the canonical
// Item. Normalization is a pure function: identical inputs always produce
// the same item, including its stable id.
func NormalizeItem(e entity.RawEntry, src entity.Source, images []string) entity.Item {
	title := entity.NormalizeText(e.Title)
	if title == "" {
		title = entity.UntitledPlaceholder
	}
	link := strings.TrimSpace(e.Link)

	var isoDate *entity.ISOTime
	isoStr := ""
	if e.PublishedAt != nil {
		t := entity.NewISOTime(*e.PublishedAt)
		isoDate = &t
		isoStr = t.String()
	}

	return entity.Item{
		ID:           entity.StableID(src.ID, link, isoStr, title),
		SourceID:     src.ID,
		SourceTitle:  src.Title,
		Company:      src.Company,
		CompanyGroup: src.CompanyGroup,
		Type:         src.Type,
		PageURL:      src.PageURL,
		Title:        title,
		Link:         link,
		ISODate:      isoDate,
		Snippet:      entity.NormalizeText(e.Snippet),
		Content:      strings.TrimSpace(e.Content),
		Images:       capImages(images),
	}
}

// capImages deduplicates while preserving resolver order and caps the list
// at the item image limit. The result is never nil so the snapshot always
// carries an images array.
func capImages(urls []string) []string {
	images := make([]string, 0, entity.MaxImages)
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		images = append(images, u)
		if len(images) == entity.MaxImages {
			break
		}
	}
	return images
}

// Aggregate merges the per-source results into the snapshot: items with no
// resolvable link are dropped, the rest are sorted by recency, and every
// source appears in the sources list in registry order regardless of outcome.
func Aggregate(results []entity.SourceResult, generatedAt time.Time) *entity.Snapshot {
	statuses := make([]entity.SourceStatus, 0, len(results))
	items := make([]entity.Item, 0)

	for _, r := range results {
		status := entity.SourceStatus{Source: r.Source}
		if r.Warning != "" {
			warning := r.Warning
			status.Warning = &warning
		}
		statuses = append(statuses, status)

		for _, it := range r.Items {
			if it.Link == "" {
				continue
			}
			items = append(items, it)
		}
	}

	// Stable sort: equal dates keep per-source insertion order, and undated
	// items (key zero) sink to the end.
	sort.SliceStable(items, func(i, j int) bool {
		return recencyKey(items[i]) > recencyKey(items[j])
	})

	return &entity.Snapshot{
		GeneratedAt: entity.NewISOTime(generatedAt),
		Sources:     statuses,
		Items:       items,
	}
}

// recencyKey orders items for the snapshot; a missing date counts as the
// epoch so those items always sort last.
func recencyKey(it entity.Item) int64 {
	if it.ISODate == nil {
		return 0
	}
	return it.ISODate.Time().UnixMilli()
}

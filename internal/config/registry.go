// Package config loads the source registry document. Registry problems are
// fatal: the pipeline refuses to run against a partial or ambiguous source
// list, so every error here aborts the build before any network activity.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"newswatch/internal/domain/entity"
)

// ErrInvalidRegistry indicates the registry document is missing, malformed,
// or contains invalid source records.
var ErrInvalidRegistry = errors.New("invalid source registry")

// registryDocument is the on-disk shape of the registry: a document with a
// top-level "sources" list.
type registryDocument struct {
	Sources []entity.Source `json:"sources" yaml:"sources"`
}

// LoadRegistry reads, normalizes, and validates the registry document at
// path. JSON is the canonical format; files ending in .yaml or .yml are
// parsed as YAML. The returned slice preserves document order.
//
// Any validation failure (missing file, malformed document, missing required
// field, duplicate id) returns an error wrapping ErrInvalidRegistry and no
// sources at all.
func LoadRegistry(path string) ([]entity.Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidRegistry, path, err)
	}

	var doc registryDocument
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &doc)
	default:
		err = json.Unmarshal(raw, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidRegistry, path, err)
	}

	if doc.Sources == nil {
		return nil, fmt.Errorf("%w: %s must contain a top-level \"sources\" list", ErrInvalidRegistry, path)
	}

	sources := make([]entity.Source, 0, len(doc.Sources))
	seen := make(map[string]struct{}, len(doc.Sources))
	for i := range doc.Sources {
		src := doc.Sources[i]
		src.Normalize()
		if err := src.Validate(); err != nil {
			return nil, fmt.Errorf("%w: source %d (id=%q): %v", ErrInvalidRegistry, i, src.ID, err)
		}
		if _, dup := seen[src.ID]; dup {
			return nil, fmt.Errorf("%w: %w: %s", ErrInvalidRegistry, entity.ErrDuplicateSourceID, src.ID)
		}
		seen[src.ID] = struct{}{}
		sources = append(sources, src)
	}

	return sources, nil
}

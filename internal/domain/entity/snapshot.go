package entity

import (
	"fmt"
	"time"
)

// isoLayout matches ECMAScript Date.prototype.toISOString: UTC, millisecond
// precision, literal Z suffix. The stable item id hashes the serialized date,
// so this format must never change.
const isoLayout = "2006-01-02T15:04:05.000Z"

// ISOTime is a time.Time that serializes in the snapshot's canonical instant
// format. A nil *ISOTime marshals as JSON null.
type ISOTime time.Time

// NewISOTime converts a time into its canonical snapshot representation.
func NewISOTime(t time.Time) ISOTime {
	return ISOTime(t.UTC())
}

// String returns the canonical serialized instant.
func (t ISOTime) String() string {
	return time.Time(t).UTC().Format(isoLayout)
}

// Time returns the underlying time.Time.
func (t ISOTime) Time() time.Time {
	return time.Time(t)
}

// Equal reports whether two instants are the same moment in time.
func (t ISOTime) Equal(other ISOTime) bool {
	return time.Time(t).Equal(time.Time(other))
}

// MarshalJSON implements json.Marshaler.
func (t ISOTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *ISOTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid ISO instant: %s", s)
	}
	parsed, err := time.Parse(time.RFC3339, s[1:len(s)-1])
	if err != nil {
		return fmt.Errorf("invalid ISO instant: %w", err)
	}
	*t = NewISOTime(parsed)
	return nil
}

// SourceResult pairs a source with the items it produced during one run and
// an optional warning describing why fewer or no items were produced. The
// orchestrator creates exactly one per source, in registry order.
type SourceResult struct {
	Source  Source
	Items   []Item
	Warning string // empty means no warning
}

// SourceStatus is the snapshot's view of a source: the configuration it ran
// with plus the warning (null when the source fetched cleanly).
type SourceStatus struct {
	Source
	Warning *string `json:"warning"`
}

// Snapshot is the single artifact produced by one pipeline run. Each run
// fully replaces the previous snapshot; there is no incremental merge. The
// sources list corresponds one-to-one, in order, with the input registry.
type Snapshot struct {
	GeneratedAt ISOTime        `json:"generatedAt"`
	Sources     []SourceStatus `json:"sources"`
	Items       []Item         `json:"items"`
}

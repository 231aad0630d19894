// Package catalog defines the normalized item shapes shared by every source
// adapter, the aggregator and the presentation layers.
package catalog

import (
	"fmt"
	"strings"
)

// SourceTag identifies the upstream scraper an item came from.
type SourceTag int

const (
	SourceA SourceTag = iota
	SourceB
	SourceC
)

func (s SourceTag) String() string {
	switch s {
	case SourceA:
		return "source-a"
	case SourceB:
		return "source-b"
	case SourceC:
		return "source-c"
	default:
		return "unknown"
	}
}

// MarshalText encodes the tag by name so JSON maps keyed by SourceTag stay readable.
func (s SourceTag) MarshalText() ([]byte, error) {
	if s < SourceA || s > SourceC {
		return nil, fmt.Errorf("unknown source tag %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *SourceTag) UnmarshalText(b []byte) error {
	tag, err := ParseSourceTag(string(b))
	if err != nil {
		return err
	}
	*s = tag
	return nil
}

// ParseSourceTag accepts "source-a" style names and the short forms "a", "b", "c".
func ParseSourceTag(name string) (SourceTag, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "source-a", "a":
		return SourceA, nil
	case "source-b", "b":
		return SourceB, nil
	case "source-c", "c":
		return SourceC, nil
	default:
		return 0, fmt.Errorf("unknown source %q (valid: a, b, c)", name)
	}
}

// AllSources returns every tag in display order.
func AllSources() []SourceTag {
	return []SourceTag{SourceA, SourceB, SourceC}
}

// CatalogItem is one browsable entry, normalized from a source's own shape.
// Identity is (Source, ID); items from different sources are never merged.
type CatalogItem struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CoverURL   string    `json:"cover_url"`
	Genres     []string  `json:"genres"`
	UploadDate string    `json:"upload_date,omitempty"`
	Source     SourceTag `json:"source"`
}

// Key returns the identity of the item across all sources.
func (c CatalogItem) Key() string {
	return c.Source.String() + ":" + c.ID
}

// Episode is one playable entry on a detail page.
type Episode struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	EmbedURL string `json:"embed_url"`
}

// DetailRecord is the full view of a single item.
type DetailRecord struct {
	Item     CatalogItem `json:"item"`
	Synopsis string      `json:"synopsis,omitempty"`
	Episodes []Episode   `json:"episodes"`
}

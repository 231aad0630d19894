// Package view holds presentation-level helpers that sit on top of the
// aggregator: the active-source selector and a guard against stale responses.
package view

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"tontonin/internal/catalog"
)

// Filter selects which source slice is displayed.
type Filter struct {
	all bool
	tag catalog.SourceTag
}

// All shows every source.
var All = Filter{all: true}

// Only shows a single source.
func Only(tag catalog.SourceTag) Filter {
	return Filter{tag: tag}
}

// ParseFilter accepts "all" (or empty) and any source name.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return All, nil
	}
	tag, err := catalog.ParseSourceTag(s)
	if err != nil {
		return Filter{}, fmt.Errorf("invalid source filter: %w", err)
	}
	return Only(tag), nil
}

func (f Filter) String() string {
	if f.all {
		return "all"
	}
	return f.tag.String()
}

// IsAll reports whether the filter shows every source.
func (f Filter) IsAll() bool { return f.all }

// Tag returns the selected source; meaningless when IsAll.
func (f Filter) Tag() catalog.SourceTag { return f.tag }

// Selection is what the presentation layer renders.
// Count is the sum of the selected slice lengths, not a re-paginated total.
type Selection struct {
	Items []catalog.CatalogItem `json:"items"`
	Count int                   `json:"count"`
}

// Select picks one source's items, or concatenates each source's first
// perSource items in display order. perSource <= 0 disables the cap.
func Select(results map[catalog.SourceTag][]catalog.CatalogItem, f Filter, perSource int) Selection {
	var slices [][]catalog.CatalogItem
	if f.all {
		for _, tag := range catalog.AllSources() {
			slices = append(slices, capItems(results[tag], perSource))
		}
	} else {
		slices = append(slices, capItems(results[f.tag], perSource))
	}

	items := lo.Flatten(slices)
	if items == nil {
		items = []catalog.CatalogItem{}
	}
	return Selection{
		Items: items,
		Count: lo.SumBy(slices, func(s []catalog.CatalogItem) int { return len(s) }),
	}
}

// SelectLatest is Select over per-source pages.
func SelectLatest(pages map[catalog.SourceTag]catalog.Page[catalog.CatalogItem], f Filter, perSource int) Selection {
	return Select(lo.MapValues(pages, func(p catalog.Page[catalog.CatalogItem], _ catalog.SourceTag) []catalog.CatalogItem {
		return p.Items
	}), f, perSource)
}

func capItems(items []catalog.CatalogItem, n int) []catalog.CatalogItem {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

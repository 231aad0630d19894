package ui

import (
	"strings"

	"tontonin/internal/catalog"
)

// listItem adapts a catalog item to list.DefaultItem.
type listItem struct {
	item catalog.CatalogItem
}

func (i listItem) Title() string { return i.item.Title }

func (i listItem) Description() string {
	parts := []string{i.item.Source.String()}
	if i.item.UploadDate != "" {
		parts = append(parts, i.item.UploadDate)
	}
	if len(i.item.Genres) > 0 {
		parts = append(parts, strings.Join(i.item.Genres, ", "))
	}
	return strings.Join(parts, " · ")
}

func (i listItem) FilterValue() string { return i.item.Title }

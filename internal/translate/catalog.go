package translate

import (
	"context"

	"github.com/samber/lo"

	"tontonin/internal/catalog"
)

// Items returns a copy of items with titles translated into target.
func (t *Translator) Items(ctx context.Context, items []catalog.CatalogItem, target string) []catalog.CatalogItem {
	out := append([]catalog.CatalogItem(nil), items...)
	if out == nil {
		out = []catalog.CatalogItem{}
	}
	if t == nil || !NeedsTranslation(target) || len(out) == 0 {
		return out
	}

	titles := t.TranslateBatch(ctx, lo.Map(out, func(it catalog.CatalogItem, _ int) string {
		return it.Title
	}), target)
	for i := range out {
		out[i].Title = titles[i]
	}
	return out
}

// Detail returns a copy of rec with its title and synopsis translated.
func (t *Translator) Detail(ctx context.Context, rec *catalog.DetailRecord, target string) *catalog.DetailRecord {
	if rec == nil {
		return nil
	}
	cp := *rec
	if t == nil || !NeedsTranslation(target) {
		return &cp
	}

	parts := t.TranslateBatch(ctx, []string{rec.Item.Title, rec.Synopsis}, target)
	cp.Item.Title, cp.Synopsis = parts[0], parts[1]
	return &cp
}

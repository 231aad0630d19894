package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"tontonin/internal/catalog"
	"tontonin/internal/logging"
)

// DefaultTimeout bounds each source's share of a fan-out.
const DefaultTimeout = 15 * time.Second

// MinQueryLength is the shortest query that reaches the upstreams.
// Anything at or below two characters is answered locally with no results.
const MinQueryLength = 3

// ErrUnconfigured is returned for a lookup against a source that has no adapter.
var ErrUnconfigured = errors.New("source is not configured")

// Aggregator fans requests out to every adapter and returns per-source results.
// It never fails: a source that errors contributes a degraded-empty value.
type Aggregator struct {
	adapters map[catalog.SourceTag]Adapter
	timeout  time.Duration
	logger   *log.Logger
}

// NewAggregator creates an aggregator over the given adapters. A later adapter
// with the same tag replaces an earlier one.
func NewAggregator(logger *log.Logger, timeout time.Duration, adapters ...Adapter) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	a := &Aggregator{
		adapters: make(map[catalog.SourceTag]Adapter, len(adapters)),
		timeout:  timeout,
		logger:   logging.OrDiscard(logger),
	}
	for _, ad := range adapters {
		a.adapters[ad.Tag()] = ad
	}
	return a
}

// Sources returns the configured tags in display order.
func (a *Aggregator) Sources() []catalog.SourceTag {
	var tags []catalog.SourceTag
	for _, tag := range catalog.AllSources() {
		if _, ok := a.adapters[tag]; ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// outcome is one source's raw answer before degradation.
type outcome[T any] struct {
	tag   catalog.SourceTag
	value T
	err   error
}

// collapse is the only place a source error becomes an empty result.
func collapse[T any](a *Aggregator, op string, o outcome[T], empty T) T {
	if o.err == nil {
		return o.value
	}
	a.logger.Warn("source unavailable, using empty result", "source", o.tag, "op", op, "err", o.err)
	return empty
}

// fanOut runs call against every adapter concurrently and waits for all of them.
func fanOut[T any](ctx context.Context, a *Aggregator, call func(context.Context, Adapter) (T, error)) []outcome[T] {
	tags := a.Sources()
	results := make([]outcome[T], len(tags))

	var wg sync.WaitGroup
	for i, tag := range tags {
		wg.Add(1)
		go func(i int, tag catalog.SourceTag, ad Adapter) {
			defer wg.Done()

			sctx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			results[i] = outcome[T]{tag: tag}
			defer func() {
				if r := recover(); r != nil {
					results[i].err = fmt.Errorf("adapter panic: %v", r)
				}
			}()

			results[i].value, results[i].err = call(sctx, ad)
		}(i, tag, a.adapters[tag])
	}
	wg.Wait()

	return results
}

// FetchAllLatest returns page of every source's latest uploads.
// Every configured source has an entry in the result.
func (a *Aggregator) FetchAllLatest(ctx context.Context, page int) map[catalog.SourceTag]catalog.Page[catalog.CatalogItem] {
	a.logger.Debug("fetching latest from all sources", "page", page)

	outcomes := fanOut(ctx, a, func(ctx context.Context, ad Adapter) (catalog.Page[catalog.CatalogItem], error) {
		return ad.Latest(ctx, page)
	})

	out := make(map[catalog.SourceTag]catalog.Page[catalog.CatalogItem], len(outcomes))
	for _, o := range outcomes {
		out[o.tag] = collapse(a, "latest", o, catalog.Degraded[catalog.CatalogItem]())
	}
	return out
}

// SearchAll searches every source for query. Queries of two characters or
// fewer never reach an adapter; every source maps to an empty slice instead.
func (a *Aggregator) SearchAll(ctx context.Context, query string) map[catalog.SourceTag][]catalog.CatalogItem {
	out := make(map[catalog.SourceTag][]catalog.CatalogItem, len(a.adapters))

	query = strings.TrimSpace(query)
	if !SearchableQuery(query) {
		a.logger.Debug("query too short, skipping search", "query", query)
		for _, tag := range a.Sources() {
			out[tag] = []catalog.CatalogItem{}
		}
		return out
	}

	a.logger.Debug("searching all sources", "query", query)
	outcomes := fanOut(ctx, a, func(ctx context.Context, ad Adapter) ([]catalog.CatalogItem, error) {
		return ad.Search(ctx, query)
	})

	for _, o := range outcomes {
		items := collapse(a, "search", o, []catalog.CatalogItem{})
		if items == nil {
			items = []catalog.CatalogItem{}
		}
		out[o.tag] = items
	}
	return out
}

// Detail looks up one item. NotFound and upstream failures are returned as-is.
func (a *Aggregator) Detail(ctx context.Context, tag catalog.SourceTag, id string) (*catalog.DetailRecord, error) {
	ad, ok := a.adapters[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnconfigured, tag)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	rec, err := ad.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// SearchableQuery reports whether query is long enough to send upstream.
func SearchableQuery(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) >= MinQueryLength
}

// Package source wraps each upstream scraper in an Adapter that normalizes its
// responses into catalog items, and fans requests out across all of them.
package source

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"

	"tontonin/internal/catalog"
	"tontonin/internal/httputil"
)

// Adapter is the interface every upstream scraper wrapper implements.
//
// Adapters report failures as errors: *catalog.UpstreamError for network,
// status and parse problems, catalog.ErrNotFound for unknown detail ids.
// Degrading failures into empty results is the Aggregator's job.
type Adapter interface {
	// Tag identifies the source.
	Tag() catalog.SourceTag

	// Latest returns one page of the most recent uploads.
	Latest(ctx context.Context, page int) (catalog.Page[catalog.CatalogItem], error)

	// Search returns items matching query.
	Search(ctx context.Context, query string) ([]catalog.CatalogItem, error)

	// Detail returns the full record for one item.
	Detail(ctx context.Context, id string) (*catalog.DetailRecord, error)
}

// Option configures an adapter.
type Option func(*options)

type options struct {
	client *http.Client
}

// WithHTTPClient replaces the default hardened client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = httputil.NewClient(20 * time.Second)
	}
	return o
}

// New builds the adapter for tag rooted at base.
func New(tag catalog.SourceTag, base string, opts ...Option) Adapter {
	switch tag {
	case catalog.SourceA:
		return NewSourceA(base, opts...)
	case catalog.SourceB:
		return NewSourceB(base, opts...)
	default:
		return NewSourceC(base, opts...)
	}
}

// failure maps a fetch error to the adapter error taxonomy.
func failure(tag catalog.SourceTag, op, id string, err error) error {
	if httputil.IsStatus(err, http.StatusNotFound) && id != "" {
		return catalog.NotFound(tag.String(), id)
	}
	return catalog.Upstream(tag.String(), op, err)
}

// cleanGenres trims names and drops blanks and repeats, keeping order.
func cleanGenres(in []string) []string {
	trimmed := lo.Map(in, func(g string, _ int) string {
		return strings.TrimSpace(g)
	})
	return lo.Uniq(lo.Compact(trimmed))
}

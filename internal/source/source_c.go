package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tontonin/internal/catalog"
	"tontonin/internal/httputil"
)

// SourceC scrapes an HTML site. It has no API, so listings, search results
// and detail pages are parsed from markup.
type SourceC struct {
	base   string
	client *http.Client
}

// NewSourceC creates a source C adapter.
func NewSourceC(base string, opts ...Option) *SourceC {
	o := buildOptions(opts)
	return &SourceC{
		base:   strings.TrimRight(base, "/"),
		client: o.client,
	}
}

func (s *SourceC) Tag() catalog.SourceTag { return catalog.SourceC }

// Latest returns a page of recent uploads.
//
// The site never reports an item count, so TotalItems is estimated as
// TotalPages times the size of the fetched page.
func (s *SourceC) Latest(ctx context.Context, page int) (catalog.Page[catalog.CatalogItem], error) {
	if page < 1 {
		page = 1
	}
	pageURL := s.base + "/page/" + strconv.Itoa(page) + "/"

	doc, err := httputil.GetDocument(ctx, s.client, pageURL)
	if err != nil {
		return catalog.Page[catalog.CatalogItem]{}, failure(s.Tag(), "latest", "", err)
	}

	items := parseListing(doc, s.base)
	last := parseLastPage(doc)
	if last < page {
		last = page
	}
	return catalog.Page[catalog.CatalogItem]{
		Items:      items,
		Page:       page,
		TotalPages: last,
		TotalItems: last * len(items),
	}.Normalize(), nil
}

// Search returns uploads matching query from the first results page.
func (s *SourceC) Search(ctx context.Context, query string) ([]catalog.CatalogItem, error) {
	searchURL := httputil.WithQuery(s.base+"/", url.Values{"s": {query}})

	doc, err := httputil.GetDocument(ctx, s.client, searchURL)
	if err != nil {
		return nil, failure(s.Tag(), "search", "", err)
	}
	return parseListing(doc, s.base), nil
}

// Detail returns the record for slug.
func (s *SourceC) Detail(ctx context.Context, slug string) (*catalog.DetailRecord, error) {
	if err := httputil.ValidateID(slug); err != nil {
		return nil, fmt.Errorf("invalid slug: %w", catalog.NotFound(s.Tag().String(), slug))
	}

	doc, err := httputil.GetDocument(ctx, s.client, httputil.BuildURL(s.base, "watch", slug)+"/")
	if err != nil {
		return nil, failure(s.Tag(), "detail", slug, err)
	}

	rec, ok := parseDetail(doc, s.base, slug)
	if !ok {
		return nil, catalog.NotFound(s.Tag().String(), slug)
	}
	return rec, nil
}

package source

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"tontonin/internal/catalog"
	"tontonin/internal/httputil"
)

// SourceB adapts a JSON API that names things differently from A, serves
// cover images as site-relative paths and nests its pagination counters.
type SourceB struct {
	base   string
	client *http.Client
}

// NewSourceB creates a source B adapter.
func NewSourceB(base string, opts ...Option) *SourceB {
	o := buildOptions(opts)
	return &SourceB{
		base:   strings.TrimRight(base, "/"),
		client: o.client,
	}
}

func (s *SourceB) Tag() catalog.SourceTag { return catalog.SourceB }

type bEntry struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Tags  []struct {
		Name string `json:"name"`
	} `json:"tags"`
	Date string `json:"date"`
}

type bListResponse struct {
	Results    []bEntry `json:"results"`
	Pagination struct {
		Current int `json:"current"`
		Last    int `json:"last"`
		Count   int `json:"count"`
	} `json:"pagination"`
}

type bDetailResponse struct {
	bEntry
	Description string `json:"description"`
	Streams     []struct {
		Label string `json:"label"`
		URL   string `json:"url"`
	} `json:"streams"`
}

// Latest returns a page of recent uploads.
func (s *SourceB) Latest(ctx context.Context, page int) (catalog.Page[catalog.CatalogItem], error) {
	if page < 1 {
		page = 1
	}

	var resp bListResponse
	if err := httputil.GetJSON(ctx, s.client, httputil.BuildURL(s.base, "latest", strconv.Itoa(page)), &resp); err != nil {
		return catalog.Page[catalog.CatalogItem]{}, failure(s.Tag(), "latest", "", err)
	}

	current := resp.Pagination.Current
	if current < 1 {
		current = page
	}
	return catalog.Page[catalog.CatalogItem]{
		Items:      s.items(resp.Results),
		Page:       current,
		TotalPages: resp.Pagination.Last,
		TotalItems: resp.Pagination.Count,
	}.Normalize(), nil
}

// Search returns uploads matching query.
func (s *SourceB) Search(ctx context.Context, query string) ([]catalog.CatalogItem, error) {
	var resp bListResponse
	if err := httputil.GetJSON(ctx, s.client, httputil.BuildURL(s.base, "search", query), &resp); err != nil {
		return nil, failure(s.Tag(), "search", "", err)
	}
	return s.items(resp.Results), nil
}

// Detail returns the record for slug.
func (s *SourceB) Detail(ctx context.Context, slug string) (*catalog.DetailRecord, error) {
	if err := httputil.ValidateID(slug); err != nil {
		return nil, fmt.Errorf("invalid slug: %w", catalog.NotFound(s.Tag().String(), slug))
	}

	var resp bDetailResponse
	if err := httputil.GetJSON(ctx, s.client, httputil.BuildURL(s.base, "watch", slug), &resp); err != nil {
		return nil, failure(s.Tag(), "detail", slug, err)
	}
	// Unknown slugs come back as 200 with an empty body object.
	if resp.Slug == "" {
		return nil, catalog.NotFound(s.Tag().String(), slug)
	}

	rec := &catalog.DetailRecord{
		Item:     s.item(resp.bEntry),
		Synopsis: strings.TrimSpace(resp.Description),
		Episodes: make([]catalog.Episode, 0, len(resp.Streams)),
	}
	for i, st := range resp.Streams {
		if st.URL == "" {
			continue
		}
		title := strings.TrimSpace(st.Label)
		if title == "" {
			title = fmt.Sprintf("Stream %d", i+1)
		}
		rec.Episodes = append(rec.Episodes, catalog.Episode{
			ID:       strconv.Itoa(i + 1),
			Title:    title,
			EmbedURL: httputil.ResolveURL(s.base, st.URL),
		})
	}
	return rec, nil
}

func (s *SourceB) items(in []bEntry) []catalog.CatalogItem {
	out := make([]catalog.CatalogItem, 0, len(in))
	for _, e := range in {
		if e.Slug == "" || e.Name == "" {
			continue
		}
		out = append(out, s.item(e))
	}
	return out
}

func (s *SourceB) item(e bEntry) catalog.CatalogItem {
	genres := make([]string, 0, len(e.Tags))
	for _, t := range e.Tags {
		genres = append(genres, t.Name)
	}
	return catalog.CatalogItem{
		ID:         e.Slug,
		Title:      strings.TrimSpace(e.Name),
		CoverURL:   httputil.ResolveURL(s.base, e.Image),
		Genres:     cleanGenres(genres),
		UploadDate: strings.TrimSpace(e.Date),
		Source:     catalog.SourceB,
	}
}

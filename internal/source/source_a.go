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

// sourceAPageSize is the listing size source A uses when it omits total_pages.
const sourceAPageSize = 24

// SourceA adapts a JSON API that already serves absolute URLs and flat
// pagination counters.
type SourceA struct {
	base   string // e.g., "https://api.example-a.net"
	client *http.Client
}

// NewSourceA creates a source A adapter.
func NewSourceA(base string, opts ...Option) *SourceA {
	o := buildOptions(opts)
	return &SourceA{
		base:   strings.TrimRight(base, "/"),
		client: o.client,
	}
}

func (s *SourceA) Tag() catalog.SourceTag { return catalog.SourceA }

type aVideo struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Poster     string   `json:"poster"`
	Genres     []string `json:"genres"`
	UploadedAt string   `json:"uploaded_at"`
}

type aListResponse struct {
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	Total      int      `json:"total"`
	Data       []aVideo `json:"data"`
}

type aDetailResponse struct {
	aVideo
	Synopsis string `json:"synopsis"`
	Episodes []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Embed string `json:"embed"`
	} `json:"episodes"`
}

// Latest returns a page of recent uploads.
func (s *SourceA) Latest(ctx context.Context, page int) (catalog.Page[catalog.CatalogItem], error) {
	if page < 1 {
		page = 1
	}
	endpoint := httputil.WithQuery(s.base+"/api/latest", url.Values{"page": {strconv.Itoa(page)}})

	var resp aListResponse
	if err := httputil.GetJSON(ctx, s.client, endpoint, &resp); err != nil {
		return catalog.Page[catalog.CatalogItem]{}, failure(s.Tag(), "latest", "", err)
	}

	items := s.items(resp.Data)
	if resp.Page < 1 {
		resp.Page = page
	}
	if resp.TotalPages < 1 {
		return catalog.NewPage(items, resp.Page, resp.Total, sourceAPageSize), nil
	}
	return catalog.Page[catalog.CatalogItem]{
		Items:      items,
		Page:       resp.Page,
		TotalPages: resp.TotalPages,
		TotalItems: resp.Total,
	}.Normalize(), nil
}

// Search returns uploads matching query.
func (s *SourceA) Search(ctx context.Context, query string) ([]catalog.CatalogItem, error) {
	endpoint := httputil.WithQuery(s.base+"/api/search", url.Values{"q": {query}})

	var resp aListResponse
	if err := httputil.GetJSON(ctx, s.client, endpoint, &resp); err != nil {
		return nil, failure(s.Tag(), "search", "", err)
	}
	return s.items(resp.Data), nil
}

// Detail returns the record for id.
func (s *SourceA) Detail(ctx context.Context, id string) (*catalog.DetailRecord, error) {
	if err := httputil.ValidateID(id); err != nil {
		return nil, fmt.Errorf("invalid content ID: %w", catalog.NotFound(s.Tag().String(), id))
	}

	var resp aDetailResponse
	if err := httputil.GetJSON(ctx, s.client, httputil.BuildURL(s.base, "api", "videos", id), &resp); err != nil {
		return nil, failure(s.Tag(), "detail", id, err)
	}
	if resp.ID == "" {
		return nil, catalog.NotFound(s.Tag().String(), id)
	}

	rec := &catalog.DetailRecord{
		Item:     s.item(resp.aVideo),
		Synopsis: strings.TrimSpace(resp.Synopsis),
		Episodes: make([]catalog.Episode, 0, len(resp.Episodes)),
	}
	for _, ep := range resp.Episodes {
		rec.Episodes = append(rec.Episodes, catalog.Episode{
			ID:       ep.ID,
			Title:    strings.TrimSpace(ep.Title),
			EmbedURL: httputil.ResolveURL(s.base, ep.Embed),
		})
	}
	return rec, nil
}

func (s *SourceA) items(in []aVideo) []catalog.CatalogItem {
	out := make([]catalog.CatalogItem, 0, len(in))
	for _, v := range in {
		if v.ID == "" || v.Title == "" {
			continue
		}
		out = append(out, s.item(v))
	}
	return out
}

func (s *SourceA) item(v aVideo) catalog.CatalogItem {
	return catalog.CatalogItem{
		ID:         v.ID,
		Title:      strings.TrimSpace(v.Title),
		CoverURL:   httputil.ResolveURL(s.base, v.Poster),
		Genres:     cleanGenres(v.Genres),
		UploadDate: strings.TrimSpace(v.UploadedAt),
		Source:     catalog.SourceA,
	}
}

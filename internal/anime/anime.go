// Package anime is a client for a JSON anime scraper service that lists
// ongoing shows and resolves episode streams.
package anime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"tontonin/internal/catalog"
	"tontonin/internal/httputil"
)

const sourceName = "anime"

// ErrNotConfigured is returned when no service URL is set.
var ErrNotConfigured = errors.New("anime: base url not configured")

// Show is one listed series.
type Show struct {
	Slug           string `json:"slug"`
	Title          string `json:"title"`
	PosterURL      string `json:"poster_url,omitempty"`
	CurrentEpisode string `json:"current_episode,omitempty"`
	ReleaseDay     string `json:"release_day,omitempty"`
}

// EpisodeRef points at one episode of a show.
type EpisodeRef struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Date  string `json:"date,omitempty"`
}

// ShowDetail is the full record for a show.
type ShowDetail struct {
	Show
	Synopsis string       `json:"synopsis"`
	Genres   []string     `json:"genres"`
	Status   string       `json:"status,omitempty"`
	Episodes []EpisodeRef `json:"episodes"`
}

// Mirror is an alternative stream host.
type Mirror struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// EpisodeStream is a playable episode.
type EpisodeStream struct {
	Title    string   `json:"title"`
	EmbedURL string   `json:"embed_url"`
	Mirrors  []Mirror `json:"mirrors,omitempty"`
}

// Client talks to the scraper service.
type Client struct {
	base   string
	client *http.Client
}

// New creates a client rooted at base. hc may be nil.
func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = httputil.NewClient(20 * time.Second)
	}
	return &Client{base: strings.TrimRight(base, "/"), client: hc}
}

// IsConfigured reports whether a service URL is set.
func (c *Client) IsConfigured() bool {
	return c != nil && c.base != ""
}

type rawShow struct {
	Slug           string `json:"slug"`
	Title          string `json:"title"`
	Poster         string `json:"poster"`
	CurrentEpisode string `json:"current_episode"`
	ReleaseDay     string `json:"release_day"`
}

type rawGenre struct {
	Name string `json:"name"`
}

type envelope[T any] struct {
	Data       T `json:"data"`
	Pagination struct {
		CurrentPage int `json:"current_page"`
		LastPage    int `json:"last_page"`
	} `json:"pagination"`
}

// Ongoing lists currently airing shows.
func (c *Client) Ongoing(ctx context.Context, page int) (catalog.Page[Show], error) {
	if !c.IsConfigured() {
		return catalog.Page[Show]{}, ErrNotConfigured
	}
	if page < 1 {
		page = 1
	}

	var resp envelope[[]rawShow]
	u := httputil.WithQuery(c.base+"/ongoing", url.Values{"page": {strconv.Itoa(page)}})
	if err := httputil.GetJSON(ctx, c.client, u, &resp); err != nil {
		return catalog.Page[Show]{}, catalog.Upstream(sourceName, "ongoing", err)
	}

	shows := c.shows(resp.Data)
	current := resp.Pagination.CurrentPage
	if current < 1 {
		current = page
	}
	return catalog.Page[Show]{
		Items:      shows,
		Page:       current,
		TotalPages: resp.Pagination.LastPage,
		TotalItems: resp.Pagination.LastPage * len(shows),
	}.Normalize(), nil
}

// Search finds shows matching query.
func (c *Client) Search(ctx context.Context, query string) ([]Show, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []Show{}, nil
	}

	var resp envelope[[]rawShow]
	if err := httputil.GetJSON(ctx, c.client, c.base+"/search/"+url.PathEscape(query), &resp); err != nil {
		return nil, catalog.Upstream(sourceName, "search", err)
	}
	return c.shows(resp.Data), nil
}

// Detail returns the record for slug.
func (c *Client) Detail(ctx context.Context, slug string) (*ShowDetail, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if err := httputil.ValidateID(slug); err != nil {
		return nil, fmt.Errorf("invalid slug: %w", catalog.NotFound(sourceName, slug))
	}

	var resp envelope[struct {
		rawShow
		Synopsis string       `json:"synopsis"`
		Status   string       `json:"status"`
		Genres   []rawGenre   `json:"genres"`
		Episodes []EpisodeRef `json:"episodes"`
	}]
	if err := c.get(ctx, "detail", slug, httputil.BuildURL(c.base, "anime", slug), &resp); err != nil {
		return nil, err
	}
	if resp.Data.Slug == "" && resp.Data.Title == "" {
		return nil, catalog.NotFound(sourceName, slug)
	}

	d := &ShowDetail{
		Show:     c.show(resp.Data.rawShow),
		Synopsis: strings.TrimSpace(resp.Data.Synopsis),
		Status:   resp.Data.Status,
		Genres: lo.FilterMap(resp.Data.Genres, func(g rawGenre, _ int) (string, bool) {
			name := strings.TrimSpace(g.Name)
			return name, name != ""
		}),
		Episodes: lo.Filter(resp.Data.Episodes, func(e EpisodeRef, _ int) bool {
			return e.Slug != ""
		}),
	}
	if d.Slug == "" {
		d.Slug = slug
	}
	return d, nil
}

// Episode resolves the stream for an episode slug.
func (c *Client) Episode(ctx context.Context, slug string) (*EpisodeStream, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if err := httputil.ValidateID(slug); err != nil {
		return nil, fmt.Errorf("invalid slug: %w", catalog.NotFound(sourceName, slug))
	}

	var resp envelope[struct {
		Title     string   `json:"title"`
		StreamURL string   `json:"stream_url"`
		Servers   []Mirror `json:"servers"`
	}]
	if err := c.get(ctx, "episode", slug, httputil.BuildURL(c.base, "episode", slug), &resp); err != nil {
		return nil, err
	}

	mirrors := lo.FilterMap(resp.Data.Servers, func(m Mirror, _ int) (Mirror, bool) {
		m.URL = httputil.ResolveURL(c.base, m.URL)
		return m, m.URL != ""
	})
	embed := httputil.ResolveURL(c.base, resp.Data.StreamURL)
	if embed == "" && len(mirrors) > 0 {
		embed = mirrors[0].URL
	}
	if embed == "" {
		return nil, catalog.NotFound(sourceName, slug)
	}
	return &EpisodeStream{Title: resp.Data.Title, EmbedURL: embed, Mirrors: mirrors}, nil
}

func (c *Client) get(ctx context.Context, op, slug, u string, v any) error {
	if err := httputil.GetJSON(ctx, c.client, u, v); err != nil {
		if httputil.IsStatus(err, http.StatusNotFound) {
			return catalog.NotFound(sourceName, slug)
		}
		return catalog.Upstream(sourceName, op, err)
	}
	return nil
}

func (c *Client) shows(in []rawShow) []Show {
	out := make([]Show, 0, len(in))
	for _, r := range in {
		if r.Slug == "" || r.Title == "" {
			continue
		}
		out = append(out, c.show(r))
	}
	return out
}

func (c *Client) show(r rawShow) Show {
	return Show{
		Slug:           r.Slug,
		Title:          strings.TrimSpace(r.Title),
		PosterURL:      httputil.ResolveURL(c.base, r.Poster),
		CurrentEpisode: r.CurrentEpisode,
		ReleaseDay:     r.ReleaseDay,
	}
}

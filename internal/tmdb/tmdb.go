// Package tmdb provides movie and TV metadata catalogs backed by the TMDB API.
package tmdb

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

const (
	// DefaultBaseURL is the TMDB v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultImageBase is prefixed to poster paths.
	DefaultImageBase = "https://image.tmdb.org/t/p/w500"

	// maxPages is the deepest page TMDB will serve.
	maxPages = 500

	sourceName = "tmdb"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("tmdb: api key not configured")

// Kind selects the movie or TV catalog.
type Kind string

const (
	Movie Kind = "movie"
	TV    Kind = "tv"
)

// ParseKind parses "movie" or "tv". An empty string means movie.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "movie", "movies", "film":
		return Movie, nil
	case "tv", "series", "show":
		return TV, nil
	}
	return "", fmt.Errorf("unknown kind %q (want movie or tv)", s)
}

// Title is one catalog entry.
type Title struct {
	ID        int     `json:"id"`
	Kind      Kind    `json:"kind"`
	Title     string  `json:"title"`
	Overview  string  `json:"overview,omitempty"`
	PosterURL string  `json:"poster_url,omitempty"`
	Date      string  `json:"date,omitempty"`
	Rating    float64 `json:"rating"`
	GenreIDs  []int   `json:"genre_ids,omitempty"`
}

// Year returns the release year, or "" when unknown.
func (t Title) Year() string {
	if len(t.Date) >= 4 {
		return t.Date[:4]
	}
	return ""
}

// TitleDetail is the full record for one title.
type TitleDetail struct {
	Title
	Genres    []string `json:"genres"`
	Runtime   int      `json:"runtime,omitempty"`
	Seasons   int      `json:"seasons,omitempty"`
	Countries []string `json:"countries,omitempty"`
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DiscoverQuery filters a Discover listing. Zero fields are not applied.
type DiscoverQuery struct {
	Kind    Kind
	GenreID int
	Country string // ISO 3166-1, e.g. "ID", "KR"
	Year    int
	Page    int
}

// Client talks to the TMDB API.
type Client struct {
	client    *http.Client
	apiKey    string
	baseURL   string
	imageBase string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithImageBase overrides the poster URL prefix.
func WithImageBase(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.imageBase = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// New creates a TMDB client. An empty apiKey yields a client whose
// IsConfigured reports false.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		client:    httputil.NewClient(15 * time.Second),
		apiKey:    strings.TrimSpace(apiKey),
		baseURL:   DefaultBaseURL,
		imageBase: DefaultImageBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsConfigured reports whether an API key is set.
func (c *Client) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}

type media struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int   `json:"genre_ids"`
	MediaType    string  `json:"media_type"`
}

type listResponse struct {
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
	Results      []media `json:"results"`
}

type detailResponse struct {
	media
	Runtime             int      `json:"runtime"`
	NumberOfSeasons     int      `json:"number_of_seasons"`
	Genres              []Genre  `json:"genres"`
	OriginCountry       []string `json:"origin_country"`
	ProductionCountries []struct {
		ISO string `json:"iso_3166_1"`
	} `json:"production_countries"`
}

// Discover lists titles matching q, most popular first.
func (c *Client) Discover(ctx context.Context, q DiscoverQuery) (catalog.Page[Title], error) {
	kind := q.Kind
	if kind == "" {
		kind = Movie
	}
	params := url.Values{
		"sort_by":       {"popularity.desc"},
		"include_adult": {"false"},
	}
	if q.GenreID > 0 {
		params.Set("with_genres", strconv.Itoa(q.GenreID))
	}
	if q.Country != "" {
		params.Set("with_origin_country", strings.ToUpper(q.Country))
	}
	if q.Year > 0 {
		if kind == TV {
			params.Set("first_air_date_year", strconv.Itoa(q.Year))
		} else {
			params.Set("primary_release_year", strconv.Itoa(q.Year))
		}
	}
	return c.list(ctx, "discover", kind, "/discover/"+string(kind), params, q.Page)
}

// Search finds movies and TV shows matching query.
func (c *Client) Search(ctx context.Context, query string, page int) (catalog.Page[Title], error) {
	params := url.Values{
		"query":         {query},
		"include_adult": {"false"},
	}
	p, err := c.list(ctx, "search", "", "/search/multi", params, page)
	if err != nil {
		return p, err
	}
	// multi search also returns people.
	kept := p.Items[:0]
	for _, t := range p.Items {
		if t.Kind == Movie || t.Kind == TV {
			kept = append(kept, t)
		}
	}
	p.Items = kept
	return p, nil
}

// Trending lists this week's trending titles of kind.
func (c *Client) Trending(ctx context.Context, kind Kind, page int) (catalog.Page[Title], error) {
	if kind == "" {
		kind = Movie
	}
	return c.list(ctx, "trending", kind, "/trending/"+string(kind)+"/week", url.Values{}, page)
}

// Detail returns the full record for id.
func (c *Client) Detail(ctx context.Context, kind Kind, id string) (*TitleDetail, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if err := httputil.ValidateNumericID(id); err != nil {
		return nil, fmt.Errorf("invalid tmdb id: %w", catalog.NotFound(sourceName, id))
	}
	if kind == "" {
		kind = Movie
	}

	var resp detailResponse
	if err := c.get(ctx, "/"+string(kind)+"/"+id, url.Values{}, &resp); err != nil {
		if httputil.IsStatus(err, http.StatusNotFound) {
			return nil, catalog.NotFound(sourceName, id)
		}
		return nil, catalog.Upstream(sourceName, "detail", err)
	}

	d := &TitleDetail{
		Title:   c.title(resp.media, kind),
		Runtime: resp.Runtime,
		Seasons: resp.NumberOfSeasons,
	}
	for _, g := range resp.Genres {
		d.Genres = append(d.Genres, g.Name)
	}
	d.Countries = append(d.Countries, resp.OriginCountry...)
	for _, pc := range resp.ProductionCountries {
		if pc.ISO != "" && !lo.Contains(d.Countries, pc.ISO) {
			d.Countries = append(d.Countries, pc.ISO)
		}
	}
	return d, nil
}

// Genres lists the genres of kind.
func (c *Client) Genres(ctx context.Context, kind Kind) ([]Genre, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if kind == "" {
		kind = Movie
	}
	var resp struct {
		Genres []Genre `json:"genres"`
	}
	if err := c.get(ctx, "/genre/"+string(kind)+"/list", url.Values{}, &resp); err != nil {
		return nil, catalog.Upstream(sourceName, "genres", err)
	}
	return resp.Genres, nil
}

func (c *Client) list(ctx context.Context, op string, kind Kind, path string, params url.Values, page int) (catalog.Page[Title], error) {
	if !c.IsConfigured() {
		return catalog.Page[Title]{}, ErrNotConfigured
	}
	if page < 1 {
		page = 1
	}
	if page > maxPages {
		page = maxPages
	}
	params.Set("page", strconv.Itoa(page))

	var resp listResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return catalog.Page[Title]{}, catalog.Upstream(sourceName, op, err)
	}

	items := make([]Title, 0, len(resp.Results))
	for _, m := range resp.Results {
		k := kind
		if k == "" {
			k = Kind(m.MediaType)
		}
		items = append(items, c.title(m, k))
	}

	totalPages := min(resp.TotalPages, maxPages)
	if resp.Page < 1 {
		resp.Page = page
	}
	return catalog.Page[Title]{
		Items:      items,
		Page:       resp.Page,
		TotalPages: totalPages,
		TotalItems: resp.TotalResults,
	}.Normalize(), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	params.Set("api_key", c.apiKey)
	params.Set("language", "en-US")
	return httputil.GetJSON(ctx, c.client, httputil.WithQuery(c.baseURL+path, params), v)
}

func (c *Client) title(m media, kind Kind) Title {
	t := Title{
		ID:       m.ID,
		Kind:     kind,
		Title:    m.Title,
		Overview: strings.TrimSpace(m.Overview),
		Date:     m.ReleaseDate,
		Rating:   m.VoteAverage,
		GenreIDs: m.GenreIDs,
	}
	if t.Title == "" {
		t.Title = m.Name
	}
	if t.Date == "" {
		t.Date = m.FirstAirDate
	}
	if m.PosterPath != "" {
		t.PosterURL = c.imageBase + "/" + strings.TrimLeft(m.PosterPath, "/")
	}
	return t
}

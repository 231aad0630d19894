package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tontonin/internal/catalog"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewTLSServer(h)
	t.Cleanup(srv.Close)
	return New("secret",
		WithBaseURL(srv.URL+"/3"),
		WithImageBase("https://img.test/w500/"),
		WithHTTPClient(srv.Client()),
	)
}

func TestDiscover(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/discover/tv", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("api_key"))
		assert.Equal(t, "18", q.Get("with_genres"))
		assert.Equal(t, "KR", q.Get("with_origin_country"))
		assert.Equal(t, "2024", q.Get("first_air_date_year"))
		assert.Equal(t, "2", q.Get("page"))
		w.Write([]byte(`{"page":2,"total_pages":9000,"total_results":180000,"results":[
			{"id":1,"name":"Drama One","poster_path":"/p1.jpg","first_air_date":"2024-03-01","vote_average":8.1,"genre_ids":[18]},
			{"id":2,"name":"Drama Two","poster_path":""}
		]}`))
	})

	p, err := c.Discover(context.Background(), DiscoverQuery{Kind: TV, GenreID: 18, Country: "kr", Year: 2024, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 500, p.TotalPages, "pages capped")
	require.Len(t, p.Items, 2)

	first := p.Items[0]
	assert.Equal(t, "Drama One", first.Title)
	assert.Equal(t, TV, first.Kind)
	assert.Equal(t, "https://img.test/w500/p1.jpg", first.PosterURL)
	assert.Equal(t, "2024", first.Year())
	assert.Empty(t, p.Items[1].PosterURL)
}

func TestSearch_DropsPeople(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/search/multi", r.URL.Path)
		assert.Equal(t, "dune", r.URL.Query().Get("query"))
		w.Write([]byte(`{"page":1,"total_pages":1,"total_results":3,"results":[
			{"id":1,"title":"Dune","media_type":"movie","release_date":"2021-09-15"},
			{"id":2,"name":"Frank Herbert","media_type":"person"},
			{"id":3,"name":"Dune: Prophecy","media_type":"tv"}
		]}`))
	})

	p, err := c.Search(context.Background(), "dune", 1)
	require.NoError(t, err)
	require.Len(t, p.Items, 2)
	assert.Equal(t, Movie, p.Items[0].Kind)
	assert.Equal(t, TV, p.Items[1].Kind)
	assert.Equal(t, "Dune: Prophecy", p.Items[1].Title)
}

func TestDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/3/movie/438631":
			w.Write([]byte(`{"id":438631,"title":"Dune","runtime":155,
				"genres":[{"id":878,"name":"Science Fiction"}],
				"production_countries":[{"iso_3166_1":"US"},{"iso_3166_1":"CA"}]}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	d, err := c.Detail(ctx, Movie, "438631")
	require.NoError(t, err)
	assert.Equal(t, "Dune", d.Title.Title)
	assert.Equal(t, 155, d.Runtime)
	assert.Equal(t, []string{"Science Fiction"}, d.Genres)
	assert.Equal(t, []string{"US", "CA"}, d.Countries)

	_, err = c.Detail(ctx, Movie, "1")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = c.Detail(ctx, Movie, "../etc")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestUpstreamFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Trending(context.Background(), Movie, 1)
	var ue *catalog.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "trending", ue.Op)
	assert.NotContains(t, err.Error(), "api_key")
	assert.NotContains(t, err.Error(), "secret")
}

func TestGenres(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/genre/movie/list", r.URL.Path)
		w.Write([]byte(`{"genres":[{"id":28,"name":"Action"},{"id":35,"name":"Comedy"}]}`))
	})

	g, err := c.Genres(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []Genre{{28, "Action"}, {35, "Comedy"}}, g)
}

func TestNotConfigured(t *testing.T) {
	c := New("  ")
	assert.False(t, c.IsConfigured())

	_, err := c.Discover(context.Background(), DiscoverQuery{})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.Detail(context.Background(), Movie, "1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", Movie, false},
		{"Movie", Movie, false},
		{"tv", TV, false},
		{"series", TV, false},
		{"anime", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

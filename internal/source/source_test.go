package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tontonin/internal/catalog"
)

func newTLSServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewTLSServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestSourceALatest(t *testing.T) {
	srv := newTLSServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/latest", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		fmt.Fprint(w, `{"page":2,"total_pages":4,"total":90,"data":[
			{"id":"v1","title":" First ","poster":"https://img.example/1.jpg","genres":["Drama"," drama","Drama",""],"uploaded_at":"2024-05-01"},
			{"id":"","title":"no id"},
			{"id":"v2","title":"Second","poster":"/p/2.jpg","genres":[]}
		]}`)
	})

	a := NewSourceA(srv.URL, WithHTTPClient(srv.Client()))
	page, err := a.Latest(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 4, page.TotalPages)
	assert.Equal(t, 90, page.TotalItems)
	require.Len(t, page.Items, 2)

	first := page.Items[0]
	assert.Equal(t, "v1", first.ID)
	assert.Equal(t, "First", first.Title)
	assert.Equal(t, []string{"Drama", "drama"}, first.Genres)
	assert.Equal(t, "2024-05-01", first.UploadDate)
	assert.Equal(t, catalog.SourceA, first.Source)
	assert.Equal(t, srv.URL+"/p/2.jpg", page.Items[1].CoverURL)
}

func TestSourceALatestWithoutPageCount(t *testing.T) {
	srv := newTLSServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total":49,"data":[{"id":"v1","title":"x"}]}`)
	})

	page, err := NewSourceA(srv.URL, WithHTTPClient(srv.Client())).Latest(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages, "ceil(49/24)")
}

func TestSourceADetail(t *testing.T) {
	srv := newTLSServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/videos/v1":
			fmt.Fprint(w, `{"id":"v1","title":"First","synopsis":" story ","episodes":[{"id":"e1","title":"Ep 1","embed":"/embed/e1"}]}`)
		default:
			http.NotFound(w, r)
		}
	})
	a := NewSourceA(srv.URL, WithHTTPClient(srv.Client()))

	rec, err := a.Detail(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, "story", rec.Synopsis)
	require.Len(t, rec.Episodes, 1)
	assert.Equal(t, srv.URL+"/embed/e1", rec.Episodes[0].EmbedURL)

	_, err = a.Detail(context.Background(), "nope")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = a.Detail(context.Background(), "../etc")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestSourceAServerError(t *testing.T) {
	srv := newTLSServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	a := NewSourceA(srv.URL, WithHTTPClient(srv.Client()))

	_, err := a.Latest(context.Background(), 1)
	var ue *catalog.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "source-a", ue.Source)
	assert.Equal(t, "latest", ue.Op)

	_, err = a.Detail(context.Background(), "v1")
	assert.ErrorAs(t, err, &ue, "5xx on detail is an upstream failure, not NotFound")
	assert.False(t, errors.Is(err, catalog.ErrNotFound))
}

func TestSourceB(t *testing.T) {
	srv := newTLSServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/latest/1":
			fmt.Fprint(w, `{"results":[{"slug":"b-one","name":"B One","image":"/covers/b1.jpg","tags":[{"name":"Comedy"},{"name":"Romance"}],"date":"2024-01-02"}],
				"pagination":{"current":1,"last":7,"count":160}}`)
		case "/search/b one":
			fmt.Fprint(w, `{"results":[{"slug":"b-one","name":"B One"}]}`)
		case "/watch/b-one":
			fmt.Fprint(w, `{"slug":"b-one","name":"B One","description":"desc","streams":[{"label":"","url":"//cdn.example/e/1"},{"label":"HD","url":""}]}`)
		case "/watch/ghost":
			fmt.Fprint(w, `{}`)
		default:
			http.NotFound(w, r)
		}
	})
	b := NewSourceB(srv.URL, WithHTTPClient(srv.Client()))
	ctx := context.Background()

	page, err := b.Latest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, page.TotalPages)
	assert.Equal(t, 160, page.TotalItems)
	require.Len(t, page.Items, 1)
	assert.Equal(t, srv.URL+"/covers/b1.jpg", page.Items[0].CoverURL)
	assert.Equal(t, []string{"Comedy", "Romance"}, page.Items[0].Genres)

	found, err := b.Search(ctx, "b one")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	rec, err := b.Detail(ctx, "b-one")
	require.NoError(t, err)
	require.Len(t, rec.Episodes, 1)
	assert.Equal(t, "Stream 1", rec.Episodes[0].Title)
	assert.Equal(t, "https://cdn.example/e/1", rec.Episodes[0].EmbedURL)

	_, err = b.Detail(ctx, "ghost")
	assert.ErrorIs(t, err, catalog.ErrNotFound, "empty object means unknown slug")

	_, err = b.Detail(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestNewPicksAdapter(t *testing.T) {
	assert.IsType(t, &SourceA{}, New(catalog.SourceA, "https://a.example"))
	assert.IsType(t, &SourceB{}, New(catalog.SourceB, "https://b.example"))
	assert.IsType(t, &SourceC{}, New(catalog.SourceC, "https://c.example"))
}

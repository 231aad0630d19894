package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, StoreKey)
	assert.ErrorIs(t, err, ErrNoValue)

	require.NoError(t, s.Put(ctx, StoreKey, []byte(`{"a":1}`)))
	require.NoError(t, s.Put(ctx, StoreKey, []byte(`{"a":2}`)))

	got, err := s.Get(ctx, StoreKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(got))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	exerciseStore(t, NewFileStore(dir))

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temp files must be renamed away")
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache", "tontonin.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	exerciseStore(t, s)
	require.NoError(t, s.Close())

	// Values survive reopening.
	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, StoreKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(got))
}

func TestCacheSurvivesReloadThroughSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tontonin.db")
	now := time.Now()

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	c := NewCache(s, WithClock(func() time.Time { return now }))
	require.NoError(t, c.Set(ctx, "id:hello", "halo"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	reloaded := NewCache(s, WithClock(func() time.Time { return now.Add(24 * time.Hour) }))
	require.NoError(t, reloaded.Load(ctx))

	got, ok := reloaded.Get("id:hello")
	assert.True(t, ok)
	assert.Equal(t, "halo", got)
}

func TestCacheLoadCorruptValue(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, StoreKey, []byte("not json")))

	c := NewCache(store)
	require.NoError(t, c.Load(ctx))
	assert.Equal(t, 0, c.Len())
}

func TestCachePurgeExpired(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := start
	store := NewMemoryStore()
	c := NewCache(store, WithClock(func() time.Time { return clock }))

	require.NoError(t, c.Set(ctx, "id:old", "lama"))
	clock = start.Add(6 * 24 * time.Hour)
	require.NoError(t, c.Set(ctx, "id:new", "baru"))

	n, err := c.PurgeExpired(ctx, start.Add(TTL+time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, c.Len())

	raw, err := store.Get(ctx, StoreKey)
	require.NoError(t, err)
	var persisted map[string]Entry
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.NotContains(t, persisted, "id:old")

	n, err = c.PurgeExpired(ctx, start)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestGoogleClient(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "gtx", q.Get("client"))
		assert.Equal(t, "en", q.Get("sl"))
		assert.Equal(t, "id", q.Get("tl"))
		if q.Get("q") == "bad" {
			w.Write([]byte(`{"error":true}`))
			return
		}
		w.Write([]byte(`[[["Halo ","Hello ",null,null,10],["dunia","world",null,null,10]],null,"en"]`))
	}))
	defer srv.Close()

	c := NewGoogleClient(srv.URL+"/translate_a/single", srv.Client())
	got, err := c.Translate(context.Background(), "Hello world", "en", "id")
	require.NoError(t, err)
	assert.Equal(t, "Halo dunia", got)

	_, err = c.Translate(context.Background(), "bad", "en", "id")
	assert.Error(t, err)
}

func TestParseGTX(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"single segment", `[[["Halo","Hello"]]]`, "Halo", false},
		{"skips junk segments", `[[["a","x"],null,[1],["b","y"]]]`, "ab", false},
		{"empty array", `[]`, "", true},
		{"no segments", `[null]`, "", true},
		{"no text", `[[[1,2]]]`, "", true},
		{"not json", `<html>`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGTX([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

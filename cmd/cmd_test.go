package cmd

import (
	"bytes"
	"strings"
	"testing"

	"tontonin/internal/catalog"
	"tontonin/internal/config"
	"tontonin/internal/tmdb"
	"tontonin/internal/view"
)

func TestPrintSelection(t *testing.T) {
	var buf bytes.Buffer
	printSelection(&buf, "Latest", view.Selection{
		Items: []catalog.CatalogItem{
			{ID: "7", Title: "Night Bus", UploadDate: "2024-05-01", Source: catalog.SourceA},
			{ID: "dusk", Title: "Dusk", Genres: []string{"Drama"}, Source: catalog.SourceC},
		},
		Count: 2,
	})
	out := buf.String()
	for _, want := range []string{"Night Bus (2024-05-01) <source-a>", "source-a/7", "Dusk [Drama] <source-c>", "2 item(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSelectionEmpty(t *testing.T) {
	var buf bytes.Buffer
	printSelection(&buf, "Search", view.Selection{Items: []catalog.CatalogItem{}})
	if !strings.Contains(buf.String(), "No results.") {
		t.Errorf("got %q", buf.String())
	}
}

func TestPrintDetail(t *testing.T) {
	var buf bytes.Buffer
	printDetail(&buf, &catalog.DetailRecord{
		Item:     catalog.CatalogItem{ID: "1", Title: "Harbor", Source: catalog.SourceB},
		Synopsis: "Boats.",
		Episodes: []catalog.Episode{
			{ID: "e1", Title: "Pilot", EmbedURL: "https://player.test/1"},
			{ID: "e2", EmbedURL: "https://player.test/2"},
		},
	})
	out := buf.String()
	for _, want := range []string{"Harbor", "Boats.", "1. Pilot", "https://player.test/1", "2. Episode 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCurrentFilter(t *testing.T) {
	old := flagSource
	t.Cleanup(func() { flagSource = old })

	tests := []struct {
		flag string
		want string
	}{
		{"all", "all"},
		{"b", "source-b"},
		{"nonsense", "all"},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flagSource = tt.flag
			if got := currentFilter().String(); got != tt.want {
				t.Errorf("currentFilter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmbedFor(t *testing.T) {
	old := cfg
	t.Cleanup(func() { cfg = old })
	cfg = config.Default()

	if got := embedFor(tmdb.Movie, 550, 0, 0); got != "https://vidsrc.to/embed/movie/550" {
		t.Errorf("movie embed = %q", got)
	}
	if got := embedFor(tmdb.TV, 1399, 2, 3); got != "https://vidsrc.to/embed/tv/1399/2/3" {
		t.Errorf("tv embed = %q", got)
	}

	cfg.Embed.Movie = "http://insecure.test/{id}"
	if got := embedFor(tmdb.Movie, 1, 0, 0); got != "" {
		t.Errorf("insecure template produced %q", got)
	}
}

func TestJoinArgs(t *testing.T) {
	if got := joinArgs([]string{" one", "piece "}); got != "one piece" {
		t.Errorf("joinArgs = %q", got)
	}
}

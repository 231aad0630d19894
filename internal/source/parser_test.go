package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"tontonin/internal/catalog"
)

const listingHTML = `<html><body>
<article class="item">
  <h2><a href="/watch/first-title/">First Title</a></h2>
  <img src="data:image/gif;base64,R0lGOD" data-src="/wp-content/first.jpg">
  <div class="genres"><a>Action</a><a> Fantasy </a></div>
  <time datetime="2024-03-01">March 1</time>
</article>
<article class="item">
  <h2><a href="https://c.example/watch/second/?ref=home">'; rm -rf / #</a></h2>
  <img src="https://cdn.example/second.jpg">
</article>
<article class="item">
  <h2><a href="/tag/not-a-watch-link/">Tag page</a></h2>
</article>
<div class="pagination">
  <span class="page-numbers current">1</span>
  <a class="page-numbers" href="/page/2/">2</a>
  <a class="page-numbers" href="/page/12/">12</a>
  <a class="page-numbers next" href="/page/2/">Next</a>
</div>
</body></html>`

const detailHTML = `<html><body>
<h1 class="entry-title">First Title</h1>
<div class="poster"><img data-lazy-src="//cdn.example/poster.jpg"></div>
<div class="synopsis"> A story. </div>
<div class="genres"><a>Action</a></div>
<div class="player">
  <iframe src="https://player.example/e/1" data-title="Part 1"></iframe>
  <iframe data-src="/embed/2"></iframe>
</div>
</body></html>`

func loadDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func TestParseListing(t *testing.T) {
	items := parseListing(loadDoc(t, listingHTML), "https://c.example")

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != "first-title" {
		t.Errorf("items[0].ID = %q, want first-title", items[0].ID)
	}
	if items[0].CoverURL != "https://c.example/wp-content/first.jpg" {
		t.Errorf("items[0].CoverURL = %q", items[0].CoverURL)
	}
	if strings.Join(items[0].Genres, ",") != "Action,Fantasy" {
		t.Errorf("items[0].Genres = %v", items[0].Genres)
	}
	if items[0].UploadDate != "2024-03-01" {
		t.Errorf("items[0].UploadDate = %q", items[0].UploadDate)
	}
	// Markup-looking titles stay plain text.
	if items[1].Title != "'; rm -rf / #" {
		t.Errorf("items[1].Title = %q, want literal string", items[1].Title)
	}
	if items[1].ID != "second" {
		t.Errorf("items[1].ID = %q, want second", items[1].ID)
	}
	if items[1].Source != catalog.SourceC {
		t.Errorf("items[1].Source = %v", items[1].Source)
	}
}

func TestParseLastPage(t *testing.T) {
	if got := parseLastPage(loadDoc(t, listingHTML)); got != 12 {
		t.Errorf("parseLastPage = %d, want 12", got)
	}
	if got := parseLastPage(loadDoc(t, "<html></html>")); got != 0 {
		t.Errorf("parseLastPage without pagination = %d, want 0", got)
	}
}

func TestParseDetail(t *testing.T) {
	rec, ok := parseDetail(loadDoc(t, detailHTML), "https://c.example", "first-title")
	if !ok {
		t.Fatal("parseDetail reported soft 404")
	}
	if rec.Synopsis != "A story." {
		t.Errorf("Synopsis = %q", rec.Synopsis)
	}
	if rec.Item.CoverURL != "https://cdn.example/poster.jpg" {
		t.Errorf("CoverURL = %q", rec.Item.CoverURL)
	}
	if len(rec.Episodes) != 2 {
		t.Fatalf("expected 2 episodes, got %d", len(rec.Episodes))
	}
	if rec.Episodes[0].Title != "Part 1" || rec.Episodes[1].Title != "Episode 2" {
		t.Errorf("episode titles = %q, %q", rec.Episodes[0].Title, rec.Episodes[1].Title)
	}
	if rec.Episodes[1].EmbedURL != "https://c.example/embed/2" {
		t.Errorf("episode 2 embed = %q", rec.Episodes[1].EmbedURL)
	}

	if _, ok := parseDetail(loadDoc(t, "<html><h1>Oops</h1></html>"), "https://c.example", "x"); ok {
		t.Error("page without entry title should be a soft 404")
	}
}

func TestExtractSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/watch/some-title-2/", "some-title-2"},
		{"https://c.example/watch/abc", "abc"},
		{"/watch/abc/?utm=1#top", "abc"},
		{"/category/abc/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := extractSlug(tt.input); got != tt.expected {
				t.Errorf("extractSlug(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSourceCLatestEstimatesTotals(t *testing.T) {
	srv := newTLSServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/page/1/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, listingHTML)
	})
	c := NewSourceC(srv.URL, WithHTTPClient(srv.Client()))

	page, err := c.Latest(context.Background(), 1)
	if err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if page.TotalPages != 12 {
		t.Errorf("TotalPages = %d, want 12", page.TotalPages)
	}
	if page.TotalItems != 24 {
		t.Errorf("TotalItems = %d, want 24", page.TotalItems)
	}
}

func TestSourceCLatestPastLastPage(t *testing.T) {
	srv := newTLSServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>Nothing here.</p></body></html>`)
	})
	c := NewSourceC(srv.URL, WithHTTPClient(srv.Client()))

	page, err := c.Latest(context.Background(), 5)
	if err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if len(page.Items) != 0 || page.Items == nil {
		t.Errorf("Items = %#v, want empty slice", page.Items)
	}
	if page.Page != 5 || page.TotalPages < page.Page {
		t.Errorf("Page = %d, TotalPages = %d; want TotalPages >= Page", page.Page, page.TotalPages)
	}
}

func TestSourceCSearch(t *testing.T) {
	srv := newTLSServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			t.Errorf("path = %q, want /", r.URL.Path)
		}
		if got := r.URL.Query().Get("s"); got != "one piece & co" {
			t.Errorf("s = %q, want %q", got, "one piece & co")
		}
		fmt.Fprint(w, listingHTML)
	})
	c := NewSourceC(srv.URL, WithHTTPClient(srv.Client()))

	items, err := c.Search(context.Background(), "one piece & co")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != "first-title" || items[0].Source != catalog.SourceC {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[0].CoverURL != srv.URL+"/wp-content/first.jpg" {
		t.Errorf("items[0].CoverURL = %q", items[0].CoverURL)
	}
}

func TestSourceCSearchUpstreamError(t *testing.T) {
	srv := newTLSServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	c := NewSourceC(srv.URL, WithHTTPClient(srv.Client()))

	_, err := c.Search(context.Background(), "anything")
	var ue *catalog.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
	if ue.Op != "search" {
		t.Errorf("Op = %q, want search", ue.Op)
	}
}

func TestSourceCDetail(t *testing.T) {
	srv := newTLSServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch/first-title/":
			fmt.Fprint(w, detailHTML)
		case "/watch/soft-missing/":
			fmt.Fprint(w, `<html><body><div class="site-header">Menu</div></body></html>`)
		default:
			http.NotFound(w, r)
		}
	})
	c := NewSourceC(srv.URL, WithHTTPClient(srv.Client()))
	ctx := context.Background()

	rec, err := c.Detail(ctx, "first-title")
	if err != nil {
		t.Fatalf("Detail error: %v", err)
	}
	if rec.Item.Title != "First Title" || len(rec.Episodes) != 2 {
		t.Errorf("detail = %+v", rec)
	}

	tests := []struct {
		name string
		slug string
	}{
		{"404 page", "gone"},
		{"page without entry", "soft-missing"},
		{"traversal", "../etc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Detail(ctx, tt.slug)
			if !errors.Is(err, catalog.ErrNotFound) {
				t.Errorf("Detail(%q) error = %v, want ErrNotFound", tt.slug, err)
			}
			var ue *catalog.UpstreamError
			if errors.As(err, &ue) {
				t.Errorf("Detail(%q) reported an upstream failure: %v", tt.slug, err)
			}
		})
	}
}

func TestFormatDisplayTitle(t *testing.T) {
	got := FormatDisplayTitle(catalog.CatalogItem{
		Title:      "Name",
		UploadDate: "2024-01-01",
		Genres:     []string{"A", "B"},
		Source:     catalog.SourceB,
	})
	if got != "Name (2024-01-01) [A, B] <source-b>" {
		t.Errorf("FormatDisplayTitle = %q", got)
	}
}

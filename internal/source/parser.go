package source

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"tontonin/internal/catalog"
	"tontonin/internal/httputil"
)

// parseListing extracts catalog items from a source C listing or search page.
// Titles are read as text nodes only; markup inside them is never interpreted.
func parseListing(doc *goquery.Document, base string) []catalog.CatalogItem {
	items := []catalog.CatalogItem{}

	doc.Find("article.item").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("h2 a").First()
		title := strings.TrimSpace(link.Text())
		slug := extractSlug(link.AttrOr("href", ""))
		if title == "" || slug == "" {
			return
		}

		items = append(items, catalog.CatalogItem{
			ID:         slug,
			Title:      title,
			CoverURL:   imageSource(s.Find("img").First(), base),
			Genres:     selectionTexts(s.Find(".genres a")),
			UploadDate: timeValue(s.Find("time").First()),
			Source:     catalog.SourceC,
		})
	})

	return items
}

// parseLastPage returns the highest page number in the pagination bar, or 0.
func parseLastPage(doc *goquery.Document) int {
	last := 0
	doc.Find(".pagination a.page-numbers, .pagination span.page-numbers").Each(func(_ int, s *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimSpace(s.Text()))
		if err == nil && n > last {
			last = n
		}
	})
	return last
}

// parseDetail extracts a detail record. ok is false for soft-404 pages that
// render the site chrome without an entry.
func parseDetail(doc *goquery.Document, base, slug string) (*catalog.DetailRecord, bool) {
	title := strings.TrimSpace(doc.Find("h1.entry-title").First().Text())
	if title == "" {
		return nil, false
	}

	rec := &catalog.DetailRecord{
		Item: catalog.CatalogItem{
			ID:         slug,
			Title:      title,
			CoverURL:   imageSource(doc.Find(".poster img").First(), base),
			Genres:     selectionTexts(doc.Find(".genres a")),
			UploadDate: timeValue(doc.Find("time").First()),
			Source:     catalog.SourceC,
		},
		Synopsis: strings.TrimSpace(doc.Find(".synopsis").First().Text()),
		Episodes: []catalog.Episode{},
	}

	doc.Find(".player iframe").Each(func(i int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", s.AttrOr("data-src", "")))
		if src == "" {
			return
		}
		epTitle := strings.TrimSpace(s.AttrOr("data-title", ""))
		if epTitle == "" {
			epTitle = fmt.Sprintf("Episode %d", i+1)
		}
		rec.Episodes = append(rec.Episodes, catalog.Episode{
			ID:       strconv.Itoa(i + 1),
			Title:    epTitle,
			EmbedURL: httputil.ResolveURL(base, src),
		})
	})

	return rec, true
}

// extractSlug extracts the slug from a watch link.
// e.g., "https://c.example/watch/some-title-2/" -> "some-title-2"
func extractSlug(href string) string {
	href = strings.TrimSpace(href)
	if idx := strings.IndexAny(href, "?#"); idx != -1 {
		href = href[:idx]
	}
	idx := strings.Index(href, "/watch/")
	if idx == -1 {
		return ""
	}
	return strings.Trim(href[idx+len("/watch/"):], "/")
}

// imageSource prefers lazy-load attributes over src, which often holds a placeholder.
func imageSource(img *goquery.Selection, base string) string {
	for _, attr := range []string{"data-src", "data-lazy-src", "src"} {
		if v := strings.TrimSpace(img.AttrOr(attr, "")); v != "" && !strings.HasPrefix(v, "data:") {
			return httputil.ResolveURL(base, v)
		}
	}
	return ""
}

func timeValue(s *goquery.Selection) string {
	if v := strings.TrimSpace(s.AttrOr("datetime", "")); v != "" {
		return v
	}
	return strings.TrimSpace(s.Text())
}

func selectionTexts(s *goquery.Selection) []string {
	return cleanGenres(s.Map(func(_ int, sel *goquery.Selection) string {
		return sel.Text()
	}))
}

// FormatDisplayTitle creates a one-line display string for an item.
func FormatDisplayTitle(item catalog.CatalogItem) string {
	parts := []string{item.Title}
	if item.UploadDate != "" {
		parts = append(parts, fmt.Sprintf("(%s)", item.UploadDate))
	}
	if len(item.Genres) > 0 {
		parts = append(parts, "["+strings.Join(item.Genres, ", ")+"]")
	}
	parts = append(parts, "<"+item.Source.String()+">")
	return strings.Join(parts, " ")
}

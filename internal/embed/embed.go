// Package embed builds playback iframe URLs from provider templates.
package embed

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"tontonin/internal/httputil"
)

// Default templates. Placeholders are {id}, {type}, {season} and {episode}.
const (
	DefaultMovie = "https://vidsrc.to/embed/movie/{id}"
	DefaultTV    = "https://vidsrc.to/embed/tv/{id}/{season}/{episode}"
	DefaultAnime = "https://vidsrc.to/embed/anime/{id}/{episode}"
)

// Vars fills a template.
type Vars struct {
	ID      string
	Type    string
	Season  int
	Episode int
}

// Build substitutes vars into template. Values are path-escaped and the
// result must be an HTTPS URL.
func Build(template string, v Vars) (string, error) {
	if strings.TrimSpace(template) == "" {
		return "", fmt.Errorf("empty embed template")
	}
	if strings.Contains(template, "{id}") && strings.TrimSpace(v.ID) == "" {
		return "", fmt.Errorf("embed template needs an id")
	}

	season, episode := v.Season, v.Episode
	if season < 1 {
		season = 1
	}
	if episode < 1 {
		episode = 1
	}

	r := strings.NewReplacer(
		"{id}", url.PathEscape(strings.TrimSpace(v.ID)),
		"{type}", url.PathEscape(v.Type),
		"{season}", strconv.Itoa(season),
		"{episode}", strconv.Itoa(episode),
	)
	out := r.Replace(template)

	if err := httputil.ValidateURL(out); err != nil {
		return "", fmt.Errorf("embed url: %w", err)
	}
	return out, nil
}

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tontonin/internal/anime"
	"tontonin/internal/embed"
	"tontonin/internal/httputil"
	"tontonin/internal/source"
	"tontonin/internal/tmdb"
	"tontonin/internal/translate"
)

// app holds the services built from the loaded config.
type app struct {
	agg        *source.Aggregator
	translator *translate.Translator
	cache      *translate.Cache
	tmdb       *tmdb.Client
	anime      *anime.Client
	store      translate.Store
}

// newApp wires every service. The caller must Close it.
func newApp(ctx context.Context) (*app, error) {
	tags, err := cfg.EnabledSources()
	if err != nil {
		return nil, err
	}

	client := httputil.NewClient(cfg.SourceTimeout + 5*time.Second)
	adapters := make([]source.Adapter, 0, len(tags))
	for _, tag := range tags {
		adapters = append(adapters, source.New(tag, cfg.SourceURL(tag), source.WithHTTPClient(client)))
	}

	store, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	cache := translate.NewCache(store, translate.WithLogger(logger))
	if err := cache.Load(ctx); err != nil {
		logger.Warn("translation cache unavailable, starting empty", "err", err)
	}

	return &app{
		agg:        source.NewAggregator(logger, cfg.SourceTimeout, adapters...),
		translator: translate.New(translate.NewGoogleClient(cfg.Translate.Endpoint, client), cache, logger),
		cache:      cache,
		tmdb: tmdb.New(cfg.TMDB.APIKey,
			tmdb.WithBaseURL(cfg.TMDB.BaseURL),
			tmdb.WithImageBase(cfg.TMDB.ImageBase),
		),
		anime: anime.New(cfg.Anime.BaseURL, client),
		store: store,
	}, nil
}

func openStore(ctx context.Context) (translate.Store, error) {
	switch strings.ToLower(cfg.Translate.Store) {
	case "memory":
		return translate.NewMemoryStore(), nil
	}

	path, err := cfg.CachePath()
	if err != nil {
		return nil, err
	}
	debugf("translation store: %s (%s)", path, cfg.Translate.Store)

	if strings.EqualFold(cfg.Translate.Store, "file") {
		return translate.NewFileStore(path), nil
	}
	s, err := translate.OpenSQLite(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("opening translation cache: %w", err)
	}
	return s, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// embedFor returns the playback URL for a TMDB title, or "" when the
// template cannot be filled.
func embedFor(kind tmdb.Kind, id, season, episode int) string {
	tmpl := cfg.Embed.Movie
	if kind == tmdb.TV {
		tmpl = cfg.Embed.TV
	}
	u, err := embed.Build(tmpl, embed.Vars{
		ID:      fmt.Sprint(id),
		Type:    string(kind),
		Season:  season,
		Episode: episode,
	})
	if err != nil {
		debugf("embed url for %d: %v", id, err)
		return ""
	}
	return u
}

// Package config handles TOML-based configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"tontonin/internal/catalog"
	"tontonin/internal/embed"
	"tontonin/internal/httputil"
	"tontonin/internal/tmdb"
	"tontonin/internal/translate"
)

const appName = "tontonin"

// Config holds all application configuration.
type Config struct {
	Sources       Sources       `toml:"sources"`
	SourceTimeout time.Duration `toml:"source_timeout"`
	PerSource     int           `toml:"per_source"`
	Translate     Translate     `toml:"translate"`
	TMDB          TMDB          `toml:"tmdb"`
	Anime         Anime         `toml:"anime"`
	Embed         Embed         `toml:"embed"`
	Server        Server        `toml:"server"`
	Player        string        `toml:"player"`
	Debug         bool          `toml:"debug"`
}

// Sources holds the upstream base URLs.
type Sources struct {
	A       string   `toml:"a"`
	B       string   `toml:"b"`
	C       string   `toml:"c"`
	Enabled []string `toml:"enabled"`
}

// Translate configures the translation layer.
type Translate struct {
	Endpoint string `toml:"endpoint"`
	Target   string `toml:"target"`
	Store    string `toml:"store"` // sqlite, file or memory
}

// TMDB configures the movie/TV metadata client.
type TMDB struct {
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	ImageBase string `toml:"image_base"`
}

// Anime configures the anime scraper service.
type Anime struct {
	BaseURL string `toml:"base_url"`
}

// Embed holds playback URL templates.
type Embed struct {
	Movie string `toml:"movie"`
	TV    string `toml:"tv"`
	Anime string `toml:"anime"`
}

// Server configures the HTTP API.
type Server struct {
	Addr      string `toml:"addr"`
	StaticDir string `toml:"static_dir"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Sources: Sources{
			A:       "https://api.nontonin.net",
			B:       "https://b.streamkita.org/api",
			C:       "https://filmnesia.id",
			Enabled: []string{"a", "b", "c"},
		},
		SourceTimeout: 15 * time.Second,
		PerSource:     8,
		Translate: Translate{
			Endpoint: translate.DefaultEndpoint,
			Target:   translate.SourceLanguage,
			Store:    "sqlite",
		},
		TMDB: TMDB{
			BaseURL:   tmdb.DefaultBaseURL,
			ImageBase: tmdb.DefaultImageBase,
		},
		Embed: Embed{
			Movie: embed.DefaultMovie,
			TV:    embed.DefaultTV,
			Anime: embed.DefaultAnime,
		},
		Server: Server{
			Addr: "127.0.0.1:8787",
		},
		Player: "browser",
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the directory holding the translation cache.
func CacheDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return finish(Default())
	}
	return LoadFile(path)
}

// LoadFile reads the config at path over the defaults.
// A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return finish(cfg)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	if key := os.Getenv("TMDB_API_KEY"); key != "" {
		cfg.TMDB.APIKey = key
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	enabled, err := c.EnabledSources()
	if err != nil {
		return err
	}
	if len(enabled) == 0 {
		return fmt.Errorf("no sources enabled")
	}
	for _, tag := range enabled {
		if err := httputil.ValidateURL(c.SourceURL(tag)); err != nil {
			return fmt.Errorf("source %s: %w", tag, err)
		}
	}

	if c.SourceTimeout <= 0 {
		return fmt.Errorf("source_timeout must be positive, got %s", c.SourceTimeout)
	}
	if c.PerSource < 0 {
		return fmt.Errorf("per_source cannot be negative")
	}

	validStores := map[string]bool{"sqlite": true, "file": true, "memory": true}
	if !validStores[strings.ToLower(c.Translate.Store)] {
		return fmt.Errorf("unsupported translation store %q (valid: sqlite, file, memory)", c.Translate.Store)
	}
	if err := httputil.ValidateURL(c.Translate.Endpoint); err != nil {
		return fmt.Errorf("translate endpoint: %w", err)
	}

	optional := map[string]string{
		"tmdb base_url":   c.TMDB.BaseURL,
		"tmdb image_base": c.TMDB.ImageBase,
		"anime base_url":  c.Anime.BaseURL,
	}
	for name, u := range optional {
		if u == "" {
			continue
		}
		if err := httputil.ValidateURL(u); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	validPlayers := map[string]bool{
		"browser": true, "mpv": true, "vlc": true, "iina": true, "celluloid": true,
	}
	if !validPlayers[strings.ToLower(c.Player)] {
		return fmt.Errorf("unsupported player %q (valid: browser, mpv, vlc, iina, celluloid)", c.Player)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server addr cannot be empty")
	}
	return nil
}

// EnabledSources returns the enabled source tags in A, B, C order.
func (c *Config) EnabledSources() ([]catalog.SourceTag, error) {
	want := make(map[catalog.SourceTag]bool, len(c.Sources.Enabled))
	for _, name := range c.Sources.Enabled {
		tag, err := catalog.ParseSourceTag(name)
		if err != nil {
			return nil, fmt.Errorf("sources.enabled: %w", err)
		}
		want[tag] = true
	}

	var out []catalog.SourceTag
	for _, tag := range catalog.AllSources() {
		if want[tag] {
			out = append(out, tag)
		}
	}
	return out, nil
}

// SourceURL returns the base URL configured for tag.
func (c *Config) SourceURL(tag catalog.SourceTag) string {
	switch tag {
	case catalog.SourceA:
		return c.Sources.A
	case catalog.SourceB:
		return c.Sources.B
	case catalog.SourceC:
		return c.Sources.C
	}
	return ""
}

// CachePath returns where the configured translation store lives.
func (c *Config) CachePath() (string, error) {
	dir, err := CacheDir()
	if err != nil {
		return "", err
	}
	if strings.EqualFold(c.Translate.Store, "file") {
		return filepath.Join(dir, "translations"), nil
	}
	return filepath.Join(dir, "cache.db"), nil
}

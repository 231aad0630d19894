// Package server exposes the catalog aggregation core as a JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"tontonin/internal/anime"
	"tontonin/internal/catalog"
	"tontonin/internal/embed"
	"tontonin/internal/logging"
	"tontonin/internal/source"
	"tontonin/internal/tmdb"
	"tontonin/internal/translate"
)

// Deps are the services the API is built on. Translator, TMDB and Anime
// may be nil; their routes then answer 503.
type Deps struct {
	Aggregator *source.Aggregator
	Translator *translate.Translator
	TMDB       *tmdb.Client
	Anime      *anime.Client
	Logger     *log.Logger
}

// Options tune the API.
type Options struct {
	PerSource int
	StaticDir string
	Embed     EmbedTemplates
}

// EmbedTemplates are the playback URL templates for discover results.
type EmbedTemplates struct {
	Movie string
	TV    string
}

// Server is the HTTP API.
type Server struct {
	deps   Deps
	opts   Options
	logger *log.Logger
	engine *gin.Engine
}

// New builds the router.
func New(deps Deps, opts Options) *Server {
	s := &Server{
		deps:   deps,
		opts:   opts,
		logger: logging.OrDiscard(deps.Logger),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())
	_ = r.SetTrustedProxies([]string{"127.0.0.1"})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sources": s.sourceNames()})
	})

	api := r.Group("/api")
	api.GET("/latest", s.latest)
	api.GET("/search", s.search)
	api.GET("/detail/:source/*id", s.detail)
	api.GET("/translate", s.translateOne)
	api.POST("/translate", s.translateBatch)
	api.GET("/discover", s.discover)
	api.GET("/anime/ongoing", s.animeOngoing)

	r.NoRoute(s.fallback)
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start).Round(time.Millisecond),
		)
	}
}

func (s *Server) sourceNames() []string {
	if s.deps.Aggregator == nil {
		return []string{}
	}
	tags := s.deps.Aggregator.Sources()
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.String())
	}
	return names
}

// fallback is the single catch-all route: unknown API paths get JSON 404s,
// everything else is handed to the single-page app when one is configured.
func (s *Server) fallback(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.URL.Path == "/api" {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if s.opts.StaticDir == "" || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	root := filepath.Clean(s.opts.StaticDir)
	if !strings.Contains(c.Request.URL.Path, "..") {
		p := filepath.Join(root, filepath.FromSlash(c.Request.URL.Path))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			c.File(p)
			return
		}
	}

	index, err := os.ReadFile(filepath.Join(root, "index.html"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", index)
}

// errorStatus maps core errors to HTTP statuses.
func errorStatus(err error) int {
	var ue *catalog.UpstreamError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &ue):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, tmdb.ErrNotConfigured), errors.Is(err, anime.ErrNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	status := errorStatus(err)
	if status < http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	// Upstream detail stays in the log.
	s.logger.Warn("request failed", "path", c.Request.URL.Path, "err", err)
	c.JSON(status, gin.H{"error": publicMessage(status)})
}

func publicMessage(status int) string {
	switch status {
	case http.StatusBadGateway:
		return "upstream unavailable"
	case http.StatusGatewayTimeout:
		return "upstream timed out"
	case http.StatusServiceUnavailable:
		return "service not configured"
	}
	return "internal error"
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func buildEmbed(template string, v embed.Vars) string {
	if template == "" {
		return ""
	}
	u, err := embed.Build(template, v)
	if err != nil {
		return ""
	}
	return u
}

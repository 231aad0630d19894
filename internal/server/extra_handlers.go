package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tontonin/internal/catalog"
	"tontonin/internal/embed"
	"tontonin/internal/tmdb"
	"tontonin/internal/translate"
)

// maxBatch bounds how many texts one POST /api/translate may carry.
const maxBatch = 100

type translateRequest struct {
	Texts []string `json:"texts" binding:"required"`
	Lang  string   `json:"lang"`
}

// GET /api/translate?text=T&lang=L
func (s *Server) translateOne(c *gin.Context) {
	if s.deps.Translator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "translation disabled"})
		return
	}
	text := c.Query("text")
	lang := c.DefaultQuery("lang", translate.SourceLanguage)
	c.JSON(http.StatusOK, gin.H{
		"text":       text,
		"lang":       lang,
		"translated": s.deps.Translator.Translate(c.Request.Context(), text, lang),
	})
}

// POST /api/translate {"texts": [...], "lang": "id"}
func (s *Server) translateBatch(c *gin.Context) {
	if s.deps.Translator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "translation disabled"})
		return
	}
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if len(req.Texts) > maxBatch {
		badRequest(c, "too many texts (max "+strconv.Itoa(maxBatch)+")")
		return
	}
	if req.Lang == "" {
		req.Lang = translate.SourceLanguage
	}
	c.JSON(http.StatusOK, gin.H{
		"lang":         req.Lang,
		"translations": s.deps.Translator.TranslateBatch(c.Request.Context(), req.Texts, req.Lang),
	})
}

type discoverItem struct {
	tmdb.Title
	EmbedURL string `json:"embed_url,omitempty"`
}

// GET /api/discover?kind=movie|tv&genre=ID&country=CC&year=YYYY&page=N&q=Q
func (s *Server) discover(c *gin.Context) {
	if !s.deps.TMDB.IsConfigured() {
		s.fail(c, tmdb.ErrNotConfigured)
		return
	}
	kind, err := tmdb.ParseKind(c.Query("kind"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	page := parseInt(c.Query("page"), 1)

	ctx := c.Request.Context()
	var result catalog.Page[tmdb.Title]
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		result, err = s.deps.TMDB.Search(ctx, q, page)
	} else {
		result, err = s.deps.TMDB.Discover(ctx, tmdb.DiscoverQuery{
			Kind:    kind,
			GenreID: parseInt(c.Query("genre"), 0),
			Country: c.Query("country"),
			Year:    parseInt(c.Query("year"), 0),
			Page:    page,
		})
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	items := make([]discoverItem, 0, len(result.Items))
	for _, t := range result.Items {
		tmpl := s.opts.Embed.Movie
		if t.Kind == tmdb.TV {
			tmpl = s.opts.Embed.TV
		}
		items = append(items, discoverItem{
			Title:    t,
			EmbedURL: buildEmbed(tmpl, embed.Vars{ID: strconv.Itoa(t.ID), Type: string(t.Kind)}),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"page":        result.Page,
		"total_pages": result.TotalPages,
		"total_items": result.TotalItems,
	})
}

// GET /api/anime/ongoing?page=N
func (s *Server) animeOngoing(c *gin.Context) {
	if !s.deps.Anime.IsConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "anime service not configured"})
		return
	}
	p, err := s.deps.Anime.Ongoing(c.Request.Context(), parseInt(c.Query("page"), 1))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

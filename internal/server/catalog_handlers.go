package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tontonin/internal/catalog"
	"tontonin/internal/source"
	"tontonin/internal/view"
)

type latestResponse struct {
	view.Selection
	Page    int                                          `json:"page"`
	Filter  string                                       `json:"source"`
	Sources map[string]catalog.Page[catalog.CatalogItem] `json:"sources"`
}

type searchResponse struct {
	view.Selection
	Query  string `json:"query"`
	Filter string `json:"source"`
}

func (s *Server) filterAndLimit(c *gin.Context) (view.Filter, int, bool) {
	f, err := view.ParseFilter(c.Query("source"))
	if err != nil {
		badRequest(c, err.Error())
		return view.Filter{}, 0, false
	}
	limit := parseInt(c.Query("limit"), s.opts.PerSource)
	if limit < 0 {
		limit = 0
	}
	return f, limit, true
}

// GET /api/latest?page=N&source=all|a|b|c&limit=K&lang=L
func (s *Server) latest(c *gin.Context) {
	f, limit, ok := s.filterAndLimit(c)
	if !ok {
		return
	}
	page := parseInt(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}

	ctx := c.Request.Context()
	pages := s.deps.Aggregator.FetchAllLatest(ctx, page)

	sel := view.SelectLatest(pages, f, limit)
	sel.Items = s.deps.Translator.Items(ctx, sel.Items, c.Query("lang"))

	perSource := make(map[string]catalog.Page[catalog.CatalogItem], len(pages))
	for tag, p := range pages {
		perSource[tag.String()] = p
	}
	c.JSON(http.StatusOK, latestResponse{
		Selection: sel,
		Page:      page,
		Filter:    f.String(),
		Sources:   perSource,
	})
}

// GET /api/search?q=Q&source=...&limit=K&lang=L
func (s *Server) search(c *gin.Context) {
	f, limit, ok := s.filterAndLimit(c)
	if !ok {
		return
	}
	q := c.Query("q")

	ctx := c.Request.Context()
	results := s.deps.Aggregator.SearchAll(ctx, q)

	sel := view.Select(results, f, limit)
	sel.Items = s.deps.Translator.Items(ctx, sel.Items, c.Query("lang"))
	c.JSON(http.StatusOK, searchResponse{
		Selection: sel,
		Query:     strings.TrimSpace(q),
		Filter:    f.String(),
	})
}

// GET /api/detail/:source/*id
func (s *Server) detail(c *gin.Context) {
	tag, err := catalog.ParseSourceTag(c.Param("source"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	id := strings.Trim(c.Param("id"), "/")
	if id == "" {
		badRequest(c, "missing id")
		return
	}

	ctx := c.Request.Context()
	rec, err := s.deps.Aggregator.Detail(ctx, tag, id)
	if err != nil {
		if errors.Is(err, source.ErrUnconfigured) {
			badRequest(c, err.Error())
			return
		}
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.deps.Translator.Detail(ctx, rec, c.Query("lang")))
}

package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"tontonin/internal/server"
)

var (
	flagAddr   string
	flagStatic string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog as a JSON API",
	Long: `Serve the aggregated catalog over HTTP.

Routes:
  GET  /api/latest?page=N&source=all|a|b|c&limit=K&lang=L
  GET  /api/search?q=Q&source=...&lang=L
  GET  /api/detail/:source/*id
  GET  /api/translate?text=T&lang=L
  POST /api/translate {"texts": [...], "lang": "id"}
  GET  /api/discover?kind=movie|tv&genre=&country=&year=&page=&q=
  GET  /api/anime/ongoing?page=N
  GET  /healthz

Any other path serves index.html from --static (single-page app fallback).`,
	Args: cobra.NoArgs,
	RunE: serveRun,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().StringVar(&flagStatic, "static", "", "Directory with a built web app to serve")
}

func serveRun(cmd *cobra.Command, args []string) error {
	if flagAddr != "" {
		cfg.Server.Addr = flagAddr
	}
	if flagStatic != "" {
		cfg.Server.StaticDir = flagStatic
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(server.Deps{
		Aggregator: a.agg,
		Translator: a.translator,
		TMDB:       a.tmdb,
		Anime:      a.anime,
		Logger:     logger,
	}, server.Options{
		PerSource: cfg.PerSource,
		StaticDir: cfg.Server.StaticDir,
		Embed: server.EmbedTemplates{
			Movie: cfg.Embed.Movie,
			TV:    cfg.Embed.TV,
		},
	})
	return srv.Run(ctx, cfg.Server.Addr)
}

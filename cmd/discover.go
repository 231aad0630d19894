package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tontonin/internal/catalog"
	"tontonin/internal/tmdb"
)

var (
	flagGenre   int
	flagCountry string
	flagYear    int
	flagPage    int
	flagQuery   string
	flagTrend   bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover [movie|tv]",
	Short: "Browse movie and TV catalogs by genre, country and year",
	Long: `Browse TMDB catalogs. Requires an API key in the config file
([tmdb] api_key) or the TMDB_API_KEY environment variable.`,
	Example: `  tontonin discover tv --country KR --genre 18
  tontonin discover movie --year 2024 --page 2
  tontonin discover --query "dune"
  tontonin discover genres tv`,
	Args: cobra.MaximumNArgs(1),
	RunE: discoverRun,
}

var genresCmd = &cobra.Command{
	Use:   "genres [movie|tv]",
	Short: "List genre IDs",
	Args:  cobra.MaximumNArgs(1),
	RunE:  genresRun,
}

func init() {
	f := discoverCmd.Flags()
	f.IntVarP(&flagGenre, "genre", "g", 0, "Genre ID (see `discover genres`)")
	f.StringVarP(&flagCountry, "country", "c", "", "Origin country code, e.g. ID, KR, JP")
	f.IntVarP(&flagYear, "year", "y", 0, "Release year")
	f.IntVarP(&flagPage, "page", "p", 1, "Page number")
	f.StringVarP(&flagQuery, "query", "q", "", "Search instead of browsing")
	f.BoolVarP(&flagTrend, "trending", "t", false, "Show this week's trending titles")

	discoverCmd.AddCommand(genresCmd)
}

func kindArg(args []string) (tmdb.Kind, error) {
	if len(args) == 0 {
		return tmdb.Movie, nil
	}
	return tmdb.ParseKind(args[0])
}

func discoverRun(cmd *cobra.Command, args []string) error {
	kind, err := kindArg(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	if !a.tmdb.IsConfigured() {
		return fmt.Errorf("%w: set [tmdb] api_key or TMDB_API_KEY", tmdb.ErrNotConfigured)
	}

	result, err := fetchTitles(cmd, a, kind)
	if err != nil {
		return err
	}

	type row struct {
		tmdb.Title
		EmbedURL string `json:"embed_url,omitempty"`
	}
	rows := make([]row, 0, len(result.Items))
	for _, t := range result.Items {
		rows = append(rows, row{Title: t, EmbedURL: embedFor(t.Kind, t.ID, 1, 1)})
	}

	if flagJSON {
		return printJSON(struct {
			Items      []row `json:"items"`
			Page       int   `json:"page"`
			TotalPages int   `json:"total_pages"`
		}{rows, result.Page, result.TotalPages})
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%s · page %d/%d", kind, result.Page, result.TotalPages)))
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\t%s\n", r.ID, r.Title.Title, r.Year(), r.Rating, r.EmbedURL)
	}
	return tw.Flush()
}

func fetchTitles(cmd *cobra.Command, a *app, kind tmdb.Kind) (catalog.Page[tmdb.Title], error) {
	ctx := cmd.Context()
	switch {
	case flagQuery != "":
		return a.tmdb.Search(ctx, flagQuery, flagPage)
	case flagTrend:
		return a.tmdb.Trending(ctx, kind, flagPage)
	}
	return a.tmdb.Discover(ctx, tmdb.DiscoverQuery{
		Kind:    kind,
		GenreID: flagGenre,
		Country: flagCountry,
		Year:    flagYear,
		Page:    flagPage,
	})
}

func genresRun(cmd *cobra.Command, args []string) error {
	kind, err := kindArg(args)
	if err != nil {
		return err
	}
	c := tmdb.New(cfg.TMDB.APIKey, tmdb.WithBaseURL(cfg.TMDB.BaseURL))
	genres, err := c.Genres(cmd.Context(), kind)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(genres)
	}
	for _, g := range genres {
		fmt.Printf("%6d  %s\n", g.ID, g.Name)
	}
	return nil
}

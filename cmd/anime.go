package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tontonin/internal/catalog"
	"tontonin/internal/embed"
)

var flagEpisodeNumber int

var animeCmd = &cobra.Command{
	Use:   "anime",
	Short: "Browse the anime scraper service ([anime] base_url)",
}

var animeOngoingCmd = &cobra.Command{
	Use:   "ongoing [page]",
	Short: "List currently airing shows",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid page %q", args[0])
			}
			page = n
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.anime.Ongoing(cmd.Context(), page)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(p)
		}
		fmt.Println(headerStyle.Render(fmt.Sprintf("Ongoing · page %d/%d", p.Page, p.TotalPages)))
		for _, s := range p.Items {
			fmt.Printf("%-40s %-14s %s\n", s.Title, s.CurrentEpisode, faintStyle.Render(s.Slug))
		}
		return nil
	},
}

var animeSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search shows",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		shows, err := a.anime.Search(cmd.Context(), joinArgs(args))
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(shows)
		}
		for _, s := range shows {
			fmt.Printf("%-40s %s\n", s.Title, faintStyle.Render(s.Slug))
		}
		return nil
	},
}

var animeDetailCmd = &cobra.Command{
	Use:   "detail <slug>",
	Short: "Show a show's synopsis and episodes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := a.anime.Detail(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		d.Synopsis = a.translator.Translate(cmd.Context(), d.Synopsis, cfg.Translate.Target)
		if flagJSON {
			return printJSON(d)
		}
		fmt.Println(headerStyle.Render(d.Title))
		if d.Synopsis != "" {
			fmt.Println(d.Synopsis)
		}
		fmt.Println()
		for i, ep := range d.Episodes {
			fmt.Printf("%3d. %s %s\n", i+1, ep.Title, faintStyle.Render(ep.Slug))
		}
		return nil
	},
}

var animeEpisodeCmd = &cobra.Command{
	Use:   "episode <episode-slug>",
	Short: "Resolve an episode's embed URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		ep, err := a.anime.Episode(cmd.Context(), args[0])
		if errors.Is(err, catalog.ErrNotFound) && flagEpisodeNumber > 0 {
			// Service has no stream; fall back to the anime embed template.
			u, berr := embed.Build(cfg.Embed.Anime, embed.Vars{ID: args[0], Type: "anime", Episode: flagEpisodeNumber})
			if berr != nil {
				return err
			}
			fmt.Println(u)
			return nil
		}
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(ep)
		}
		fmt.Println(ep.EmbedURL)
		for _, m := range ep.Mirrors {
			fmt.Printf("  %-12s %s\n", m.Name, m.URL)
		}
		return nil
	},
}

func init() {
	animeEpisodeCmd.Flags().IntVarP(&flagEpisodeNumber, "number", "n", 0, "Episode number for the embed template fallback")
	animeCmd.AddCommand(animeOngoingCmd, animeSearchCmd, animeDetailCmd, animeEpisodeCmd)
}

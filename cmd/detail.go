package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tontonin/internal/catalog"
	"tontonin/internal/player"
)

var (
	flagOpen    bool
	flagEpisode int
)

var detailCmd = &cobra.Command{
	Use:   "detail <source> <id>",
	Short: "Show an item's synopsis and episodes",
	Example: `  tontonin detail a 8812
  tontonin detail source-c some-slug --open --episode 2`,
	Args: cobra.ExactArgs(2),
	RunE: detailRun,
}

func init() {
	detailCmd.Flags().BoolVarP(&flagOpen, "open", "o", false, "Open the episode's embed URL with the configured player")
	detailCmd.Flags().IntVarP(&flagEpisode, "episode", "e", 1, "Episode number to open")
}

func detailRun(cmd *cobra.Command, args []string) error {
	tag, err := catalog.ParseSourceTag(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.agg.Detail(ctx, tag, args[1])
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return fmt.Errorf("%s has no item %q", tag, args[1])
		}
		return err
	}
	rec = a.translator.Detail(ctx, rec, cfg.Translate.Target)

	if flagOpen {
		return openEpisode(rec)
	}
	if flagJSON {
		return printJSON(rec)
	}
	printDetail(os.Stdout, rec)
	return nil
}

func openEpisode(rec *catalog.DetailRecord) error {
	if flagEpisode < 1 || flagEpisode > len(rec.Episodes) {
		return fmt.Errorf("episode %d out of range (1-%d)", flagEpisode, len(rec.Episodes))
	}
	ep := rec.Episodes[flagEpisode-1]

	l := player.New(cfg.Player)
	if !l.Available() {
		return fmt.Errorf("%s not found in PATH", l.Name())
	}
	debugf("opening %s with %s", ep.EmbedURL, l.Name())
	return l.Open(ep.EmbedURL, rec.Item.Title)
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tontonin/internal/translate"
)

var flagPurgeAll bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or purge the translation cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache location and size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		path, _ := cfg.CachePath()
		if flagJSON {
			return printJSON(map[string]any{
				"store":   cfg.Translate.Store,
				"path":    path,
				"entries": a.cache.Len(),
				"ttl":     translate.TTL.String(),
			})
		}
		fmt.Printf("store:   %s\n", cfg.Translate.Store)
		fmt.Printf("path:    %s\n", path)
		fmt.Printf("entries: %d\n", a.cache.Len())
		fmt.Printf("ttl:     %s\n", translate.TTL)
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Drop expired translations (or all of them with --all)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		now := time.Now()
		if flagPurgeAll {
			// Everything is older than a TTL from now.
			now = now.Add(translate.TTL + time.Minute)
		}
		n, err := a.cache.PurgeExpired(cmd.Context(), now)
		if err != nil {
			return err
		}
		fmt.Printf("purged %d translation(s), %d left\n", n, a.cache.Len())
		return nil
	},
}

func init() {
	cachePurgeCmd.Flags().BoolVar(&flagPurgeAll, "all", false, "Drop every entry")
	cacheCmd.AddCommand(cacheStatsCmd, cachePurgeCmd)
}

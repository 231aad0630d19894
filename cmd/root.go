// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tontonin/internal/config"
	"tontonin/internal/logging"
	"tontonin/internal/view"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagJSON      bool
	flagDebug     bool
	flagLang      string
	flagSource    string
	flagPerSource int
	flagNoCache   bool
	flagConfig    string
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

// logger is built once the config is known.
var logger = logging.Discard()

var rootCmd = &cobra.Command{
	Use:   "tontonin [query]",
	Short: "Browse movie and series catalogs from several sources at once",
	Long: `tontonin aggregates the latest uploads and search results of several
streaming catalogs, translates titles on the fly and serves the same data
over a JSON API.

Without arguments it opens the interactive browser (or prints the latest
uploads when stdout is not a terminal). With arguments it searches.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	RunE:              rootRun,
	SilenceUsage:      true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flagJSON, "json", "j", false, "Output JSON instead of text")
	pf.BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")
	pf.StringVarP(&flagLang, "lang", "l", "", "Translate titles into this language (e.g. id, ja)")
	pf.StringVarP(&flagSource, "source", "s", "all", "Source to show: all | a | b | c")
	pf.IntVar(&flagPerSource, "per-source", -1, "Items shown per source when showing all (0 = no cap)")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Keep translations in memory only")
	pf.StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/tontonin/config.toml)")

	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(detailCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(animeCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagLang != "" {
		cfg.Translate.Target = flagLang
	}
	if flagPerSource >= 0 {
		cfg.PerSource = flagPerSource
	}
	if flagNoCache {
		cfg.Translate.Store = "memory"
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := view.ParseFilter(flagSource); err != nil {
		return err
	}

	logger = logging.New(os.Stderr, cfg.Debug)
	logger.Debug("config loaded", "sources", cfg.Sources.Enabled, "lang", cfg.Translate.Target)
	return nil
}

func rootRun(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return searchRun(cmd, args)
	}
	if interactive() && !flagJSON {
		return browseRun(cmd, args)
	}
	return latestRun(cmd, args)
}

// interactive reports whether stdin and stdout are both terminals.
func interactive() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

func currentFilter() view.Filter {
	f, err := view.ParseFilter(flagSource)
	if err != nil {
		return view.All
	}
	return f
}

// debugf logs a message if debug mode is enabled.
func debugf(format string, args ...interface{}) {
	logger.Debug(fmt.Sprintf(format, args...))
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tontonin " + Version)
	},
}

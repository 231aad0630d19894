package cmd

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"tontonin/internal/ui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive browser",
	Args:  cobra.NoArgs,
	RunE:  browseRun,
}

func browseRun(cmd *cobra.Command, args []string) error {
	if !interactive() {
		return errors.New("browse needs an interactive terminal; try `tontonin latest`")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	// The browser owns the screen; keep log lines out of it.
	logger.SetOutput(io.Discard)

	return ui.Run(ctx, a.agg, ui.Options{
		PerSource:  cfg.PerSource,
		Lang:       cfg.Translate.Target,
		Filter:     flagSource,
		Translator: a.translator,
	})
}

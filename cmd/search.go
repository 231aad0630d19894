package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tontonin/internal/source"
	"tontonin/internal/view"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search every source",
	Args:  cobra.MinimumNArgs(1),
	RunE:  searchRun,
}

func searchRun(cmd *cobra.Command, args []string) error {
	query := joinArgs(args)
	if !source.SearchableQuery(query) {
		debugf("query %q too short, not searching", query)
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	results := a.agg.SearchAll(ctx, query)
	sel := view.Select(results, currentFilter(), cfg.PerSource)
	sel.Items = a.translator.Items(ctx, sel.Items, cfg.Translate.Target)

	if flagJSON {
		return printJSON(struct {
			view.Selection
			Query string `json:"query"`
		}{sel, query})
	}
	printSelection(os.Stdout, fmt.Sprintf("Search %q · %s", query, currentFilter()), sel)
	return nil
}

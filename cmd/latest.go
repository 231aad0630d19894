package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"tontonin/internal/catalog"
	"tontonin/internal/view"
)

type latestOutput struct {
	view.Selection
	Page    int                                                     `json:"page"`
	Sources map[catalog.SourceTag]catalog.Page[catalog.CatalogItem] `json:"sources"`
}

var latestCmd = &cobra.Command{
	Use:   "latest [page]",
	Short: "Show the latest uploads of every source",
	Args:  cobra.MaximumNArgs(1),
	RunE:  latestRun,
}

func latestRun(cmd *cobra.Command, args []string) error {
	page := 1
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid page %q", args[0])
		}
		page = n
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	pages := a.agg.FetchAllLatest(ctx, page)
	sel := view.SelectLatest(pages, currentFilter(), cfg.PerSource)
	sel.Items = a.translator.Items(ctx, sel.Items, cfg.Translate.Target)

	if flagJSON {
		return printJSON(latestOutput{sel, page, pages})
	}

	totalPages, more := 1, false
	for _, p := range pages {
		totalPages = max(totalPages, p.TotalPages)
		more = more || p.HasNext()
	}
	printSelection(os.Stdout, fmt.Sprintf("Latest uploads · page %d/%d · %s", page, totalPages, currentFilter()), sel)
	if more {
		fmt.Println(faintStyle.Render(fmt.Sprintf("next: tontonin latest %d", page+1)))
	}
	return nil
}

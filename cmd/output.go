package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tontonin/internal/catalog"
	"tontonin/internal/source"
	"tontonin/internal/view"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF8C42"))
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printSelection writes one line per item, numbered, followed by a count.
func printSelection(w io.Writer, heading string, sel view.Selection) {
	fmt.Fprintln(w, headerStyle.Render(heading))
	if sel.Count == 0 {
		fmt.Fprintln(w, faintStyle.Render("No results."))
		return
	}
	for i, it := range sel.Items {
		fmt.Fprintf(w, "%3d. %s\n", i+1, source.FormatDisplayTitle(it))
		fmt.Fprintf(w, "     %s\n", faintStyle.Render(it.Source.String()+"/"+it.ID))
	}
	fmt.Fprintln(w, faintStyle.Render(fmt.Sprintf("%d item(s)", sel.Count)))
}

func printDetail(w io.Writer, rec *catalog.DetailRecord) {
	fmt.Fprintln(w, headerStyle.Render(rec.Item.Title))
	fmt.Fprintln(w, faintStyle.Render(source.FormatDisplayTitle(rec.Item)))
	if rec.Item.CoverURL != "" {
		fmt.Fprintln(w, "Cover:", rec.Item.CoverURL)
	}
	if rec.Synopsis != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, rec.Synopsis)
	}
	fmt.Fprintln(w)
	if len(rec.Episodes) == 0 {
		fmt.Fprintln(w, faintStyle.Render("No episodes listed."))
		return
	}
	for i, ep := range rec.Episodes {
		title := strings.TrimSpace(ep.Title)
		if title == "" {
			title = fmt.Sprintf("Episode %d", i+1)
		}
		fmt.Fprintf(w, "%3d. %s\n     %s\n", i+1, title, ep.EmbedURL)
	}
}

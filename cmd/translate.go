package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tontonin/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [text...]",
	Short: "Translate text through the cache (reads lines from stdin without arguments)",
	Example: `  tontonin translate --lang id "The last train home"
  printf 'one\ntwo\n' | tontonin translate -l ja`,
	RunE: translateRun,
}

func translateRun(cmd *cobra.Command, args []string) error {
	if !translate.NeedsTranslation(cfg.Translate.Target) {
		return fmt.Errorf("target language is %q; pass --lang", cfg.Translate.Target)
	}

	var texts []string
	if len(args) > 0 {
		texts = []string{joinArgs(args)}
	} else {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			texts = append(texts, sc.Text())
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	out := a.translator.TranslateBatch(ctx, texts, cfg.Translate.Target)
	if flagJSON {
		return printJSON(map[string]any{"lang": cfg.Translate.Target, "translations": out})
	}
	for _, line := range out {
		fmt.Println(line)
	}
	return nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// Package historycmder provides the history command for listing recorded
// translations and naming suggestions.
package historycmder

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/aitranslate/cmd/aitranslate/setup"
	"github.com/papercomputeco/aitranslate/pkg/cliui"
	"github.com/papercomputeco/aitranslate/pkg/config"
	"github.com/papercomputeco/aitranslate/pkg/dotdir"
	"github.com/papercomputeco/aitranslate/pkg/history"
	"github.com/papercomputeco/aitranslate/pkg/history/sqlite"
	"github.com/papercomputeco/aitranslate/pkg/utils"
)

const historyLongDesc string = `List recorded translations and naming suggestions.

Records are written by 'aitranslate serve' when history is enabled and
read from the SQLite database in the .aitranslate/ directory, or the path
given by --sqlite or history.sqlite_path.

Examples:
  aitranslate history
  aitranslate history --limit 5
  aitranslate history --sqlite ./history.db`

const historyShortDesc string = "List recorded translations"

const previewLen = 60

type historyCommander struct {
	limit      int
	sqlitePath string
}

func NewHistoryCmd() *cobra.Command {
	cmder := &historyCommander{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: historyShortDesc,
		Long:  historyLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd.OutOrStdout(), setup.ConfigDir(cmd))
		},
	}

	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", 20, "Maximum number of records to show (0 for all)")
	cmd.Flags().StringVarP(&cmder.sqlitePath, "sqlite", "s", "", "Path to the history SQLite database")

	return cmd
}

func (c *historyCommander) run(ctx context.Context, w io.Writer, configDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	path, err := c.resolvePath(configDir)
	if err != nil {
		return err
	}

	driver, err := sqlite.NewDriver(path)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer driver.Close()

	records, err := driver.List(ctx, c.limit)
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}

	printRecords(w, records)
	return nil
}

func (c *historyCommander) resolvePath(configDir string) (string, error) {
	if c.sqlitePath != "" {
		return c.sqlitePath, nil
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return "", fmt.Errorf("loading config: %w", err)
	}
	cfg, err := cfger.LoadConfig()
	if err != nil {
		return "", err
	}
	if cfg.History.SQLitePath != "" {
		return cfg.History.SQLitePath, nil
	}

	return dotdir.NewManager().HistoryDBPath(configDir)
}

func printRecords(w io.Writer, records []*history.Record) {
	if len(records) == 0 {
		fmt.Fprintf(w, "\n  %s No recorded history.\n\n", cliui.DimStyle.Render("●"))
		return
	}

	fmt.Fprintf(w, "\n  %s\n\n", cliui.HeaderStyle.Render(fmt.Sprintf("History (%d)", len(records))))
	for _, rec := range records {
		fmt.Fprintf(w, "  %s  %s  %s  %s\n",
			cliui.DimStyle.Render(rec.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			cliui.KeyStyle.Render(string(rec.Kind)),
			cliui.DimStyle.Render(rec.Model),
			cliui.DimStyle.Render(cliui.FormatDuration(rec.Duration)),
		)
		fmt.Fprintf(w, "    %s\n", utils.Truncate(rec.Input, previewLen))
		fmt.Fprintf(w, "    %s %s\n\n", cliui.NameStyle.Render("→"), utils.Truncate(rec.Output, previewLen))
	}
}

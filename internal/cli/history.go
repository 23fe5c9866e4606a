package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidboard/pkg/history"
)

// historyCommand creates the history command.
func (c *CLI) historyCommand() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversions",
		Long: `Show recent conversion attempts, newest first.

History is written to the sink named in the [history] config section. The
default is a local JSON-lines file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			return c.runHistory(cmd.Context(), limit, asJSON)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", history.DefaultLimit, "maximum number of entries")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")

	return cmd
}

func (c *CLI) runHistory(ctx context.Context, limit int, asJSON bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	entries, err := runner.History(ctx, limit)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(entries, "")
	}
	if len(entries) == 0 {
		printInfo("No conversions yet")
		printNextStep("Create one with", "mermaidboard convert <file> --platform miro")
		return nil
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		result := e.URL
		if e.Error != "" {
			result = oneLine(e.Error)
		}
		rows[i] = []string{
			e.CreatedAt.Local().Format(time.DateTime),
			e.Platform,
			string(e.Status),
			truncate(oneLine(e.Preview), 40),
			truncate(result, 60),
		}
	}
	fmt.Fprintln(stdout, renderTable(
		[]string{"When", "Platform", "Status", "Diagram", "Result"},
		rows,
		func(row, col int) lipgloss.Style {
			switch col {
			case 0:
				return StyleDim
			case 2:
				return statusStyle(entries[row].Status)
			case 4:
				if entries[row].URL != "" && entries[row].Error == "" {
					return StyleLink
				}
			}
			return StyleValue
		},
	))
	return nil
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

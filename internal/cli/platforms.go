package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidboard/pkg/platform"
)

// platformsCommand creates the platforms command.
func (c *CLI) platformsCommand() *cobra.Command {
	var (
		check  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "platforms",
		Short: "List supported platforms and their configuration",
		Long: `List every supported whiteboard platform and whether it has credentials.

With --check each configured platform is pinged to verify the token works.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlatforms(cmd.Context(), check, asJSON)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "verify connectivity to configured platforms")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the listing as JSON")

	return cmd
}

func (c *CLI) runPlatforms(ctx context.Context, check, asJSON bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var spinner *Spinner
	if check && !asJSON {
		spinner = newSpinnerWithContext(ctx, "Checking platforms...")
		spinner.Start()
	}
	statuses := runner.Platforms(ctx, check)
	if spinner != nil {
		spinner.Stop()
	}

	if asJSON {
		return writeJSON(statuses, "")
	}

	headers := []string{"Name", "Platform", "Configured"}
	if check {
		headers = append(headers, "Reachable")
	}
	rows := make([][]string, len(statuses))
	for i, s := range statuses {
		row := []string{s.Name, s.DisplayName, yesNo(s.Configured)}
		if check {
			row = append(row, reachability(s))
		}
		rows[i] = row
	}
	fmt.Fprintln(stdout, renderTable(headers, rows, func(row, col int) lipgloss.Style {
		s := statuses[row]
		switch {
		case col == 2 && !s.Configured:
			return StyleDim
		case col == 3 && s.Reachable != nil && !*s.Reachable:
			return StyleError
		case col == 3 && s.Reachable != nil:
			return StyleSuccess
		}
		return StyleValue
	}))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// reachability summarises a connectivity check for the table.
func reachability(s platform.Status) string {
	switch {
	case s.Reachable == nil:
		return "-"
	case *s.Reachable:
		return iconSuccess + " ok"
	case s.Error != "":
		return iconError + " " + oneLine(s.Error)
	}
	return iconError
}

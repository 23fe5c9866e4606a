package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// layoutCommand creates the layout command for inspecting computed layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		src    sourceOpts
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [file|-]",
		Short: "Compute the layered layout of a diagram",
		Long: `Compute the layout a conversion would use and write it as JSON.

The layout lists the centre and size of every node box and the routing
waypoints of every edge, in abstract layout units before any platform
scaling. Useful for debugging how a diagram will be placed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := src.validate(); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args, src, output)
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, stdout for stdin)")

	return cmd
}

// runLayout parses the diagram, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, args []string, opts sourceOpts, output string) error {
	source, input, err := c.readSource(args, opts.kind)
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, cached, err := runner.Parse(ctx, source)
	if err != nil {
		printFailure(input, err)
		return err
	}
	l, err := runner.Layout(ctx, g)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	if output == "" {
		output = defaultOutput(input, "layout.json")
	}
	if err := writeJSON(l, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	if output == "" || output == "-" {
		return nil
	}

	b := l.Bounds()
	printSuccess("Layout complete")
	printFile(output)
	printStats(g.NodeCount(), g.EdgeCount(), cached)
	printKeyValue("Layers", fmt.Sprint(l.Layers()))
	printKeyValue("Crossings", fmt.Sprint(l.Crossings()))
	printKeyValue("Back edges", fmt.Sprint(l.BackEdges()))
	printKeyValue("Extent", fmt.Sprintf("%.0f × %.0f", b.Width(), b.Height()))
	return nil
}

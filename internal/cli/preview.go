package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidboard/pkg/preview"
)

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	src      sourceOpts
	format   string
	output   string
	unpinned bool
	showIDs  bool
}

// previewCommand creates the preview command for rendering a diagram locally.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{format: preview.FormatSVG}

	cmd := &cobra.Command{
		Use:   "preview [file|-]",
		Short: "Render a local preview of a diagram",
		Long: `Render a diagram with Graphviz without touching any platform.

By default nodes are pinned to the positions a conversion would use, so the
preview shows what the board will look like. --unpinned lets Graphviz lay
the graph out on its own.

Examples:
  mermaidboard preview flow.mmd
  mermaidboard preview flow.mmd --format dot -o flow.dot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.src.validate(); err != nil {
				return err
			}
			if !slices.Contains(preview.Formats, opts.format) {
				return fmt.Errorf("invalid format: %s (must be %s)", opts.format, strings.Join(preview.Formats, " or "))
			}
			return c.runPreview(cmd.Context(), args, opts)
		},
	}

	opts.src.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.<format>, stdout for stdin)")
	cmd.Flags().BoolVar(&opts.unpinned, "unpinned", false, "let Graphviz place nodes instead of the computed layout")
	cmd.Flags().BoolVar(&opts.showIDs, "show-ids", false, "append node IDs to labels")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(preview.Formats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, args []string, opts previewOpts) error {
	logger := loggerFromContext(ctx)

	source, input, err := c.readSource(args, opts.src.kind)
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, opts.src.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	data, cached, err := runner.Preview(ctx, source, opts.format, preview.Options{
		Unpinned: opts.unpinned,
		ShowIDs:  opts.showIDs,
	})
	if err != nil {
		printFailure(input, err)
		return err
	}
	logger.Debugf("Generated %s: %d bytes", opts.format, len(data))

	output := opts.output
	if output == "" {
		output = defaultOutput(input, opts.format)
	}
	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	if output == "" || output == "-" {
		return nil
	}

	status := iconFresh
	if cached {
		status = iconCached
	}
	printSuccess("Preview rendered")
	printFile(output)
	printDetail("%s · %s", opts.format, status)
	return nil
}

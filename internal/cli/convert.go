package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/pipeline"
)

type convertOpts struct {
	src       sourceOpts
	platform  string
	boardName string
	asJSON    bool
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert [file|-]",
		Short: "Create a Mermaid diagram on a whiteboard platform",
		Long: `Create a Mermaid diagram as native shapes and connectors on a new board.

The platform needs an access token, either in the config file or in the
environment (MERMAIDBOARD_MIRO_TOKEN or MIRO_ACCESS_TOKEN for Miro). Without
--platform an interactive picker is shown when stdin is a terminal.

If the platform fails part way, the board is kept and the command reports
how many shapes and connectors were created.

Examples:
  mermaidboard convert flow.mmd --platform miro
  mermaidboard convert flow.mmd -p miro --board-name "Release flow"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.src.validate(); err != nil {
				return err
			}
			return c.runConvert(cmd.Context(), args, opts)
		},
	}

	opts.src.register(cmd)
	cmd.Flags().StringVarP(&opts.platform, "platform", "p", "", "target platform (e.g. miro)")
	cmd.Flags().StringVarP(&opts.boardName, "board-name", "n", "", "board name (default: Mermaid <Kind> - <timestamp>)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the conversion result as JSON")
	_ = cmd.RegisterFlagCompletionFunc("platform", c.completePlatforms)

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, args []string, opts convertOpts) error {
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

	name := opts.platform
	if name == "" {
		// Stdin carries the diagram, so the picker needs a file argument.
		if input == "-" || !c.isTTY() {
			return fmt.Errorf("--platform is required (one of %v)", runner.Registry.Names())
		}
		if name, err = pickPlatform(runner.Platforms(ctx, false)); err != nil {
			return err
		}
		if name == "" {
			return nil
		}
	}

	entry, err := runner.Registry.Lookup(name)
	if err != nil {
		return err
	}
	var spinner *Spinner
	if !opts.asJSON {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Creating board on %s...", entry.DisplayName))
		spinner.Start()
	}
	prog := newProgress(loggerFromContext(ctx))

	out, err := runner.Convert(ctx, pipeline.ConvertRequest{
		Code:     source.Text,
		Platform: name,
		Options:  pipeline.ConvertOptions{BoardName: opts.boardName},
	})
	if spinner != nil {
		spinner.Stop()
	}

	if opts.asJSON {
		if werr := writeJSON(out, ""); werr != nil {
			return werr
		}
		return err
	}

	switch {
	case err == nil:
		printSuccess("%s", out.Message)
		prog.done(fmt.Sprintf("Converted %s", input))
	case errors.Is(err, errors.ErrCodePartial):
		printWarning("Partial conversion to %s", entry.DisplayName)
		printDetail("%s", out.Error)
	default:
		printFailure(input, err)
		return err
	}

	printKeyValue("Shapes", fmt.Sprint(out.ShapesCreated))
	printKeyValue("Connectors", fmt.Sprint(out.ConnectorsCreated))
	if out.URL != "" {
		printLink("Board", out.URL)
	}
	return err
}

// completePlatforms completes --platform from the configured registry.
func (c *CLI) completePlatforms(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	reg, err := pipeline.BuildRegistry(cfg)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return reg.Names(), cobra.ShellCompDirectiveNoFileComp
}

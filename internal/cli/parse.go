package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/graph"
	"github.com/matzehuels/mermaidboard/pkg/pipeline"
)

// parseCommand creates the parse command.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		src    sourceOpts
		output string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a Mermaid diagram and print its graph",
		Long: `Parse a Mermaid flowchart or sequence diagram.

Without --json a summary is printed. With --json the parse result is written
in the same shape the HTTP API returns, including the line and column of a
syntax error. Reads stdin when no file is given.

Examples:
  mermaidboard parse flow.mmd
  mermaidboard parse --json -o graph.json flow.mmd
  echo "flowchart LR; A --> B" | mermaidboard parse -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := src.validate(); err != nil {
				return err
			}
			return c.runParse(cmd.Context(), args, src, output, asJSON)
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the parse result as JSON")

	return cmd
}

func (c *CLI) runParse(ctx context.Context, args []string, opts sourceOpts, output string, asJSON bool) error {
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

	if asJSON {
		var out *pipeline.ParseOutput
		if err != nil {
			out = pipeline.ParseFailure(err)
		} else {
			out = pipeline.NewParseOutput(g)
		}
		if werr := writeJSON(out, output); werr != nil {
			return werr
		}
		return err
	}

	if err != nil {
		printFailure(input, err)
		return err
	}

	if output != "" {
		f, err := openOutput(output)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := graph.Write(g, f); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
	}

	printSuccess("Parsed %s", g.Kind())
	if output != "" {
		printFile(output)
	}
	printStats(g.NodeCount(), g.EdgeCount(), cached)
	printNewline()
	printNextStep("Convert", "mermaidboard convert "+input+" --platform miro")
	return nil
}

// printFailure prints err, with its source position for parse errors.
func printFailure(input string, err error) {
	var pe *errors.ParseError
	if errors.As(err, &pe) {
		printError("%s:%d:%d: %s", input, pe.Line, pe.Column, pe.Message)
		return
	}
	printError("%s", errors.UserMessage(err))
}

func writeJSON(v any, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

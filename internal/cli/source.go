package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidboard/pkg/parser"
)

// sourceOpts are the input flags shared by commands that read a diagram.
type sourceOpts struct {
	kind    string
	noCache bool
}

func (o *sourceOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.kind, "kind", "", "expected diagram kind: flowchart, sequence (default: detect)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("kind", cobra.FixedCompletions(
		[]string{string(parser.KindFlowchart), string(parser.KindSequence)}, cobra.ShellCompDirectiveNoFileComp))
}

func (o *sourceOpts) validate() error {
	switch parser.Kind(o.kind) {
	case "", parser.KindFlowchart, parser.KindSequence:
		return nil
	}
	return fmt.Errorf("invalid --kind %q (want flowchart or sequence)", o.kind)
}

// readSource reads diagram text from path, or from stdin when path is
// empty or "-".
func (c *CLI) readSource(args []string, kind string) (parser.Source, string, error) {
	path := "-"
	if len(args) > 0 {
		path = args[0]
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(c.in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return parser.Source{}, path, fmt.Errorf("read %s: %w", path, err)
	}
	return parser.Source{Text: string(data), Kind: parser.Kind(kind)}, path, nil
}

// defaultOutput derives an output path next to the input, e.g.
// flow.mmd -> flow.svg. Stdin input has no default.
func defaultOutput(input, ext string) string {
	if input == "-" || input == "" {
		return ""
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + ext
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty or "-", it returns stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidboard/pkg/observability"
	"github.com/matzehuels/mermaidboard/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the conversion HTTP API.

Endpoints:
  POST /api/parse       parse Mermaid source into a graph
  POST /api/convert     convert to a platform board
  GET  /api/platforms   list platforms (?check=true pings them)
  GET  /api/history     recent conversions (?limit=N)
  GET  /healthz         liveness
  GET  /metrics         Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	metrics := observability.NewMetrics(nil)
	observability.SetPipelineHooks(metrics)
	observability.SetCacheHooks(metrics)
	observability.SetPlatformHooks(metrics)
	defer observability.Reset()

	logger.Info("Starting server", "addr", addr, "platforms", runner.Registry.Names())
	return server.New(runner, metrics, logger).ListenAndServe(ctx, addr)
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidboard/pkg/buildinfo"
	"github.com/matzehuels/mermaidboard/pkg/cache"
	"github.com/matzehuels/mermaidboard/pkg/config"
	"github.com/matzehuels/mermaidboard/pkg/history"
	"github.com/matzehuels/mermaidboard/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "mermaidboard"

	// redisCachePrefix namespaces cache keys in a shared Redis.
	redisCachePrefix = "mermaidboard:cache:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	in         io.Reader
	isTTY      func() bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		in:     os.Stdin,
		isTTY:  stdinIsTerminal,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Mermaidboard turns Mermaid diagrams into whiteboard boards",
		Long: `Mermaidboard parses Mermaid flowcharts and sequence diagrams, lays them out
and recreates them as native shapes and connectors on online whiteboards.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+displayPath(config.DefaultPath())+")")

	// Register all subcommands
	root.AddCommand(c.parseCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.platformsCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// newRunner creates a pipeline runner for CLI use from the loaded config.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	reg, err := pipeline.BuildRegistry(cfg)
	if err != nil {
		return nil, err
	}
	cc, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	sink, err := history.Open(ctx, cfg.History)
	if err != nil {
		cc.Close()
		return nil, fmt.Errorf("open history: %w", err)
	}
	return pipeline.NewRunner(reg, cc, nil, sink, loggerFromContext(ctx)), nil
}

func newCache(ctx context.Context, cfg config.Cache, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Backend == config.CacheNull {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == config.CacheRedis {
		rc, err := cache.NewRedisCache(ctx, cfg.URL, redisCachePrefix)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}

	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/mermaidboard/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// displayPath shortens paths under the home directory to ~/...
func displayPath(path string) string {
	if path == "" {
		return "none"
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if rest, ok := strings.CutPrefix(path, home+string(filepath.Separator)); ok {
		return filepath.Join("~", rest)
	}
	return path
}

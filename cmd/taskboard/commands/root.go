// Package commands implements the taskboard CLI commands using cobra.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcus/taskboard/internal/categories"
	"github.com/marcus/taskboard/internal/config"
	"github.com/marcus/taskboard/internal/logging"
	"github.com/marcus/taskboard/internal/seed"
	"github.com/marcus/taskboard/internal/tasks"
)

var (
	// Version is set at build time
	Version = "0.1.0"
)

// cfg is loaded once per invocation by the root command.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "Sort, search and schedule a board of tasks",
	Long: `Taskboard keeps a board of tasks with categories, importance levels
and deadlines. List them in any order, search across fields, and work
through the scheduled queue from the command line or the terminal UI.

Tasks come from a YAML seed file (see 'taskboard seed show'); configure it
in taskboard.yaml or ~/.config/taskboard/config.yaml.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config-dir", "", "Directory holding taskboard.yaml (default: current directory)")
	rootCmd.PersistentFlags().String("seed", "", "Seed file to load instead of the configured one")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}

// loadRuntime reads configuration and initialises logging.
func loadRuntime(cmd *cobra.Command, _ []string) error {
	configDir, _ := cmd.Flags().GetString("config-dir")
	seedPath, _ := cmd.Flags().GetString("seed")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if configDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		configDir = cwd
	}

	loaded, err := config.LoadFromPaths(configDir, config.GlobalConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if seedPath != "" {
		loaded.Seed.Path = seedPath
	}
	if verbose {
		loaded.Logging.Level = "debug"
	}

	if err := logging.Init(loaded.LoggingOptions()); err != nil {
		return fmt.Errorf("initialising logging: %w", err)
	}
	cfg = loaded
	return nil
}

// board is the service built for one command, plus what it was built from.
type board struct {
	svc      *tasks.Service
	provider categories.Provider
	closer   io.Closer
	data     seed.Data
	loc      *time.Location
}

func (b *board) Close() error {
	if b == nil || b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// openBoard opens the category store and loads the seed data into a new
// service.
func openBoard(ctx context.Context) (*board, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	data, err := loadSeed(cfg)
	if err != nil {
		return nil, err
	}

	provider, closer, err := categories.Open(ctx, cfg.Categories)
	if err != nil {
		return nil, err
	}

	loc := cfg.Location()
	svc, err := buildService(ctx, provider, data, loc)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	return &board{svc: svc, provider: provider, closer: closer, data: data, loc: loc}, nil
}

func buildService(ctx context.Context, provider categories.Provider, data seed.Data, loc *time.Location) (*tasks.Service, error) {
	svc := tasks.NewService(provider,
		tasks.WithLogger(logging.Component("search")),
		tasks.WithTrace(cfg.Search.Trace),
	)
	if err := seed.Apply(ctx, provider, svc, data, nowFunc().In(loc)); err != nil {
		return nil, fmt.Errorf("applying seed: %w", err)
	}
	return svc, nil
}

func loadSeed(c *config.Config) (seed.Data, error) {
	path := c.SeedPath()
	if path == "" {
		return seed.Default(), nil
	}
	return seed.Load(path)
}

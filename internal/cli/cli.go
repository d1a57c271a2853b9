// Package cli implements the cosmicscale command-line interface.
//
// # Commands
//
//   - evaluate: resolve visibility and focus at one exponent
//   - explore: interactive terminal zoom
//   - view: desktop window zoom (when the binary includes a viewer)
//   - ladder: render the scale ladder diagram
//   - catalog: list and validate object catalogs
//   - serve: HTTP API plus offline asset mirror
//   - mirror: install or activate the asset mirror once
//   - cache: manage the file-backed mirror cache
//   - config: show the effective configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. In verbose
// mode the CLI also registers observability hooks that log every
// evaluation, cache access, and upstream request.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cosmicscale/pkg/buildinfo"
	"github.com/matzehuels/cosmicscale/pkg/cache"
	"github.com/matzehuels/cosmicscale/pkg/catalog"
	"github.com/matzehuels/cosmicscale/pkg/config"
	"github.com/matzehuels/cosmicscale/pkg/core/scale"
	errs "github.com/matzehuels/cosmicscale/pkg/errors"
	"github.com/matzehuels/cosmicscale/pkg/httputil"
	"github.com/matzehuels/cosmicscale/pkg/mirror"
	"github.com/matzehuels/cosmicscale/pkg/viewer"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// ViewerFunc opens an interactive viewer and blocks until it is closed.
type ViewerFunc func(ctx context.Context, frame *scale.Frame, opts viewer.Options) error

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Viewer backs the view command. Builds without a display leave it nil.
	Viewer ViewerFunc

	configPath  string
	catalogPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Cosmicscale zooms from protons to the observable universe",
		Long: `Cosmicscale resolves which objects are visible at a given scale, from a
proton (10^-15 m) to the observable universe (10^26.5 m), and keeps the web
visualization available offline through a caching asset mirror.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.Logger.GetLevel() <= log.DebugLevel {
				registerLogHooks(c.Logger)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cosmicscale/config.toml)")
	root.PersistentFlags().StringVar(&c.catalogPath, "catalog", "", "object catalog file (.toml, .yaml); default is the built-in tour")

	// Register all subcommands
	root.AddCommand(c.evaluateCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.ladderCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.mirrorCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Loaders
// =============================================================================

// loadConfig reads the --config file, or the default location.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("config loaded", "path", c.configPath, "backend", cfg.Mirror.Backend)
	return cfg, nil
}

// loadObjects reads the --catalog file, or the built-in catalog.
func (c *CLI) loadObjects() ([]catalog.Object, error) {
	if c.catalogPath == "" {
		return catalog.Default(), nil
	}
	objs, err := catalog.Load(c.catalogPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("catalog loaded", "path", c.catalogPath, "objects", len(objs))
	return objs, nil
}

// engine bundles what every scale command needs.
type engine struct {
	cfg      *config.Config
	resolver *scale.Resolver
	registry *scale.Registry
}

func (c *CLI) loadEngine() (*engine, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	objs, err := c.loadObjects()
	if err != nil {
		return nil, err
	}
	reg, err := catalog.Build(objs)
	if err != nil {
		return nil, err
	}
	res, err := scale.NewResolver(cfg.Resolver)
	if err != nil {
		return nil, err
	}
	return &engine{cfg: cfg, resolver: res, registry: reg}, nil
}

func (e *engine) zoom() viewer.Zoom {
	return viewer.Zoom{Speed: e.cfg.Viewer.ZoomSpeed, Min: e.cfg.Viewer.Min, Max: e.cfg.Viewer.Max}
}

// =============================================================================
// Mirror Factory
// =============================================================================

// newMirrorCache opens the backend selected in the config.
func (c *CLI) newMirrorCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	m := cfg.Mirror
	switch m.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, m.Redis)
	case config.BackendMongo:
		return cache.NewMongoCache(ctx, m.Mongo)
	default:
		dir, err := mirrorDir(cfg)
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	}
}

// newMirror wires a Mirror from the config. The caller closes the cache.
func (c *CLI) newMirror(ctx context.Context, cfg *config.Config) (*mirror.Mirror, cache.Cache, error) {
	store, err := c.newMirrorCache(ctx, cfg)
	if err != nil {
		return nil, nil, errs.Wrap(errs.ErrCodeNetwork, err, "open %s cache", cfg.Mirror.Backend)
	}

	fetcher, err := httputil.NewFetcher(cfg.Mirror.Origin, httputil.FetcherOptions{Timeout: cfg.Mirror.FetchTimeout})
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if cfg.Mirror.Scope != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.Mirror.Scope)
	}

	mr, err := mirror.New(cfg.Mirror.Manifest(), store, fetcher, mirror.Options{
		Logger:   c.Logger,
		Keyer:    keyer,
		TTL:      cfg.Mirror.TTL,
		Attempts: cfg.Mirror.Attempts,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return mr, store, nil
}

// =============================================================================
// Paths
// =============================================================================

// mirrorDir returns the file backend directory: the configured dir, or the
// XDG cache directory (~/.cache/cosmicscale/).
func mirrorDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Mirror.Dir != "" {
		return cfg.Mirror.Dir, nil
	}
	return config.CacheDir()
}

// stdout is where data output goes; tests swap it via cmd.SetOut.
func stdout(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stdout
	}
	return cmd.OutOrStdout()
}

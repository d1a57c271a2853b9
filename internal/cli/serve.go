package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/cosmicscale/pkg/errors"
	"github.com/matzehuels/cosmicscale/pkg/mirror"
	"github.com/matzehuels/cosmicscale/pkg/server"
)

// serveOpts holds options for the serve command.
type serveOpts struct {
	addr      string
	noMirror  bool
	noInstall bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scale API and the offline asset mirror",
		Long: `Serve the JSON API (/healthz, /api/catalog, /api/evaluate) and mirror every
other GET request through the asset cache.

On startup the mirror installs the manifest assets for the configured
version and then evicts entries cached for any other version. Requests
are answered from the cache first, then from the upstream origin; when the
origin is unreachable a stale cached copy is served if one exists.`,
		Example: `  cosmicscale serve
  cosmicscale serve --addr :9000 --no-install`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&opts.noMirror, "no-mirror", false, "serve only the API")
	cmd.Flags().BoolVar(&opts.noInstall, "no-install", false, "skip the startup install and activate")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	eng, err := c.loadEngine()
	if err != nil {
		return err
	}

	srvOpts := server.Options{
		Logger:   c.Logger,
		Resolver: eng.resolver,
		Registry: eng.registry,
	}

	if !opts.noMirror {
		mr, store, err := c.newMirror(ctx, eng.cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if !opts.noInstall {
			if err := c.installAndActivate(ctx, mr); err != nil {
				return err
			}
		}
		srvOpts.Mirror = mr
	}

	srv, err := server.New(srvOpts)
	if err != nil {
		return err
	}

	addr := eng.cfg.Server.Addr
	if opts.addr != "" {
		addr = opts.addr
	}
	printInfo("Serving on %s", StyleLink.Render(displayURL(addr)))
	return srv.ListenAndServe(ctx, addr, eng.cfg.Server.ReadTimeout, eng.cfg.Server.WriteTimeout)
}

// installAndActivate runs the mirror's install then activate step. Asset
// failures are reported but do not stop the server; an unsupported
// backend skips eviction.
func (c *CLI) installAndActivate(ctx context.Context, mr *mirror.Mirror) error {
	report, err := c.runInstall(ctx, mr)
	if err != nil {
		return err
	}
	if len(report.Failed) > 0 {
		printWarning("%d of %d assets not cached", len(report.Failed), len(mr.Manifest().Assets))
	}

	evicted, err := mr.Activate(ctx)
	switch {
	case errs.Is(err, errs.ErrCodeUnsupported):
		c.Logger.Warn("cache backend cannot list keys, old versions kept", "err", err)
	case err != nil:
		return fmt.Errorf("activate: %w", err)
	case evicted > 0:
		printDetail("Evicted %d entries from other versions", evicted)
	}
	return nil
}

// runInstall installs the manifest behind a spinner.
func (c *CLI) runInstall(ctx context.Context, mr *mirror.Mirror) (*mirror.InstallReport, error) {
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Installing %s...", mr.Version()))
	spinner.Start()

	report, err := mr.Install(ctx)
	if err != nil {
		spinner.StopWithError("Install interrupted")
		return nil, err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Cached %d assets for %s", len(report.Cached), mr.Version()))
	return report, nil
}

// displayURL turns a listen address into a clickable URL.
func displayURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

// =============================================================================
// Mirror Commands
// =============================================================================

// mirrorCommand creates the mirror command group.
func (c *CLI) mirrorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Maintain the offline asset mirror",
	}

	cmd.AddCommand(c.mirrorInstallCommand())
	cmd.AddCommand(c.mirrorActivateCommand())
	cmd.AddCommand(c.mirrorStatusCommand())

	return cmd
}

// mirrorInstallCommand creates the "mirror install" subcommand.
func (c *CLI) mirrorInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Fetch and cache every manifest asset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMirror(cmd.Context(), func(ctx context.Context, mr *mirror.Mirror) error {
				report, err := c.runInstall(ctx, mr)
				if err != nil {
					return err
				}
				for _, f := range report.Failed {
					printError("%s: %v", f.Asset, f.Err)
				}
				if len(report.Failed) > 0 {
					return errs.New(errs.ErrCodeNetwork, "%d of %d assets failed", len(report.Failed), len(mr.Manifest().Assets))
				}
				return nil
			})
		},
	}
}

// mirrorActivateCommand creates the "mirror activate" subcommand.
func (c *CLI) mirrorActivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "activate",
		Short: "Evict assets cached for other versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMirror(cmd.Context(), func(ctx context.Context, mr *mirror.Mirror) error {
				evicted, err := mr.Activate(ctx)
				if err != nil {
					return err
				}
				printSuccess("Activated %s", mr.Version())
				printDetail("Evicted %d entries", evicted)
				return nil
			})
		},
	}
}

// mirrorStatusCommand creates the "mirror status" subcommand.
func (c *CLI) mirrorStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which manifest assets are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMirror(cmd.Context(), func(ctx context.Context, mr *mirror.Mirror) error {
				printKeyValue("Version", mr.Version())
				cached := 0
				for _, asset := range mr.Manifest().Assets {
					_, ok, err := mr.Lookup(ctx, asset)
					if err != nil {
						return err
					}
					if ok {
						cached++
						printSuccess("%s", asset)
					} else {
						printWarning("%s", asset)
					}
				}
				printKeyValue("Cached", fmt.Sprintf("%d/%d", cached, len(mr.Manifest().Assets)))
				if cached < len(mr.Manifest().Assets) {
					printNextStep("Fetch missing assets", appName+" mirror install")
				}
				return nil
			})
		},
	}
}

// withMirror loads the config, opens the mirror and closes its cache after fn.
func (c *CLI) withMirror(ctx context.Context, fn func(context.Context, *mirror.Mirror) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	mr, store, err := c.newMirror(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, mr)
}

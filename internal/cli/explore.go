package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cosmicscale/pkg/core/scale"
	errs "github.com/matzehuels/cosmicscale/pkg/errors"
	"github.com/matzehuels/cosmicscale/pkg/viewer"
)

// zoomOpts holds the start options shared by explore and view.
type zoomOpts struct {
	start float64
}

func (o *zoomOpts) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&o.start, "start", "s", 0, "starting exponent (default from config)")
}

// resolve returns the start exponent, preferring the flag over the config.
func (o *zoomOpts) resolve(cmd *cobra.Command, eng *engine) float64 {
	if cmd.Flags().Changed("start") {
		return o.start
	}
	return eng.cfg.Viewer.Start
}

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	opts := &zoomOpts{}

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Zoom through the scales in the terminal",
		Long: `Zoom through the scales interactively in the terminal.

←/→ change the exponent by the zoom speed, shift multiplies the step by ten,
home/end jump to the ends of the range and the mouse wheel zooms too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := c.loadEngine()
			if err != nil {
				return err
			}
			zoom := eng.zoom()
			if err := zoom.Validate(); err != nil {
				return err
			}

			frame := scale.NewFrame(eng.resolver, eng.registry)
			model, err := NewExploreModel(cmd.Context(), frame, zoom, opts.resolve(cmd, eng))
			if err != nil {
				return err
			}

			p := tea.NewProgram(model,
				tea.WithContext(cmd.Context()),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("explore: %w", err)
			}
			if m, ok := final.(ExploreModel); ok {
				c.Logger.Debug("explore finished", "current", m.Current(), "skipped", frame.Skipped())
			}
			return nil
		},
	}

	opts.register(cmd)

	return cmd
}

// viewCommand creates the view command.
func (c *CLI) viewCommand() *cobra.Command {
	opts := &zoomOpts{}
	var width, height int

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Zoom through the scales in a desktop window",
		Long: `Open a window that draws every visible object at its scale.

The mouse wheel and ←/→ zoom, shift multiplies the step by ten, home/end
jump to the ends of the range. Close the window or press Esc to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Viewer == nil {
				return errs.New(errs.ErrCodeUnsupported, "this build has no desktop viewer")
			}

			eng, err := c.loadEngine()
			if err != nil {
				return err
			}

			vo := viewer.Options{
				Title:  "Cosmic Scale",
				Width:  eng.cfg.Viewer.Width,
				Height: eng.cfg.Viewer.Height,
				Start:  opts.resolve(cmd, eng),
				Zoom:   eng.zoom(),
				Logger: c.Logger,
			}
			if cmd.Flags().Changed("width") {
				vo.Width = width
			}
			if cmd.Flags().Changed("height") {
				vo.Height = height
			}
			if err := vo.Zoom.Validate(); err != nil {
				return err
			}

			c.Logger.Debug("opening viewer", "width", vo.Width, "height", vo.Height, "start", vo.Start)
			return c.Viewer(cmd.Context(), scale.NewFrame(eng.resolver, eng.registry), vo)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVar(&width, "width", 0, "window width (default from config)")
	cmd.Flags().IntVar(&height, "height", 0, "window height (default from config)")

	return cmd
}

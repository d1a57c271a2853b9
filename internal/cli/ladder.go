package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/cosmicscale/pkg/errors"
	"github.com/matzehuels/cosmicscale/pkg/render"
	"github.com/matzehuels/cosmicscale/pkg/render/ladder"
)

// ladderOpts holds options for the ladder command.
type ladderOpts struct {
	output   string
	detailed bool
	colors   bool
	scale    float64
}

// ladderCommand creates the ladder command.
func (c *CLI) ladderCommand() *cobra.Command {
	opts := ladderOpts{}

	cmd := &cobra.Command{
		Use:   "ladder [exponent]",
		Short: "Render the scale ladder as a diagram",
		Long: `Render every catalog entity as a left-to-right chain ordered by size.

Edges are labelled with the decades between neighbours, the active entity is
highlighted and entities outside the visibility band are dashed. The output
format follows the file extension: .svg, .dot, .pdf or .png (pdf and png
need rsvg-convert).`,
		Example: `  cosmicscale ladder -o ladder.svg
  cosmicscale ladder 7 -o earth.png --detailed --colors`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLadder(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "ladder.svg", "output file (.svg, .dot, .pdf, .png)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add scale factor and distance to labels")
	cmd.Flags().BoolVar(&opts.colors, "colors", false, "outline nodes with catalog colors")
	cmd.Flags().Float64Var(&opts.scale, "png-scale", 2, "PNG resolution multiplier")

	return cmd
}

func (c *CLI) runLadder(cmd *cobra.Command, args []string, opts ladderOpts) error {
	format, err := formatFromPath(opts.output)
	if err != nil {
		return err
	}

	eng, err := c.loadEngine()
	if err != nil {
		return err
	}

	current := eng.cfg.Viewer.Start
	if len(args) == 1 {
		if current, err = parseExponent(args[0]); err != nil {
			return err
		}
	}

	res, err := eng.resolver.EvaluateRegistry(current, eng.registry)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	prog := newProgress(c.Logger)
	dot := ladder.ToDOT(res, ladder.Options{Detailed: opts.detailed, Colors: opts.colors})

	data, err := renderLadder(cmd.Context(), dot, format, opts.scale)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}

	prog.done(fmt.Sprintf("Rendered %d entities", len(res.States)))
	printSuccess("Ladder at %s", StyleNumber.Render(fmt.Sprintf("10^%g m", current)))
	printFile(opts.output)
	return nil
}

// renderLadder produces the requested format from DOT source.
func renderLadder(ctx context.Context, dot, format string, pngScale float64) ([]byte, error) {
	if format == render.FormatDOT {
		return []byte(dot), nil
	}

	spinner := newSpinnerWithContext(ctx, "Rendering ladder...")
	spinner.Start()
	defer spinner.Stop()

	svg, err := ladder.RenderSVG(ctx, dot)
	if err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}

	switch format {
	case render.FormatPDF:
		return render.ToPDF(ctx, svg)
	case render.FormatPNG:
		return render.ToPNG(ctx, svg, pngScale)
	default:
		return svg, nil
	}
}

// formatFromPath maps an output file extension to a render format.
func formatFromPath(path string) (string, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !render.ValidFormats[format] {
		return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported output extension %q (want .svg, .dot, .pdf or .png)", filepath.Ext(path))
	}
	return format, nil
}

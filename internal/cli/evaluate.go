package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/cosmicscale/pkg/errors"
	"github.com/matzehuels/cosmicscale/pkg/hud"
)

// evaluateOpts holds options for the evaluate command.
type evaluateOpts struct {
	json    bool
	visible bool
}

// evaluateCommand creates the evaluate command.
func (c *CLI) evaluateCommand() *cobra.Command {
	opts := evaluateOpts{}

	cmd := &cobra.Command{
		Use:   "evaluate [exponent]",
		Short: "Show visibility and focus at one scale",
		Long: `Evaluate every catalog entity at a scale of 10^exponent meters.

Prints each entity's scale factor, visibility and log-distance, plus the
readout and label the visualization would show. Without an exponent the
configured viewer start is used.`,
		Example: `  cosmicscale evaluate 0
  cosmicscale evaluate -- -10
  cosmicscale evaluate 7.1 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEvaluate(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.visible, "visible", false, "only list visible entities")

	return cmd
}

func (c *CLI) runEvaluate(cmd *cobra.Command, args []string, opts evaluateOpts) error {
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
	c.Logger.Debug("evaluated", "current", current, "visible", res.VisibleCount())

	out := stdout(cmd)
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(hud.NewReport(res))
	}

	fmt.Fprintln(out, renderHUD(res))
	fmt.Fprintln(out, stateTable(res, opts.visible))
	return nil
}

// parseExponent parses a command-line exponent. It rejects non-finite values
// with the same INVALID_INPUT error the resolver uses.
func parseExponent(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidInput, "exponent %q is not a number", s)
	}
	if err := errs.ValidateCurrentExponent(v); err != nil {
		return 0, err
	}
	return v, nil
}

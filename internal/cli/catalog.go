package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cosmicscale/pkg/catalog"
	errs "github.com/matzehuels/cosmicscale/pkg/errors"
)

// catalogCommand creates the catalog command group.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List and validate object catalogs",
	}

	cmd.AddCommand(c.catalogListCommand())
	cmd.AddCommand(c.catalogValidateCommand())

	return cmd
}

// catalogListCommand creates the "catalog list" subcommand.
func (c *CLI) catalogListCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the objects in the active catalog",
		Long: `List the objects in the active catalog (--catalog, or the built-in tour).

With --format the catalog is written as toml or yaml instead, which is a
convenient starting point for a custom catalog.`,
		Example: `  cosmicscale catalog list
  cosmicscale catalog list --format yaml > my-tour.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			objs, err := c.loadObjects()
			if err != nil {
				return err
			}

			out := stdout(cmd)
			if format != "" {
				data, err := catalog.Encode(objs, format)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			fmt.Fprintln(out, objectTable(objs))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "dump the catalog as toml or yaml")

	return cmd
}

// catalogValidateCommand creates the "catalog validate" subcommand.
func (c *CLI) catalogValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a catalog file",
		Long: `Check that a catalog file decodes and that every object has a name, a
finite exponent, a known kind and a valid color. Without a file the
--catalog flag is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.catalogPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errs.New(errs.ErrCodeInvalidInput, "no catalog file given")
			}

			objs, err := catalog.Load(path)
			if err != nil {
				return err
			}
			if _, err := catalog.Build(objs); err != nil {
				return err
			}

			printSuccess("%s: %d objects", path, len(objs))
			return nil
		},
	}
}

// objectTable renders catalog entries in file order.
func objectTable(objs []catalog.Object) string {
	rows := make([][]string, 0, len(objs))
	for _, o := range objs {
		kind := string(o.Kind)
		if kind == "" {
			kind = "—"
		}
		rows = append(rows, []string{
			o.Name,
			strconv.FormatFloat(o.Exponent, 'g', -1, 64),
			kind,
			o.Color,
			o.Description,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Exponent", "Kind", "Color", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 4 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/colourpeek/internal/colour"
	"github.com/jmylchreest/colourpeek/internal/service"
)

// newListCmd represents the list command.
func (a *app) newListCmd() *cobra.Command {
	var (
		withPalettes bool
		workers      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the objects in a texture pack",
		Long: `List the objects in a texture pack, one name per line.

With --palettes, every object's palette is computed (or read from the cache)
and shown in a table with its average colour and cluster swatches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := a.openSource()
			if err != nil {
				return err
			}
			svc, done, err := a.newService(src)
			if err != nil {
				return err
			}
			defer done()

			names, err := svc.Objects(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.Debug("listed objects", "count", len(names))

			out := cmd.OutOrStdout()
			if !withPalettes {
				for _, name := range names {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			colourise := a.colourise(cmd)
			palettes := svc.Palettes(cmd.Context(), names, workers)
			table := NewTable("OBJECT", "AVERAGE", "PIXELS", "CLUSTERS")
			for _, name := range names {
				p := palettes[name]
				if p == nil {
					table.AddRow(name, "-", "0", "")
					continue
				}
				table.AddRow(name, colour.Swatch(p.Average, colourise), strconv.Itoa(p.Total), clusterSwatches(p, colourise))
			}
			fmt.Fprint(out, table.Render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&withPalettes, "palettes", false, "compute and show each object's palette")
	cmd.Flags().IntVarP(&workers, "workers", "w", service.DefaultWorkers, "objects processed concurrently")
	return cmd
}

// clusterSwatches renders the distinct clusters of p on one line.
func clusterSwatches(p *colour.Palette, colourise bool) string {
	if !p.HasDistinctClusters() {
		return ""
	}
	var s string
	for i, c := range p.Clusters {
		if i > 0 {
			s += " "
		}
		if colourise {
			s += colour.ColourPreview(c.RGB, 2)
		} else {
			s += c.RGB.Hex()
		}
	}
	return s
}

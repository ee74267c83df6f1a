package cli

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/colourpeek/internal/service"
)

// newObjectCmd represents the object command.
func (a *app) newObjectCmd() *cobra.Command {
	var (
		format  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "object <name>...",
		Short: "Show the palette of objects in a texture pack",
		Long: `Show the palette of one or more objects in a texture pack. An object's
sprites are the images named <name>.<ext> or <name>_<face>.<ext>, for example
oak_log.png and oak_log_top.png.

Palettes are cached by object content and settings, so repeated queries for
an unchanged object are answered without decoding any image.

Examples:
  colourpeek object --pack ./pack stone
  colourpeek object --pack pack.zip oak_log birch_log --format yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(format); err != nil {
				return err
			}

			src, err := a.openSource()
			if err != nil {
				return err
			}
			svc, done, err := a.newService(src)
			if err != nil {
				return err
			}
			defer done()

			palettes := svc.Palettes(cmd.Context(), args, workers)
			return writePalettes(cmd.OutOrStdout(), args, palettes, format, a.colourise(cmd))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format (text, hex, json, yaml)")
	cmd.Flags().IntVarP(&workers, "workers", "w", service.DefaultWorkers, "objects processed concurrently")
	return cmd
}

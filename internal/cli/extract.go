package cli

import (
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/colourpeek/internal/pixels"
	"github.com/jmylchreest/colourpeek/internal/service"
)

// newExtractCmd represents the extract command.
func (a *app) newExtractCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "extract <image>...",
		Short: "Extract a palette from the visible pixels of images",
		Long: `Extract a palette from one or more images treated as the sprites of a
single object. Fully transparent pixels are ignored; every other pixel counts
as opaque.

Supported image formats: PNG, JPEG, GIF, WebP, AVIF. HTTPS URLs are accepted.

Examples:
  # Palette of a single texture
  colourpeek extract stone.png

  # Palette of an object made of several sprites
  colourpeek extract oak_log.png oak_log_top.png

  # Up to 8 clusters as JSON
  colourpeek extract -c 8 --format json wool.png

  # Farthest-point algorithm with a fixed seed
  colourpeek extract -a farthest --seed 7 ore.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(format); err != nil {
				return err
			}

			loader := pixels.NewSmartLoader()
			imgs := make([]image.Image, 0, len(args))
			for _, path := range args {
				a.logger.Debug("loading image", "path", path)
				img, err := loader.LoadContext(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("failed to load image: %w", err)
				}
				b := img.Bounds()
				a.logger.Debug("image loaded", "path", path, "width", b.Dx(), "height", b.Dy())
				imgs = append(imgs, img)
			}

			svc, err := service.New(nil, a.cfg, service.WithLogger(a.logger))
			if err != nil {
				return err
			}
			p := svc.FromImages(imgs...)
			if p != nil {
				a.logger.Debug("extracted palette", "clusters", p.Len(), "total", p.Total,
					"discarded", p.Discarded, "refined", p.Refined, "iterations", p.Iterations)
			}

			if output == "" {
				return writePalette(cmd.OutOrStdout(), p, format, a.colourise(cmd))
			}

			f, err := os.Create(output) // #nosec G304 - user-specified output path
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			if err := writePalette(f, p, format, false); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			a.logger.Debug("wrote palette", "path", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format (text, hex, json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

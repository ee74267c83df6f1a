package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/colourpeek/internal/asset"
)

// newWatchCmd represents the watch command.
func (a *app) newWatchCmd() *cobra.Command {
	var (
		format string
		delay  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint object palettes as their sprites change",
		Long: `Watch a texture pack directory. Whenever a sprite is written, created,
renamed or removed, the cached palette of its object is invalidated and the
new palette is printed.

Press Ctrl+C to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validFormat(format); err != nil {
				return err
			}

			src, err := a.openSource()
			if err != nil {
				return err
			}
			dir, ok := src.(*asset.DirSource)
			if !ok {
				return fmt.Errorf("watch needs a pack directory, not an archive: %s", a.cfg.Pack)
			}

			svc, done, err := a.newService(src)
			if err != nil {
				return err
			}
			defer done()

			pw, err := newPackWatcher(dir.Root(), a.logger)
			if err != nil {
				return err
			}
			defer pw.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			colourise := a.colourise(cmd)
			a.logger.Info("watching pack", "path", dir.Root())

			return pw.Run(ctx, delay, func(names []string) {
				for _, name := range names {
					svc.Invalidate(ctx, name)
					p := svc.Palette(ctx, name)

					var err error
					switch format {
					case formatJSON, formatYAML:
						err = encode(out, newPaletteView(name, p), format)
					default:
						fmt.Fprintf(out, "%s:\n", name)
						err = writePalette(out, p, format, colourise)
					}
					if err != nil {
						a.logger.Warn("failed to write palette", "object", name, "error", err)
					}
				}
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format (text, hex, json, yaml)")
	cmd.Flags().DurationVar(&delay, "delay", 200*time.Millisecond, "quiet period before reacting to changes")
	return cmd
}

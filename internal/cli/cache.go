package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/colourpeek/internal/store"
)

// newCacheCmd represents the cache command group.
func (a *app) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the persistent palette store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every stored palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := store.Open(a.cfg.CacheDB)
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := st.Clear(cmd.Context())
			if err != nil {
				return err
			}
			if !a.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached palettes from %s\n", n, a.cfg.CacheDB)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Show the palette store location and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := store.Open(a.cfg.CacheDB)
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := st.Count(cmd.Context())
			if err != nil {
				return err
			}
			table := NewTable("STORE", "PALETTES")
			table.AddRow(a.cfg.CacheDB, fmt.Sprint(n))
			fmt.Fprint(cmd.OutOrStdout(), table.Render())
			return nil
		},
	})

	return cmd
}

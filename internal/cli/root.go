// Package cli provides the command-line interface for colourpeek.
package cli

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/jmylchreest/colourpeek/internal/asset"
	"github.com/jmylchreest/colourpeek/internal/cache"
	"github.com/jmylchreest/colourpeek/internal/config"
	"github.com/jmylchreest/colourpeek/internal/logging"
	"github.com/jmylchreest/colourpeek/internal/service"
	"github.com/jmylchreest/colourpeek/internal/store"
	"github.com/jmylchreest/colourpeek/internal/version"
)

// Colour modes for swatch previews.
const (
	colourAuto   = "auto"
	colourAlways = "always"
	colourNever  = "never"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	v          *viper.Viper
	cfgFile    string
	verbose    bool
	quiet      bool
	colourMode string

	cfg    config.Config
	logger hclog.Logger
}

// NewRootCmd builds the colourpeek command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New(), logger: hclog.NewNullLogger()}

	root := &cobra.Command{
		Use:   "colourpeek",
		Short: "Perceptual colour palettes for textured objects",
		Long: `colourpeek derives a small, stable palette from the visible pixels of a
textured object: one representative average colour and a short list of
distinct cluster colours ranked by how much of the object they cover.

Palettes are computed in CIE L*a*b* so that colours which look alike are
grouped together. Objects are read from texture packs (a directory or a
zip/tar archive); results are cached per object content.`,
		Version:           version.Short(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetVersionTemplate(version.String() + "\n")

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/colourpeek/config.yaml)")
	pf.StringVar(&a.colourMode, "colour", colourAuto, "colour swatch previews (auto, always, never)")

	d := config.Default()
	pf.StringP("algorithm", "a", d.Algorithm, "extraction algorithm (greedy, farthest)")
	pf.IntP("colours", "c", d.MaxColours, "maximum number of cluster colours (1-256)")
	pf.Float64("threshold", d.DistanceThreshold, "base perceptual distance (ΔE) separating clusters")
	pf.Float64("min-ratio", d.MinColourRatio, "minimum share of pixels a cluster needs to survive")
	pf.Int("iterations", d.Iterations, "maximum refinement passes")
	pf.Float64("epsilon", d.ConvergenceEpsilon, "refinement stops when no centroid moves further than this")
	pf.Int64("seed", d.Seed, "random seed for the farthest algorithm")
	pf.Int("max-pixels", d.MaxPixels, "pixel cap per object before sampling (0 disables)")
	pf.StringP("pack", "p", "", "texture pack directory or archive")
	pf.Int("cache-size", d.CacheSize, "palettes held in memory")
	pf.String("cache-db", d.CacheDB, "palette store location")
	pf.Bool("no-cache", false, "disable the persistent palette store")

	bindings := map[string]string{
		config.KeyAlgorithm:          "algorithm",
		config.KeyMaxColours:         "colours",
		config.KeyDistanceThreshold:  "threshold",
		config.KeyMinColourRatio:     "min-ratio",
		config.KeyIterations:         "iterations",
		config.KeyConvergenceEpsilon: "epsilon",
		config.KeySeed:               "seed",
		config.KeyMaxPixels:          "max-pixels",
		config.KeyPack:               "pack",
		config.KeyCacheSize:          "cache-size",
		config.KeyCacheDB:            "cache-db",
		config.KeyNoCache:            "no-cache",
	}
	for key, flag := range bindings {
		// Lookup cannot fail for flags registered above.
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		a.newExtractCmd(),
		a.newObjectCmd(),
		a.newListCmd(),
		a.newWatchCmd(),
		a.newCacheCmd(),
		newVersionCmd(),
	)

	return root
}

// setup resolves logging and configuration before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.logger = logging.New(a.verbose, a.quiet, cmd.ErrOrStderr())

	switch a.colourMode {
	case colourAuto, colourAlways, colourNever:
	default:
		return fmt.Errorf("invalid colour mode: %s (valid: auto, always, never)", a.colourMode)
	}

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.Debug("configuration loaded", "algorithm", cfg.Algorithm, "max_colours", cfg.MaxColours,
		"threshold", cfg.DistanceThreshold, "pack", cfg.Pack, "cache_db", cfg.CacheDB, "no_cache", cfg.NoCache)
	return nil
}

// colourise reports whether swatches should carry ANSI colour.
func (a *app) colourise(cmd *cobra.Command) bool {
	switch a.colourMode {
	case colourAlways:
		return true
	case colourNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// openSource opens the configured texture pack.
func (a *app) openSource() (asset.Source, error) {
	if a.cfg.Pack == "" {
		return nil, fmt.Errorf("no texture pack given (use --pack or set pack in the config file)")
	}
	return asset.Open(a.cfg.Pack)
}

// newService builds a palette service over src with the configured cache.
// The returned function releases the palette store.
func (a *app) newService(src asset.Source) (*service.Service, func(), error) {
	closeFn := func() {}

	var st cache.Store
	if !a.cfg.NoCache {
		s, err := store.Open(a.cfg.CacheDB)
		if err != nil {
			a.logger.Warn("palette store unavailable, caching in memory only", "path", a.cfg.CacheDB, "error", err)
		} else {
			st = s
			closeFn = func() {
				if err := s.Close(); err != nil {
					a.logger.Warn("failed to close palette store", "error", err)
				}
			}
		}
	}

	c := cache.New(a.cfg.CacheSize, st, a.logger)
	svc, err := service.New(src, a.cfg, service.WithCache(c), service.WithLogger(a.logger))
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return svc, func() {
		stats := c.Stats()
		a.logger.Debug("cache stats", "hits", stats.Hits, "store_hits", stats.StoreHits, "misses", stats.Misses)
		closeFn()
	}, nil
}

// newVersionCmd represents the version command.
func newVersionCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == formatText {
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
				return nil
			}
			return encode(cmd.OutOrStdout(), version.GetInfo(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format (text, json, yaml)")
	return cmd
}

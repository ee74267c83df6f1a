// Package config loads colourpeek settings.
//
// Settings are resolved in order: built-in defaults, the config file
// ($XDG_CONFIG_HOME/colourpeek/config.yaml unless --config is given),
// COLOURPEEK_* environment variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/jmylchreest/colourpeek/internal/cache"
	"github.com/jmylchreest/colourpeek/internal/colour"
	"github.com/jmylchreest/colourpeek/internal/pixels"
)

const (
	appName   = "colourpeek"
	envPrefix = "COLOURPEEK"
)

// Keys used in config files, environment variables and flag bindings.
const (
	KeyAlgorithm          = "algorithm"
	KeyMaxColours         = "max_colours"
	KeyDistanceThreshold  = "distance_threshold"
	KeyMinColourRatio     = "min_colour_ratio"
	KeyIterations         = "iterations"
	KeyConvergenceEpsilon = "convergence_epsilon"
	KeySeed               = "seed"
	KeyMaxPixels          = "max_pixels"
	KeyCacheSize          = "cache_size"
	KeyCacheDB            = "cache_db"
	KeyNoCache            = "no_cache"
	KeyPack               = "pack"
)

// Config holds the extractor design constants and cache settings.
type Config struct {
	// Pack is the default texture pack, a directory or archive.
	Pack string `mapstructure:"pack"`

	Algorithm          string  `mapstructure:"algorithm"`
	MaxColours         int     `mapstructure:"max_colours"`
	DistanceThreshold  float64 `mapstructure:"distance_threshold"`
	MinColourRatio     float64 `mapstructure:"min_colour_ratio"`
	Iterations         int     `mapstructure:"iterations"`
	ConvergenceEpsilon float64 `mapstructure:"convergence_epsilon"`
	Seed               int64   `mapstructure:"seed"`

	// MaxPixels caps the pixels fed to the extractor per object. Zero disables sampling.
	MaxPixels int `mapstructure:"max_pixels"`

	CacheSize int    `mapstructure:"cache_size"`
	CacheDB   string `mapstructure:"cache_db"`
	NoCache   bool   `mapstructure:"no_cache"`
}

// Default returns the built-in configuration.
func Default() Config {
	ec := colour.DefaultConfig()
	return Config{
		Algorithm:          string(ec.Algorithm),
		MaxColours:         ec.MaxColours,
		DistanceThreshold:  ec.DistanceThreshold,
		MinColourRatio:     ec.MinColourRatio,
		Iterations:         ec.Iterations,
		ConvergenceEpsilon: ec.ConvergenceEpsilon,
		Seed:               ec.Seed,
		MaxPixels:          pixels.DefaultMaxPixels,
		CacheSize:          cache.DefaultSize,
		CacheDB:            DefaultCacheDB(),
	}
}

// Extractor returns the extractor part of the configuration.
func (c Config) Extractor() colour.Config {
	return colour.Config{
		Algorithm:          colour.Algorithm(c.Algorithm),
		MaxColours:         c.MaxColours,
		DistanceThreshold:  c.DistanceThreshold,
		MinColourRatio:     c.MinColourRatio,
		Iterations:         c.Iterations,
		ConvergenceEpsilon: c.ConvergenceEpsilon,
		Seed:               c.Seed,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.Extractor().Validate(); err != nil {
		return err
	}
	if c.MaxPixels < 0 {
		return fmt.Errorf("max pixels must be >= 0, got %d", c.MaxPixels)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache size must be >= 0, got %d", c.CacheSize)
	}
	if !c.NoCache && c.CacheDB == "" {
		return fmt.Errorf("cache db path cannot be empty unless the cache is disabled")
	}
	return nil
}

// New returns a viper instance holding the defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault(KeyAlgorithm, d.Algorithm)
	v.SetDefault(KeyMaxColours, d.MaxColours)
	v.SetDefault(KeyDistanceThreshold, d.DistanceThreshold)
	v.SetDefault(KeyMinColourRatio, d.MinColourRatio)
	v.SetDefault(KeyIterations, d.Iterations)
	v.SetDefault(KeyConvergenceEpsilon, d.ConvergenceEpsilon)
	v.SetDefault(KeySeed, d.Seed)
	v.SetDefault(KeyMaxPixels, d.MaxPixels)
	v.SetDefault(KeyCacheSize, d.CacheSize)
	v.SetDefault(KeyCacheDB, d.CacheDB)
	v.SetDefault(KeyNoCache, d.NoCache)
	v.SetDefault(KeyPack, d.Pack)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file into v and decodes the result.
// An explicit file must exist; the default file is optional.
func Load(v *viper.Viper, file string) (Config, error) {
	explicit := file != ""
	if !explicit {
		file = DefaultPath()
	}

	if file != "" {
		path, err := homedir.Expand(file)
		if err != nil {
			return Config{}, fmt.Errorf("failed to expand config path: %w", err)
		}

		_, statErr := os.Stat(path)
		switch {
		case statErr == nil:
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		case explicit || !errors.Is(statErr, os.ErrNotExist):
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, statErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	for _, p := range []*string{&cfg.CacheDB, &cfg.Pack} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return Config{}, fmt.Errorf("failed to expand path %s: %w", *p, err)
		}
		*p = expanded
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultPath returns the default config file location, or "" when no home
// directory can be found.
func DefaultPath() string {
	dir := baseDir("XDG_CONFIG_HOME", ".config")
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, appName, "config.yaml")
}

// DefaultCacheDB returns the default palette store location.
func DefaultCacheDB() string {
	dir := baseDir("XDG_CACHE_HOME", ".cache")
	if dir == "" {
		return filepath.Join(os.TempDir(), appName, "palettes.db")
	}
	return filepath.Join(dir, appName, "palettes.db")
}

// baseDir resolves an XDG base directory, falling back to ~/fallback.
func baseDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, fallback)
}

// Package colour provides colour extraction and palette generation functionality.
package colour

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Extractor defines the interface for colour extraction algorithms.
type Extractor interface {
	// Extract derives a palette from a sequence of opaque pixels.
	// It returns false when there is nothing to summarise (no pixels).
	Extract(pixels []RGB) (*Palette, bool)
}

// Algorithm represents the colour extraction algorithm type.
type Algorithm string

const (
	// AlgorithmGreedy groups pixels by distance to each group's first member,
	// drops sparse groups and refines the survivors with a bounded k-means pass.
	AlgorithmGreedy Algorithm = "greedy"

	// AlgorithmFarthest seeds centroids by farthest-point selection and runs
	// plain k-means. Kept for comparison with the greedy variant.
	AlgorithmFarthest Algorithm = "farthest"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmGreedy,
		AlgorithmFarthest,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return true
		}
	}
	return false
}

// NewExtractor creates a new Extractor for the configured algorithm.
// Returns an error if the configuration is invalid.
func NewExtractor(cfg Config) (Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Algorithm {
	case AlgorithmGreedy:
		return NewGreedyExtractor(cfg), nil
	case AlgorithmFarthest:
		return NewFarthestExtractor(cfg), nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", cfg.Algorithm, ValidAlgorithms())
	}
}

// Config holds the tunable constants of colour extraction.
type Config struct {
	Algorithm Algorithm

	// MaxColours caps the number of cluster colours in a palette.
	MaxColours int

	// DistanceThreshold is the base perceptual distance in ΔE units.
	// Greedy grouping joins a group below half of it; farthest-point seeding
	// stops adding centroids below it.
	DistanceThreshold float64

	// MinColourRatio is the minimum fraction of pixels a group needs to survive.
	MinColourRatio float64

	// Iterations bounds the number of refinement passes.
	Iterations int

	// ConvergenceEpsilon is the centroid movement (ΔE) under which refinement stops.
	ConvergenceEpsilon float64

	// Seed drives the first centroid choice of the farthest-point variant.
	Seed int64
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{
		Algorithm:          AlgorithmGreedy,
		MaxColours:         5,
		DistanceThreshold:  70,
		MinColourRatio:     0.001,
		Iterations:         10,
		ConvergenceEpsilon: 1.0,
		Seed:               0,
	}
}

// Validate validates the extraction configuration.
func (c Config) Validate() error {
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("invalid algorithm: %s", c.Algorithm)
	}
	if c.MaxColours < 1 {
		return fmt.Errorf("max colours must be at least 1, got %d", c.MaxColours)
	}
	if c.MaxColours > 256 {
		return fmt.Errorf("max colours too large: %d (maximum: 256)", c.MaxColours)
	}
	if !finite(c.DistanceThreshold) || c.DistanceThreshold <= 0 {
		return fmt.Errorf("distance threshold must be a positive number, got %g", c.DistanceThreshold)
	}
	if !finite(c.MinColourRatio) || c.MinColourRatio < 0 || c.MinColourRatio >= 1 {
		return fmt.Errorf("min colour ratio must be in [0, 1), got %g", c.MinColourRatio)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("iterations cannot be negative, got %d", c.Iterations)
	}
	if !finite(c.ConvergenceEpsilon) || c.ConvergenceEpsilon < 0 {
		return fmt.Errorf("convergence epsilon must be a non-negative number, got %g", c.ConvergenceEpsilon)
	}
	return nil
}

// finite reports whether v is neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// GroupingDistance is the ΔE below which a pixel joins an existing group.
func (c Config) GroupingDistance() float64 {
	return c.DistanceThreshold / 2
}

// Fingerprint returns a stable string identifying every setting that can
// change extraction output. Used in cache keys.
func (c Config) Fingerprint() string {
	parts := []string{
		string(c.Algorithm),
		strconv.Itoa(c.MaxColours),
		strconv.FormatFloat(c.DistanceThreshold, 'g', -1, 64),
		strconv.FormatFloat(c.MinColourRatio, 'g', -1, 64),
		strconv.Itoa(c.Iterations),
		strconv.FormatFloat(c.ConvergenceEpsilon, 'g', -1, 64),
	}
	if c.Algorithm == AlgorithmFarthest {
		parts = append(parts, strconv.FormatInt(c.Seed, 10))
	}
	return strings.Join(parts, ":")
}

package colour

import (
	"math"
	"math/rand"
)

// FarthestExtractor implements colour extraction using farthest-point seeding
// and k-means clustering in Lab space.
type FarthestExtractor struct {
	cfg Config
}

// NewFarthestExtractor creates a new FarthestExtractor. The config is assumed valid.
func NewFarthestExtractor(cfg Config) *FarthestExtractor {
	return &FarthestExtractor{cfg: cfg}
}

// Extract derives a palette from opaque pixels.
// Output is deterministic for a given Seed.
func (e *FarthestExtractor) Extract(pixels []RGB) (*Palette, bool) {
	if len(pixels) == 0 {
		return nil, false
	}

	labs := toLab(pixels)
	palette := newPalette(labs)

	rng := rand.New(rand.NewSource(e.cfg.Seed)) // #nosec G404 - Reproducible seeding, not security sensitive
	centroids := e.seed(labs, rng)

	palette.Iterations = lloyd(labs, centroids, e.cfg.Iterations, e.cfg.ConvergenceEpsilon)
	palette.Refined = palette.Iterations > 0

	clusters, truncated := rank(populate(labs, centroids), e.cfg.MaxColours)
	palette.Truncated = truncated
	for i := range clusters {
		clusters[i].RGB = LabToRGB(clusters[i].Lab)
	}
	if len(clusters) > 0 {
		palette.Clusters = clusters
	}

	return palette, true
}

// seed picks a random first centroid, then repeatedly adds the pixel farthest
// from every chosen centroid until it is closer than the distance threshold
// or MaxColours centroids exist.
func (e *FarthestExtractor) seed(labs []Lab, rng *rand.Rand) []Lab {
	limit := min(e.cfg.MaxColours, len(labs))
	centroids := make([]Lab, 0, limit)
	centroids = append(centroids, labs[rng.Intn(len(labs))])

	for len(centroids) < limit {
		maxDist := 0.0
		farthest := -1

		for i, c := range labs {
			minDist := math.MaxFloat64
			for _, centroid := range centroids {
				minDist = math.Min(minDist, DeltaE(c, centroid))
			}
			if minDist > maxDist {
				maxDist = minDist
				farthest = i
			}
		}

		if farthest < 0 || maxDist < e.cfg.DistanceThreshold {
			break
		}
		centroids = append(centroids, labs[farthest])
	}

	return centroids
}

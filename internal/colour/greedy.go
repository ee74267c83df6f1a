package colour

import "math"

// GreedyExtractor implements colour extraction by one-pass greedy grouping
// followed by a bounded k-means refinement in Lab space.
type GreedyExtractor struct {
	cfg Config
}

// NewGreedyExtractor creates a new GreedyExtractor. The config is assumed valid.
func NewGreedyExtractor(cfg Config) *GreedyExtractor {
	return &GreedyExtractor{cfg: cfg}
}

// group accumulates the pixels that landed near its representative, which is
// the first member and never moves.
type group struct {
	rep     Lab
	members []int
}

// candidate is a group that survived the population floor.
type candidate struct {
	centroid Lab
	members  []int
}

// Extract derives a palette from opaque pixels.
func (e *GreedyExtractor) Extract(pixels []RGB) (*Palette, bool) {
	if len(pixels) == 0 {
		return nil, false
	}

	labs := toLab(pixels)
	palette := newPalette(labs)

	groups := groupPixels(labs, e.cfg.GroupingDistance())

	minPopulation := int(math.Floor(float64(len(labs)) * e.cfg.MinColourRatio))
	candidates := make([]candidate, 0, len(groups))
	for _, g := range groups {
		if len(g.members) < minPopulation {
			palette.Discarded += len(g.members)
			continue
		}
		candidates = append(candidates, candidate{
			centroid: centroidOf(labs, g.members),
			members:  g.members,
		})
	}

	var clusters []Cluster
	if len(candidates) > 1 && len(candidates) <= e.cfg.MaxColours {
		clusters, palette.Iterations = e.refine(labs, candidates)
		palette.Refined = palette.Iterations > 0
	} else {
		clusters = make([]Cluster, len(candidates))
		for i, c := range candidates {
			clusters[i] = Cluster{Lab: c.centroid, Population: len(c.members)}
		}
	}

	clusters, palette.Truncated = rank(clusters, e.cfg.MaxColours)
	for i := range clusters {
		clusters[i].RGB = LabToRGB(clusters[i].Lab)
	}
	if len(clusters) > 0 {
		palette.Clusters = clusters
	}

	return palette, true
}

// groupPixels assigns every pixel, in order, to the nearest group whose
// representative is closer than maxDist, opening a new group otherwise.
func groupPixels(labs []Lab, maxDist float64) []*group {
	var groups []*group
	for i, c := range labs {
		best := -1
		bestDist := math.MaxFloat64
		for j, g := range groups {
			if d := DeltaE(c, g.rep); d < bestDist {
				bestDist = d
				best = j
			}
		}
		if best >= 0 && bestDist < maxDist {
			groups[best].members = append(groups[best].members, i)
			continue
		}
		groups = append(groups, &group{rep: c, members: []int{i}})
	}
	return groups
}

// refine runs Lloyd iterations over the pixels of the surviving candidates and
// returns the non-empty clusters in candidate order with the passes run.
func (e *GreedyExtractor) refine(labs []Lab, candidates []candidate) ([]Cluster, int) {
	points := make([]Lab, 0, len(labs))
	for _, c := range candidates {
		for _, idx := range c.members {
			points = append(points, labs[idx])
		}
	}

	centroids := make([]Lab, len(candidates))
	for i, c := range candidates {
		centroids[i] = c.centroid
	}

	passes := lloyd(points, centroids, e.cfg.Iterations, e.cfg.ConvergenceEpsilon)
	return populate(points, centroids), passes
}

// lloyd moves centroids in place towards the mean of their nearest points.
// Empty centroids keep their position. It returns the passes run.
func lloyd(points, centroids []Lab, iterations int, epsilon float64) int {
	sums := make([]Lab, len(centroids))
	counts := make([]int, len(centroids))

	passes := 0
	for iter := 0; iter < iterations; iter++ {
		passes++
		clear(sums)
		clear(counts)

		for _, p := range points {
			k := nearest(p, centroids)
			sums[k].L += p.L
			sums[k].A += p.A
			sums[k].B += p.B
			counts[k]++
		}

		moved := false
		for k := range centroids {
			if counts[k] == 0 {
				continue
			}
			n := float64(counts[k])
			next := Lab{L: sums[k].L / n, A: sums[k].A / n, B: sums[k].B / n}
			if DeltaE(centroids[k], next) > epsilon {
				moved = true
			}
			centroids[k] = next
		}

		if !moved {
			break
		}
	}
	return passes
}

// populate counts the points nearest to each centroid and drops empty ones.
func populate(points, centroids []Lab) []Cluster {
	counts := make([]int, len(centroids))
	for _, p := range points {
		counts[nearest(p, centroids)]++
	}

	clusters := make([]Cluster, 0, len(centroids))
	for k, c := range centroids {
		if counts[k] == 0 {
			continue
		}
		clusters = append(clusters, Cluster{Lab: c, Population: counts[k]})
	}
	return clusters
}

// centroidOf returns the mean of the member pixels of a group.
func centroidOf(labs []Lab, members []int) Lab {
	points := make([]Lab, len(members))
	for i, idx := range members {
		points[i] = labs[idx]
	}
	return meanLab(points)
}

package colour

import (
	"fmt"
	"sort"
	"strings"
)

// Cluster is a finalised group of perceptually similar pixels.
type Cluster struct {
	RGB        RGB `json:"rgb"`
	Lab        Lab `json:"lab"`
	Population int `json:"population"`
}

// Palette is the summary of an object's visible pixels: an average colour and
// up to MaxColours cluster colours ranked by population.
//
// A single surviving cluster is still reported in Clusters; callers that only
// want to show clusters when they add information use HasDistinctClusters.
type Palette struct {
	Average    RGB       `json:"average"`
	AverageLab Lab       `json:"average_lab"`
	Clusters   []Cluster `json:"clusters,omitempty"`

	// Total is the number of pixels considered.
	Total int `json:"total"`
	// Discarded counts pixels in groups below the minimum population.
	Discarded int `json:"discarded"`
	// Truncated counts pixels in clusters cut by the MaxColours limit.
	Truncated int `json:"truncated"`

	Refined    bool `json:"refined"`
	Iterations int  `json:"iterations"`
}

// Len returns the number of cluster colours in the palette.
func (p *Palette) Len() int {
	return len(p.Clusters)
}

// HasDistinctClusters reports whether the palette has more than one cluster.
func (p *Palette) HasDistinctClusters() bool {
	return len(p.Clusters) > 1
}

// ToHex converts the cluster colours to hex strings.
func (p *Palette) ToHex() []string {
	hexColours := make([]string, len(p.Clusters))
	for i, c := range p.Clusters {
		hexColours[i] = c.RGB.Hex()
	}
	return hexColours
}

// Population returns the number of pixels represented by the clusters.
func (p *Palette) Population() int {
	total := 0
	for _, c := range p.Clusters {
		total += c.Population
	}
	return total
}

// String returns a human-readable representation of the palette.
func (p *Palette) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Average: %s (%s)\n", p.Average.Hex(), p.Average.String())
	if len(p.Clusters) == 0 {
		sb.WriteString("No clusters\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "Palette with %d clusters:\n", len(p.Clusters))
	for i, c := range p.Clusters {
		fmt.Fprintf(&sb, "  %2d: %s (%s) x%d\n", i+1, c.RGB.Hex(), c.RGB.String(), c.Population)
	}
	return sb.String()
}

// All returns an iterator over the clusters in rank order.
func (p *Palette) All() func(func(int, Cluster) bool) {
	return func(yield func(int, Cluster) bool) {
		for i, c := range p.Clusters {
			if !yield(i, c) {
				return
			}
		}
	}
}

// rank sorts clusters by population descending, keeping discovery order on
// ties, and truncates to limit. It returns the kept clusters and the number of
// pixels in the ones that were cut.
func rank(clusters []Cluster, limit int) ([]Cluster, int) {
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Population > clusters[j].Population
	})
	if len(clusters) <= limit {
		return clusters, 0
	}
	cut := 0
	for _, c := range clusters[limit:] {
		cut += c.Population
	}
	return clusters[:limit], cut
}

// newPalette fills in the average colour shared by every algorithm.
func newPalette(labs []Lab) *Palette {
	avg := meanLab(labs)
	return &Palette{
		Average:    LabToRGB(avg),
		AverageLab: avg,
		Total:      len(labs),
	}
}

func toLab(pixels []RGB) []Lab {
	labs := make([]Lab, len(pixels))
	for i, p := range pixels {
		labs[i] = RGBToLab(p)
	}
	return labs
}

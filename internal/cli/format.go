package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/colourpeek/internal/colour"
)

// Output formats.
const (
	formatText = "text"
	formatHex  = "hex"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validFormat(format string) error {
	switch format {
	case formatText, formatHex, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unsupported format: %s (supported: text, hex, json, yaml)", format)
}

// paletteView is the serialised form of a palette. An object without a
// palette has no average.
type paletteView struct {
	Object    string        `json:"object,omitempty" yaml:"object,omitempty"`
	Average   string        `json:"average,omitempty" yaml:"average,omitempty"`
	Clusters  []clusterView `json:"clusters,omitempty" yaml:"clusters,omitempty"`
	Total     int           `json:"total" yaml:"total"`
	Discarded int           `json:"discarded" yaml:"discarded"`
	Truncated int           `json:"truncated" yaml:"truncated"`
}

type clusterView struct {
	Hex        string     `json:"hex" yaml:"hex"`
	RGB        colour.RGB `json:"rgb" yaml:"rgb"`
	Population int        `json:"population" yaml:"population"`
	Share      float64    `json:"share" yaml:"share"`
}

func newPaletteView(object string, p *colour.Palette) paletteView {
	view := paletteView{Object: object}
	if p == nil {
		return view
	}

	view.Average = p.Average.Hex()
	view.Total = p.Total
	view.Discarded = p.Discarded
	view.Truncated = p.Truncated
	for _, c := range p.Clusters {
		share := 0.0
		if p.Total > 0 {
			share = float64(c.Population) / float64(p.Total)
		}
		view.Clusters = append(view.Clusters, clusterView{
			Hex:        c.RGB.Hex(),
			RGB:        c.RGB,
			Population: c.Population,
			Share:      share,
		})
	}
	return view
}

// writeText writes the swatch listing of a palette:
//
//	avg:
//	  ■ #RRGGBB
//	clusters:
//	  ■ #RRGGBB
//
// The clusters section only appears when there is more than one cluster.
func writeText(w io.Writer, p *colour.Palette, colourise bool) error {
	var b strings.Builder
	if p == nil {
		b.WriteString("no palette\n")
	} else {
		b.WriteString("avg:\n")
		fmt.Fprintf(&b, "  %s\n", colour.Swatch(p.Average, colourise))
		if p.HasDistinctClusters() {
			b.WriteString("clusters:\n")
			for _, c := range p.All() {
				fmt.Fprintf(&b, "  %s\n", colour.Swatch(c.RGB, colourise))
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeHex writes the average followed by each cluster, one hex code per line.
func writeHex(w io.Writer, p *colour.Palette) error {
	if p == nil {
		return nil
	}
	lines := append([]string{p.Average.Hex()}, p.ToHex()...)
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// encode serialises v as JSON or YAML.
func encode(w io.Writer, v any, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return nil
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to convert to YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, yaml)", format)
	}
}

// writePalettes writes one or more named palettes. Text output labels each
// palette with its object name when there is more than one.
func writePalettes(w io.Writer, names []string, palettes map[string]*colour.Palette, format string, colourise bool) error {
	switch format {
	case formatJSON, formatYAML:
		if len(names) == 1 {
			return encode(w, newPaletteView(names[0], palettes[names[0]]), format)
		}
		views := make([]paletteView, len(names))
		for i, name := range names {
			views[i] = newPaletteView(name, palettes[name])
		}
		return encode(w, views, format)
	}

	for _, name := range names {
		if len(names) > 1 {
			if _, err := fmt.Fprintf(w, "%s:\n", name); err != nil {
				return err
			}
		}
		if err := writePalette(w, palettes[name], format, colourise); err != nil {
			return err
		}
	}
	return nil
}

// writePalette writes a single unnamed palette.
func writePalette(w io.Writer, p *colour.Palette, format string, colourise bool) error {
	switch format {
	case formatText:
		return writeText(w, p, colourise)
	case formatHex:
		return writeHex(w, p)
	case formatJSON, formatYAML:
		return encode(w, newPaletteView("", p), format)
	default:
		return validFormat(format)
	}
}

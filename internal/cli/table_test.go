package cli

import (
	"strings"
	"testing"

	"github.com/jmylchreest/colourpeek/internal/colour"
)

func TestTableAddRow(t *testing.T) {
	table := NewTable("OBJECT", "AVERAGE")

	table.AddRow("stone", "#808080")
	table.AddRow("glass")
	table.AddRow("oak_log", "#6E5A3C", "extra")

	if table.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", table.Len())
	}
	for i, row := range table.rows {
		if len(row) != 2 {
			t.Errorf("row %d has %d cells, want 2", i, len(row))
		}
	}
	if table.rows[1][1] != "" {
		t.Errorf("padded cell = %q, want empty", table.rows[1][1])
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable("OBJECT", "PIXELS", "AVERAGE")
	table.AddRow("stone", "256", "#808080")
	table.AddRow("oak_log", "512", "#6E5A3C")

	want := "" +
		"OBJECT   PIXELS  AVERAGE\n" +
		"-------  ------  -------\n" +
		"stone    256     #808080\n" +
		"oak_log  512     #6E5A3C\n"
	if got := table.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestTableRenderIgnoresEscapes(t *testing.T) {
	swatch := colour.Swatch(colour.RGB{R: 200, G: 50, B: 50}, true)
	table := NewTable("AVERAGE", "OBJECT")
	table.AddRow(swatch, "brick")
	table.AddRow("-", "glass")

	lines := strings.Split(strings.TrimSuffix(table.Render(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Render() produced %d lines, want 4", len(lines))
	}

	// "■ #C83232" is 9 columns wide, so OBJECT starts at column 11.
	for _, line := range lines {
		if col := visibleWidth(line[:strings.LastIndex(line, "  ")+2]); col != 11 {
			t.Errorf("second column of %q starts at %d, want 11", line, col)
		}
	}
}

func TestTableEmpty(t *testing.T) {
	if got := NewTable().Render(); got != "" {
		t.Errorf("Render() with no headers = %q, want empty", got)
	}
}

func TestVisibleWidth(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want int
	}{
		{"plain", "stone", 5},
		{"empty", "", 0},
		{"glyph", "■ #808080", 9},
		{"coloured", colour.ColourString(colour.RGB{R: 1, G: 2, B: 3}, "■") + " #010203", 9},
		{"preview", colour.ColourPreview(colour.RGB{}, 2), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := visibleWidth(tt.s); got != tt.want {
				t.Errorf("visibleWidth(%q) = %d, want %d", tt.s, got, tt.want)
			}
		})
	}
}

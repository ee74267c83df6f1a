package colour

import (
	"encoding/json"
	"image/color"
	"reflect"
	"strings"
	"testing"
)

func TestToRGB(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		want  RGB
	}{
		{
			name:  "opaque red",
			color: color.RGBA{R: 255, G: 0, B: 0, A: 255},
			want:  RGB{R: 255, G: 0, B: 0},
		},
		{
			name:  "half transparent keeps full colour",
			color: color.NRGBA{R: 200, G: 50, B: 50, A: 128},
			want:  RGB{R: 200, G: 50, B: 50},
		},
		{
			name:  "grey",
			color: color.Gray{Y: 128},
			want:  RGB{R: 128, G: 128, B: 128},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGB(tt.color); got != tt.want {
				t.Errorf("ToRGB() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRGBHex(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		want string
	}{
		{name: "red", rgb: RGB{R: 255, G: 0, B: 0}, want: "#FF0000"},
		{name: "brick", rgb: RGB{R: 200, G: 50, B: 50}, want: "#C83232"},
		{name: "black", rgb: RGB{}, want: "#000000"},
		{name: "low blue", rgb: RGB{B: 10}, want: "#00000A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rgb.Hex(); got != tt.want {
				t.Errorf("Hex() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUint32(t *testing.T) {
	if got := (RGB{200, 50, 50}).Uint32(); got != 0xC83232 {
		t.Errorf("Uint32() = %#x, want 0xc83232", got)
	}
}

func TestPaletteHasDistinctClusters(t *testing.T) {
	tests := []struct {
		name     string
		clusters []Cluster
		want     bool
	}{
		{name: "none", clusters: nil, want: false},
		{name: "one", clusters: []Cluster{{RGB: red, Population: 4}}, want: false},
		{name: "two", clusters: []Cluster{{RGB: red, Population: 4}, {RGB: blue, Population: 2}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Palette{Clusters: tt.clusters}
			if got := p.HasDistinctClusters(); got != tt.want {
				t.Errorf("HasDistinctClusters() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPaletteToHex(t *testing.T) {
	p := &Palette{Clusters: []Cluster{{RGB: red}, {RGB: brick}}}
	want := []string{"#FF0000", "#C83232"}
	if got := p.ToHex(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToHex() = %v, want %v", got, want)
	}
}

func TestPaletteString(t *testing.T) {
	p := &Palette{
		Average:  brick,
		Clusters: []Cluster{{RGB: brick, Population: 3}},
	}
	s := p.String()
	if !strings.Contains(s, "Average: #C83232") {
		t.Errorf("String() missing average:\n%s", s)
	}
	if !strings.Contains(s, "#C83232 (rgb(200, 50, 50)) x3") {
		t.Errorf("String() missing cluster line:\n%s", s)
	}

	empty := &Palette{Average: brick}
	if !strings.Contains(empty.String(), "No clusters") {
		t.Errorf("String() = %q, want No clusters", empty.String())
	}
}

func TestPaletteAll(t *testing.T) {
	p := &Palette{Clusters: []Cluster{{RGB: red}, {RGB: green}, {RGB: blue}}}

	var got []RGB
	for i, c := range p.All() {
		got = append(got, c.RGB)
		if i == 1 {
			break
		}
	}
	if !reflect.DeepEqual(got, []RGB{red, green}) {
		t.Errorf("All() yielded %v, want [red green]", got)
	}
}

func TestPaletteJSONRoundTrip(t *testing.T) {
	palette, _ := NewGreedyExtractor(DefaultConfig()).Extract(append(repeat(red, 10), repeat(blue, 5)...))

	data, err := json.Marshal(palette)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded Palette
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(palette, &decoded) {
		t.Errorf("decoded palette = %+v, want %+v", decoded, *palette)
	}
}

func TestRank(t *testing.T) {
	clusters := []Cluster{
		{RGB: red, Population: 2},
		{RGB: green, Population: 5},
		{RGB: blue, Population: 2},
		{RGB: white, Population: 1},
	}

	ranked, cut := rank(clusters, 3)
	want := []RGB{green, red, blue}
	for i, c := range ranked {
		if c.RGB != want[i] {
			t.Errorf("rank %d = %v, want %v", i, c.RGB, want[i])
		}
	}
	if cut != 1 {
		t.Errorf("cut = %d, want 1", cut)
	}
}

func TestSwatch(t *testing.T) {
	if got := Swatch(brick, false); got != "■ #C83232" {
		t.Errorf("Swatch() = %q", got)
	}
	coloured := Swatch(brick, true)
	if !strings.HasPrefix(coloured, "\033[38;2;200;50;50m") || !strings.HasSuffix(coloured, " #C83232") {
		t.Errorf("Swatch() = %q, want truecolour glyph", coloured)
	}
}

package colour

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestRGBToLabKnownValues(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		want Lab
	}{
		{name: "black", rgb: RGB{0, 0, 0}, want: Lab{L: 0, A: 0, B: 0}},
		{name: "white", rgb: RGB{255, 255, 255}, want: Lab{L: 100, A: 0, B: 0}},
		{name: "red", rgb: RGB{255, 0, 0}, want: Lab{L: 53.24, A: 80.09, B: 67.20}},
		{name: "green", rgb: RGB{0, 255, 0}, want: Lab{L: 87.73, A: -86.18, B: 83.18}},
		{name: "blue", rgb: RGB{0, 0, 255}, want: Lab{L: 32.30, A: 79.19, B: -107.86}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RGBToLab(tt.rgb)
			if DeltaE(got, tt.want) > 0.05 {
				t.Errorf("RGBToLab(%v) = %+v, want %+v", tt.rgb, got, tt.want)
			}
		})
	}
}

// go-colorful is an independent implementation of the same transform; it
// reports L in [0,1] and a, b scaled by 1/100.
func TestRGBToLabMatchesColorful(t *testing.T) {
	for r := 0; r <= 255; r += 17 {
		for g := 0; g <= 255; g += 17 {
			for b := 0; b <= 255; b += 17 {
				rgb := RGB{uint8(r), uint8(g), uint8(b)}
				got := RGBToLab(rgb)

				ref := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
				l, a, bb := ref.Lab()
				want := Lab{L: l * 100, A: a * 100, B: bb * 100}

				if d := DeltaE(got, want); d > 0.1 {
					t.Fatalf("RGBToLab(%v) = %+v, colorful = %+v (ΔE %.4f)", rgb, got, want, d)
				}
			}
		}
	}
}

func TestLabRoundTrip(t *testing.T) {
	channels := []int{0, 1, 2, 5, 10, 15, 30, 50, 64, 100, 127, 128, 150, 200, 220, 250, 254, 255}

	for _, r := range channels {
		for _, g := range channels {
			for _, b := range channels {
				in := RGB{uint8(r), uint8(g), uint8(b)}
				out := LabToRGB(RGBToLab(in))
				if absDiff(in.R, out.R) > 1 || absDiff(in.G, out.G) > 1 || absDiff(in.B, out.B) > 1 {
					t.Fatalf("round trip %v -> %v exceeds ±1", in, out)
				}
			}
		}
	}
}

func TestLabToRGBClampsOutOfGamut(t *testing.T) {
	tests := []struct {
		name string
		lab  Lab
		want RGB
	}{
		{name: "beyond white", lab: Lab{L: 120, A: 0, B: 0}, want: RGB{255, 255, 255}},
		{name: "below black", lab: Lab{L: -10, A: 0, B: 0}, want: RGB{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LabToRGB(tt.lab); got != tt.want {
				t.Errorf("LabToRGB(%+v) = %v, want %v", tt.lab, got, tt.want)
			}
		})
	}
}

func TestDeltaE(t *testing.T) {
	tests := []struct {
		name string
		a, b Lab
		want float64
	}{
		{name: "identical", a: Lab{50, 10, -10}, b: Lab{50, 10, -10}, want: 0},
		{name: "lightness only", a: Lab{50, 0, 0}, b: Lab{60, 0, 0}, want: 10},
		{name: "pythagorean", a: Lab{0, 0, 0}, b: Lab{0, 3, 4}, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeltaE(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DeltaE() = %v, want %v", got, tt.want)
			}
			if got := DeltaE(tt.b, tt.a); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DeltaE() not symmetric: %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNearestPrefersLowerIndexOnTie(t *testing.T) {
	centroids := []Lab{{L: 40}, {L: 60}}
	if got := nearest(Lab{L: 50}, centroids); got != 0 {
		t.Errorf("nearest() = %d, want 0", got)
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

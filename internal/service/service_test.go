package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/jmylchreest/colourpeek/internal/asset"
	"github.com/jmylchreest/colourpeek/internal/cache"
	"github.com/jmylchreest/colourpeek/internal/config"
)

// memSource serves objects from memory.
type memSource struct {
	objects map[string][]asset.Sprite
}

func (m *memSource) Objects(context.Context) ([]string, error) {
	var names []string
	for name := range m.objects {
		names = append(names, name)
	}
	return names, nil
}

func (m *memSource) Object(_ context.Context, name string) (*asset.Object, error) {
	sprites, ok := m.objects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", asset.ErrObjectNotFound, name)
	}
	return &asset.Object{Name: name, Sprites: sprites}, nil
}

// encode draws a 16x16 sprite where the left half is a and the right half b.
func encode(t *testing.T, a, b color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			if x < 8 {
				img.SetNRGBA(x, y, a)
			} else {
				img.SetNRGBA(x, y, b)
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

var (
	red         = color.NRGBA{R: 220, G: 30, B: 30, A: 255}
	blue        = color.NRGBA{R: 30, G: 30, B: 220, A: 255}
	grey        = color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	transparent = color.NRGBA{}
)

func testSource(t *testing.T) *memSource {
	t.Helper()
	return &memSource{objects: map[string][]asset.Sprite{
		"wool":    {{Path: "wool.png", Data: encode(t, red, blue)}},
		"stone":   {{Path: "stone.png", Data: encode(t, grey, grey)}},
		"glass":   {{Path: "glass.png", Data: encode(t, transparent, transparent)}},
		"broken":  {{Path: "broken.png", Data: []byte("not a png")}},
		"oak_log": {{Path: "oak_log.png", Data: encode(t, red, red)}, {Path: "oak_log_top.png", Data: encode(t, blue, blue)}},
	}}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return config.Default()
}

func TestPalette(t *testing.T) {
	ctx := context.Background()
	svc, err := New(testSource(t), testConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name         string
		wantNil      bool
		wantClusters int
	}{
		{name: "wool", wantClusters: 2},
		{name: "stone", wantClusters: 1},
		{name: "oak_log", wantClusters: 2},
		{name: "glass", wantNil: true},
		{name: "broken", wantNil: true},
		{name: "missing", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := svc.Palette(ctx, tt.name)
			if tt.wantNil {
				if p != nil {
					t.Errorf("Palette(%q) = %v, want nil", tt.name, p)
				}
				return
			}
			if p == nil {
				t.Fatalf("Palette(%q) = nil", tt.name)
			}
			if p.Len() != tt.wantClusters {
				t.Errorf("Palette(%q) has %d clusters, want %d", tt.name, p.Len(), tt.wantClusters)
			}
			if p.Total != 256*len(testSource(t).objects[tt.name]) {
				t.Errorf("Palette(%q).Total = %d", tt.name, p.Total)
			}
		})
	}
}

func TestPaletteSampling(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxPixels = 64
	svc, err := New(testSource(t), cfg)
	if err != nil {
		t.Fatal(err)
	}

	p := svc.Palette(context.Background(), "wool")
	if p == nil {
		t.Fatal("Palette() = nil")
	}
	if p.Total > 64 {
		t.Errorf("Total = %d, want at most 64 sampled pixels", p.Total)
	}
}

func TestPaletteCached(t *testing.T) {
	ctx := context.Background()
	src := testSource(t)
	c := cache.New(16, nil, nil)
	svc, err := New(src, testConfig(t), WithCache(c))
	if err != nil {
		t.Fatal(err)
	}

	first := svc.Palette(ctx, "wool")
	second := svc.Palette(ctx, "wool")
	if first == nil || first != second {
		t.Fatalf("cached palette not reused: %p vs %p", first, second)
	}

	// Changing the sprite changes the digest and the result.
	src.objects["wool"] = []asset.Sprite{{Path: "wool.png", Data: encode(t, grey, grey)}}
	third := svc.Palette(ctx, "wool")
	if third == nil || third == first || third.Len() != 1 {
		t.Errorf("changed sprite served stale palette: %v", third)
	}

	// Negative results are cached as well.
	if svc.Palette(ctx, "glass") != nil || svc.Palette(ctx, "glass") != nil {
		t.Error("glass should have no palette")
	}
	if st := c.Stats(); st.Misses != 3 {
		t.Errorf("cache misses = %d, want 3", st.Misses)
	}

	svc.Invalidate(ctx, "wool")
	if fourth := svc.Palette(ctx, "wool"); fourth == third {
		t.Error("invalidated palette was served from memory")
	}
}

func TestPalettes(t *testing.T) {
	svc, err := New(testSource(t), testConfig(t))
	if err != nil {
		t.Fatal(err)
	}

	names := []string{"wool", "stone", "glass", "missing"}
	got := svc.Palettes(context.Background(), names, 2)
	if len(got) != len(names) {
		t.Fatalf("Palettes() returned %d entries, want %d", len(got), len(names))
	}
	if got["wool"] == nil || got["stone"] == nil {
		t.Error("expected palettes for wool and stone")
	}
	if got["glass"] != nil || got["missing"] != nil {
		t.Error("expected nil palettes for glass and missing")
	}
}

func TestPalettesContinuesPastFailures(t *testing.T) {
	svc, err := New(testSource(t), testConfig(t))
	if err != nil {
		t.Fatal(err)
	}

	names := []string{"broken", "missing", "oak_log", "stone"}
	got := svc.Palettes(context.Background(), names, 1)
	for _, name := range names {
		if _, ok := got[name]; !ok {
			t.Errorf("Palettes() has no entry for %s", name)
		}
	}
	if got["broken"] != nil || got["missing"] != nil {
		t.Error("expected nil palettes for broken and missing")
	}
	if got["oak_log"] == nil || got["stone"] == nil {
		t.Error("expected palettes after earlier failures")
	}
}

func TestFromImages(t *testing.T) {
	svc, err := New(nil, testConfig(t))
	if err != nil {
		t.Fatal(err)
	}

	a := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	b := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			a.SetNRGBA(x, y, red)
			b.SetNRGBA(x, y, blue)
		}
	}

	p := svc.FromImages(a, b)
	if p == nil || p.Len() != 2 || p.Total != 32 {
		t.Fatalf("FromImages() = %v, want 2 clusters over 32 pixels", p)
	}
	if svc.FromImages(image.NewNRGBA(image.Rect(0, 0, 4, 4))) != nil {
		t.Error("FromImages(transparent) should be nil")
	}
	if svc.Palette(context.Background(), "wool") != nil {
		t.Error("Palette without a source should be nil")
	}
	if _, err := svc.Objects(context.Background()); err == nil {
		t.Error("Objects without a source should fail")
	}
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Algorithm = "median-cut"
	if _, err := New(nil, cfg); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}

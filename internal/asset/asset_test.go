package asset

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := range 2 {
		for x := range 2 {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

// packFiles is a small pack: two objects, one with face sprites, plus noise.
func packFiles(t *testing.T) map[string][]byte {
	t.Helper()
	return map[string][]byte{
		"pack.mcmeta":                    []byte(`{"pack":{"pack_format":15}}`),
		"textures/block/stone.png":       pngBytes(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}),
		"textures/block/oak_log.png":     pngBytes(t, color.NRGBA{R: 100, G: 80, B: 50, A: 255}),
		"textures/block/oak_log_top.png": pngBytes(t, color.NRGBA{R: 160, G: 130, B: 80, A: 255}),
		"textures/block/readme.txt":      []byte("not a sprite"),
	}
}

func writeDirPack(t *testing.T, files map[string][]byte) string {
	t.Helper()
	root := t.TempDir()
	for name, data := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, data, 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func writeZipPack(t *testing.T, files map[string][]byte) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	p := filepath.Join(t.TempDir(), "pack.zip")
	if err := os.WriteFile(p, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write zip: %v", err)
	}
	return p
}

func TestObjectName(t *testing.T) {
	tests := []struct {
		file   string
		want   string
		wantOK bool
	}{
		{"stone.png", "stone", true},
		{"textures/block/oak_log_top.png", "oak_log", true},
		{"oak_log.png", "oak_log", true},
		{"furnace_front.png", "furnace", true},
		{"grass_block_side.PNG", "grass_block", true},
		{"red_sandstone_bottom.webp", "red_sandstone", true},
		{"redstone_torch.png", "redstone_torch", true},
		{`textures\block\stone.png`, "stone", true},
		{"_top.png", "_top", true},
		{"pack.mcmeta", "", false},
		{"stone.png.mcmeta", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, ok := ObjectName(tt.file)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ObjectName(%q) = %q, %v, want %q, %v", tt.file, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSources(t *testing.T) {
	files := packFiles(t)
	sources := map[string]string{
		"dir": writeDirPack(t, files),
		"zip": writeZipPack(t, files),
	}

	for kind, packPath := range sources {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			src, err := Open(packPath)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}

			names, err := src.Objects(ctx)
			if err != nil {
				t.Fatalf("Objects() error = %v", err)
			}
			if want := []string{"oak_log", "stone"}; !slices.Equal(names, want) {
				t.Errorf("Objects() = %v, want %v", names, want)
			}

			obj, err := src.Object(ctx, "oak_log")
			if err != nil {
				t.Fatalf("Object() error = %v", err)
			}
			if len(obj.Sprites) != 2 {
				t.Fatalf("oak_log has %d sprites, want 2", len(obj.Sprites))
			}
			if obj.Sprites[0].Path != "textures/block/oak_log.png" || obj.Sprites[1].Path != "textures/block/oak_log_top.png" {
				t.Errorf("sprites not ordered by path: %s, %s", obj.Sprites[0].Path, obj.Sprites[1].Path)
			}
			if !bytes.Equal(obj.Sprites[1].Data, files["textures/block/oak_log_top.png"]) {
				t.Error("sprite data does not match pack content")
			}

			_, err = src.Object(ctx, "diamond_ore")
			if !errors.Is(err, ErrObjectNotFound) {
				t.Errorf("Object(missing) error = %v, want ErrObjectNotFound", err)
			}
		})
	}
}

func TestDigest(t *testing.T) {
	a := &Object{Name: "stone", Sprites: []Sprite{{Path: "stone.png", Data: []byte{1, 2, 3}}}}
	b := &Object{Name: "stone", Sprites: []Sprite{{Path: "stone.png", Data: []byte{1, 2, 3}}}}
	changed := &Object{Name: "stone", Sprites: []Sprite{{Path: "stone.png", Data: []byte{1, 2, 4}}}}
	moved := &Object{Name: "stone", Sprites: []Sprite{{Path: "stone_top.png", Data: []byte{1, 2, 3}}}}

	if a.Digest() != b.Digest() {
		t.Error("identical objects have different digests")
	}
	if a.Digest() == changed.Digest() {
		t.Error("changed sprite bytes did not change the digest")
	}
	if a.Digest() == moved.Digest() {
		t.Error("renamed sprite did not change the digest")
	}
	if len(a.Digest()) != 64 {
		t.Errorf("digest length = %d, want 64", len(a.Digest()))
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing pack")
	}

	plain := filepath.Join(t.TempDir(), "stone.png")
	if err := os.WriteFile(plain, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(plain); err == nil {
		t.Error("expected error for a non-archive file")
	}
}

func TestArchiveSourceCorrupt(t *testing.T) {
	p := filepath.Join(t.TempDir(), "broken.zip")
	if err := os.WriteFile(p, []byte("not a zip"), 0o600); err != nil {
		t.Fatal(err)
	}

	src := NewArchiveSource(p)
	if _, err := src.Objects(context.Background()); err == nil {
		t.Error("expected error for corrupt archive")
	}
	if _, err := src.Object(context.Background(), "stone"); err == nil {
		t.Error("expected cached error on second use")
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewDirSource(writeDirPack(t, packFiles(t)))
	if _, err := src.Objects(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Objects() error = %v, want context.Canceled", err)
	}
}

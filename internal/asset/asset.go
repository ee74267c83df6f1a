// Package asset reads textured objects from texture packs.
//
// An object is identified by name. Its sprites are the image files named
// <name>.<ext> or <name>_<face>.<ext> anywhere in the pack, for example
// oak_log.png, oak_log_top.png.
package asset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/jmylchreest/colourpeek/internal/compression"
	"github.com/jmylchreest/colourpeek/internal/pixels"
)

// ErrObjectNotFound is returned when a pack has no sprites for an object.
var ErrObjectNotFound = errors.New("object not found")

// faces are the sprite suffixes that name one side of an object.
var faces = []string{"top", "bottom", "side", "front", "back", "end", "north", "south", "east", "west"}

// Sprite is a single texture image belonging to an object.
type Sprite struct {
	// Path is the slash-separated location of the sprite inside the pack.
	Path string
	Data []byte
}

// Object is a named object and all of its sprites, ordered by path.
type Object struct {
	Name    string
	Sprites []Sprite
}

// Digest identifies the exact sprite content of the object.
// Any change to a sprite path or its bytes changes the digest.
func (o *Object) Digest() string {
	h := sha256.New()
	for _, s := range o.Sprites {
		h.Write([]byte(s.Path))
		h.Write([]byte{0})
		h.Write(s.Data)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Source provides objects from a texture pack.
type Source interface {
	// Objects returns the sorted names of all objects in the pack.
	Objects(ctx context.Context) ([]string, error)

	// Object returns the named object or ErrObjectNotFound.
	Object(ctx context.Context, name string) (*Object, error)
}

// ObjectName returns the object a sprite file belongs to.
// It reports false when the file is not a supported image.
func ObjectName(file string) (string, bool) {
	base := path.Base(strings.ReplaceAll(file, `\`, "/"))
	if !pixels.IsImageFile(base) {
		return "", false
	}

	name := strings.TrimSuffix(base, path.Ext(base))
	if i := strings.LastIndexByte(name, '_'); i > 0 && slices.Contains(faces, name[i+1:]) {
		name = name[:i]
	}
	if name == "" {
		return "", false
	}
	return name, true
}

// Open opens a texture pack. Directories become a DirSource and supported
// archives an ArchiveSource.
func Open(packPath string) (Source, error) {
	if packPath == "" {
		return nil, fmt.Errorf("pack path cannot be empty")
	}

	info, err := os.Stat(packPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("pack not found: %s", packPath)
		}
		return nil, fmt.Errorf("failed to stat pack: %w", err)
	}

	if info.IsDir() {
		return NewDirSource(packPath), nil
	}
	if compression.IsArchive(packPath) {
		return NewArchiveSource(packPath), nil
	}
	return nil, fmt.Errorf("unsupported pack: %s (expected a directory or archive)", packPath)
}

// objectNames returns the sorted unique object names for the given sprite paths.
func objectNames(paths []string) []string {
	names := lo.Uniq(lo.FilterMap(paths, func(p string, _ int) (string, bool) {
		return ObjectName(p)
	}))
	slices.Sort(names)
	return names
}

func sortSprites(sprites []Sprite) {
	slices.SortFunc(sprites, func(a, b Sprite) int {
		return strings.Compare(a.Path, b.Path)
	})
}

package asset

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirSource reads objects from an unpacked texture pack directory.
type DirSource struct {
	root string
}

// NewDirSource creates a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{root: dir}
}

// Root returns the pack directory.
func (s *DirSource) Root() string {
	return s.root
}

// Objects implements Source.
func (s *DirSource) Objects(ctx context.Context) ([]string, error) {
	paths, err := s.walk(ctx, func(string) bool { return true })
	if err != nil {
		return nil, err
	}
	return objectNames(paths), nil
}

// Object implements Source.
func (s *DirSource) Object(ctx context.Context, name string) (*Object, error) {
	paths, err := s.walk(ctx, func(rel string) bool {
		n, ok := ObjectName(rel)
		return ok && n == name
	})
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, name)
	}

	obj := &Object{Name: name}
	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel))) // #nosec G304 - path comes from walking the pack directory
		if err != nil {
			return nil, fmt.Errorf("failed to read sprite %s: %w", rel, err)
		}
		obj.Sprites = append(obj.Sprites, Sprite{Path: rel, Data: data})
	}
	sortSprites(obj.Sprites)
	return obj, nil
}

// walk returns the slash-separated relative paths of image files accepted by keep.
func (s *DirSource) walk(ctx context.Context, keep func(rel string) bool) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if _, ok := ObjectName(rel); !ok || !keep(rel) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk pack %s: %w", s.root, err)
	}
	return paths, nil
}

package asset

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jmylchreest/colourpeek/internal/compression"
	"github.com/jmylchreest/colourpeek/internal/security"
)

// ArchiveSource reads objects from a packed texture pack.
// The archive is read once, on first use, and its sprites kept in memory.
type ArchiveSource struct {
	path string

	once    sync.Once
	sprites []Sprite
	err     error
}

// NewArchiveSource creates a source for the archive at path.
func NewArchiveSource(path string) *ArchiveSource {
	return &ArchiveSource{path: path}
}

// Objects implements Source.
func (s *ArchiveSource) Objects(ctx context.Context) ([]string, error) {
	sprites, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(sprites))
	for i, sp := range sprites {
		paths[i] = sp.Path
	}
	return objectNames(paths), nil
}

// Object implements Source.
func (s *ArchiveSource) Object(ctx context.Context, name string) (*Object, error) {
	sprites, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	obj := &Object{Name: name}
	for _, sp := range sprites {
		if n, _ := ObjectName(sp.Path); n == name {
			obj.Sprites = append(obj.Sprites, sp)
		}
	}
	if len(obj.Sprites) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, name)
	}
	return obj, nil
}

func (s *ArchiveSource) load(ctx context.Context) ([]Sprite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.once.Do(func() {
		data, err := os.ReadFile(s.path) // #nosec G304 - user-specified pack path, intended to be read
		if err != nil {
			s.err = fmt.Errorf("failed to read pack: %w", err)
			return
		}

		entries, err := compression.ReadEntries(data, s.path, security.MaxArchiveBytes, func(name string) bool {
			_, ok := ObjectName(name)
			return ok
		})
		if err != nil {
			s.err = fmt.Errorf("failed to read pack %s: %w", s.path, err)
			return
		}

		s.sprites = make([]Sprite, len(entries))
		for i, e := range entries {
			s.sprites[i] = Sprite{Path: e.Name, Data: e.Data}
		}
		sortSprites(s.sprites)
	})
	return s.sprites, s.err
}

// Package service answers palette queries for texture pack objects.
//
// It ties the pack source, the pixel pipeline, the extractor and the cache
// together. Failures of any of these are logged and reported as "no palette";
// callers only ever see a palette or nil.
package service

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"sync"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/colourpeek/internal/asset"
	"github.com/jmylchreest/colourpeek/internal/cache"
	"github.com/jmylchreest/colourpeek/internal/colour"
	"github.com/jmylchreest/colourpeek/internal/config"
	"github.com/jmylchreest/colourpeek/internal/pixels"
)

// DefaultWorkers bounds concurrent extractions in Palettes.
const DefaultWorkers = 4

// Service computes palettes for named objects.
type Service struct {
	source    asset.Source
	cache     *cache.Cache
	extractor colour.Extractor
	cfg       config.Config
	logger    hclog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache memoises palettes in c.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l hclog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a service over source. source may be nil when only FromImages
// is used.
func New(source asset.Source, cfg config.Config, opts ...Option) (*Service, error) {
	extractor, err := colour.NewExtractor(cfg.Extractor())
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	s := &Service{
		source:    source,
		extractor: extractor,
		cfg:       cfg,
		logger:    hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("service")
	return s, nil
}

// Palette returns the palette of the named object, or nil when the object
// cannot be loaded or has no visible pixels.
func (s *Service) Palette(ctx context.Context, name string) *colour.Palette {
	p, err := s.lookup(ctx, name)
	if err != nil {
		s.logger.Warn("no palette for object", "object", name, "error", err)
		return nil
	}
	if p == nil {
		s.logger.Debug("object has no visible pixels", "object", name)
	}
	return p
}

// Palettes computes the palettes of several objects with at most workers
// extractions in flight. Objects without a palette map to nil.
func (s *Service) Palettes(ctx context.Context, names []string, workers int) map[string]*colour.Palette {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var (
		mu  sync.Mutex
		out = make(map[string]*colour.Palette, len(names))
	)

	var g errgroup.Group
	g.SetLimit(workers)
	for _, name := range names {
		g.Go(func() error {
			p := s.Palette(ctx, name)
			mu.Lock()
			out[name] = p
			mu.Unlock()
			return nil
		})
	}
	// Failures are logged by Palette and surface as nil entries; Wait only joins.
	_ = g.Wait()

	return out
}

// Objects lists the object names of the pack.
func (s *Service) Objects(ctx context.Context) ([]string, error) {
	if s.source == nil {
		return nil, fmt.Errorf("no texture pack configured")
	}
	return s.source.Objects(ctx)
}

// Invalidate forgets every cached palette of the named object.
func (s *Service) Invalidate(ctx context.Context, name string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, name); err != nil {
		s.logger.Warn("failed to invalidate object", "object", name, "error", err)
	}
}

// FromImages extracts a palette from the opaque pixels of imgs, bypassing
// the cache.
func (s *Service) FromImages(imgs ...image.Image) *colour.Palette {
	p, _ := s.extract(imgs)
	return p
}

func (s *Service) lookup(ctx context.Context, name string) (*colour.Palette, error) {
	if s.source == nil {
		return nil, fmt.Errorf("no texture pack configured")
	}

	obj, err := s.source.Object(ctx, name)
	if err != nil {
		return nil, err
	}

	compute := func(context.Context) (*colour.Palette, error) {
		imgs, err := decodeSprites(obj)
		if err != nil {
			return nil, err
		}
		p, n := s.extract(imgs)
		s.logger.Debug("extracted palette", "object", name, "sprites", len(imgs), "pixels", n)
		return p, nil
	}

	if s.cache == nil {
		return compute(ctx)
	}
	return s.cache.GetOrCompute(ctx, s.key(obj), compute)
}

// key identifies a palette by object content and every setting that shapes it.
func (s *Service) key(obj *asset.Object) cache.Key {
	return cache.Key{
		Object:      obj.Name,
		Digest:      obj.Digest(),
		Fingerprint: s.cfg.Extractor().Fingerprint() + ":" + strconv.Itoa(s.cfg.MaxPixels),
	}
}

// extract returns the palette of imgs and the number of pixels considered.
func (s *Service) extract(imgs []image.Image) (*colour.Palette, int) {
	px := pixels.Sample(pixels.Collect(imgs...), s.cfg.MaxPixels)
	p, ok := s.extractor.Extract(px)
	if !ok {
		return nil, len(px)
	}
	return p, len(px)
}

func decodeSprites(obj *asset.Object) ([]image.Image, error) {
	imgs := make([]image.Image, 0, len(obj.Sprites))
	for _, sp := range obj.Sprites {
		img, err := pixels.Decode(sp.Data)
		if err != nil {
			return nil, fmt.Errorf("sprite %s: %w", sp.Path, err)
		}
		imgs = append(imgs, img)
	}
	return imgs, nil
}

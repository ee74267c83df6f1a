// Package imagecache keeps downloaded images on disk so repeated extractions
// from the same URL do not hit the network.
package imagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	httputil "github.com/jmylchreest/colourpeek/internal/util/http"
)

// FetchFunc downloads the body of a URL.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// Cache stores downloads in a directory, one file per URL.
type Cache struct {
	dir   string
	fetch FetchFunc
}

// New creates a cache in dir. An empty dir selects DefaultDir. A nil fetch
// uses a plain HTTP GET.
func New(dir string, fetch FetchFunc) *Cache {
	if dir == "" {
		dir = DefaultDir()
	}
	if fetch == nil {
		fetch = func(ctx context.Context, u string) ([]byte, error) {
			return httputil.Fetch(ctx, u, httputil.FetchOptions{})
		}
	}
	return &Cache{dir: dir, fetch: fetch}
}

// DefaultDir returns the user cache directory for downloaded images.
func DefaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "colourpeek", "images")
}

// Path returns the file a URL is cached in.
func (c *Cache) Path(rawURL string) string {
	return filepath.Join(c.dir, filename(rawURL))
}

// Get returns the local path of the image at rawURL, downloading it on first
// use.
func (c *Cache) Get(ctx context.Context, rawURL string) (string, error) {
	cached := c.Path(rawURL)
	if _, err := os.Stat(cached); err == nil {
		return cached, nil
	}

	data, err := c.fetch(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil { // #nosec G301 - cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Write to a temporary file first so readers never see a partial image.
	tmp, err := os.CreateTemp(c.dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := os.Rename(tmp.Name(), cached); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store cached image: %w", err)
	}

	return cached, nil
}

// filename derives a stable file name from a URL: a hash of the full URL
// plus the extension of its path, so the decoder can be chosen by name.
func filename(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	name := hex.EncodeToString(sum[:16])

	ext := ""
	if u, err := url.Parse(rawURL); err == nil {
		ext = strings.ToLower(path.Ext(u.Path))
	}
	if ext == "" || len(ext) > 5 {
		ext = ".img"
	}
	return name + ext
}

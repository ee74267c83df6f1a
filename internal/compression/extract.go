// Package compression reads the entries of texture pack archives.
package compression

import (
	"fmt"
	"strings"
)

// Format identifies an archive container.
type Format string

const (
	FormatZip    Format = "zip"
	FormatTar    Format = "tar"
	FormatTarGz  Format = "tar.gz"
	FormatTarXz  Format = "tar.xz"
	FormatTarBz2 Format = "tar.bz2"
)

// Entry is a regular file read from an archive.
type Entry struct {
	// Name is the slash-separated path inside the archive.
	Name string
	Data []byte
}

// DetectFormat determines the archive format from a filename.
func DetectFormat(filename string) (Format, bool) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return FormatTarGz, true
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		return FormatTarXz, true
	case strings.HasSuffix(name, ".tar.bz2"), strings.HasSuffix(name, ".tbz"), strings.HasSuffix(name, ".tbz2"):
		return FormatTarBz2, true
	case strings.HasSuffix(name, ".tar"):
		return FormatTar, true
	case strings.HasSuffix(name, ".zip"):
		return FormatZip, true
	}
	return "", false
}

// IsArchive reports whether filename has a supported archive extension.
func IsArchive(filename string) bool {
	_, ok := DetectFormat(filename)
	return ok
}

// ReadEntries reads every regular file accepted by keep from an archive.
// The format is detected from filename. Entries with unsafe names fail the
// whole read. Total decompressed size is capped at maxBytes.
func ReadEntries(data []byte, filename string, maxBytes int64, keep func(name string) bool) ([]Entry, error) {
	format, ok := DetectFormat(filename)
	if !ok {
		return nil, fmt.Errorf("unsupported archive format: %s", filename)
	}
	if keep == nil {
		keep = func(string) bool { return true }
	}

	switch format {
	case FormatZip:
		return readZip(data, maxBytes, keep)
	default:
		return readTar(data, format, maxBytes, keep)
	}
}

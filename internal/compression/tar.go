package compression

import (
	"archive/tar"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/colourpeek/internal/security"
)

// readTar reads entries from a plain or compressed tar archive.
func readTar(data []byte, format Format, maxBytes int64, keep func(string) bool) ([]Entry, error) {
	var r io.Reader = bytes.NewReader(data)

	switch format {
	case FormatTarGz:
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzr.Close()
		r = gzr
	case FormatTarXz:
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		r = xzr
	case FormatTarBz2:
		r = bzip2.NewReader(r)
	case FormatTar:
	default:
		return nil, fmt.Errorf("not a tar format: %s", format)
	}

	// Limit decompression size to prevent tar bombs
	tr := tar.NewReader(security.NewLimitedReader(r, maxBytes))

	var entries []Entry
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tar archive: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}
		if err := security.ValidateArchivePath(header.Name); err != nil {
			return nil, err
		}
		if !keep(header.Name) {
			continue
		}

		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		entries = append(entries, Entry{Name: header.Name, Data: content})
	}

	return entries, nil
}

package compression

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/jmylchreest/colourpeek/internal/security"
)

// readZip reads entries from a zip archive.
func readZip(data []byte, maxBytes int64, keep func(string) bool) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zip reader: %w", err)
	}

	remaining := maxBytes
	var entries []Entry
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if err := security.ValidateArchivePath(f.Name); err != nil {
			return nil, err
		}
		if !keep(f.Name) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
		}

		limited := security.NewLimitedReader(rc, remaining)
		content, readErr := io.ReadAll(limited)
		closeErr := rc.Close()
		if readErr != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, readErr)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("failed to close %s: %w", f.Name, closeErr)
		}

		remaining = limited.Remaining
		entries = append(entries, Entry{Name: f.Name, Data: content})
	}

	return entries, nil
}

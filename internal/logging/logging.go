// Package logging builds the hclog loggers shared by colourpeek components.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Level picks the log level for the global verbosity flags. Quiet wins over
// verbose.
func Level(verbose, quiet bool) hclog.Level {
	switch {
	case quiet:
		return hclog.Off
	case verbose:
		return hclog.Debug
	default:
		return hclog.Warn
	}
}

// New creates the root logger. Output defaults to stderr so that palettes
// written to stdout stay machine readable.
func New(verbose, quiet bool, w io.Writer) hclog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := Level(verbose, quiet)
	if level == hclog.Off {
		w = io.Discard
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "colourpeek",
		Output: w,
		Level:  level,
	})
}

// colourpeek derives perceptual colour palettes from textured objects.
//
// It extracts an average colour and a short ranked list of distinct cluster
// colours from the visible pixels of images and texture pack objects.
package main

import (
	"os"

	"github.com/jmylchreest/colourpeek/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

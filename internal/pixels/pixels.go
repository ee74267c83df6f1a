package pixels

import (
	"image"

	"github.com/jmylchreest/colourpeek/internal/colour"
)

// DefaultMaxPixels is the default cap on pixels handed to the extractor.
// Grouping cost grows with pixels × groups, so inputs are sampled down to it.
const DefaultMaxPixels = 4096

// Opaque returns the colour of every pixel with non-zero alpha, in row-major
// order. Partially transparent pixels are kept at their full colour.
func Opaque(img image.Image) []colour.RGB {
	if img == nil {
		return nil
	}

	bounds := img.Bounds()
	out := make([]colour.RGB, 0, bounds.Dx()*bounds.Dy())

	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			row := nrgba.Pix[nrgba.PixOffset(bounds.Min.X, y):nrgba.PixOffset(bounds.Max.X, y)]
			for i := 0; i+3 < len(row); i += 4 {
				if row[i+3] == 0 {
					continue
				}
				out = append(out, colour.RGB{R: row[i], G: row[i+1], B: row[i+2]})
			}
		}
		return out
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.At(x, y)
			// Same cut as the 8-bit alpha of color.NRGBAModel.
			if _, _, _, a := c.RGBA(); a>>8 == 0 {
				continue
			}
			out = append(out, colour.ToRGB(c))
		}
	}
	return out
}

// Collect concatenates the opaque pixels of several images, in order.
// An object made of several sprites is summarised as a single pixel sequence.
func Collect(imgs ...image.Image) []colour.RGB {
	var out []colour.RGB
	for _, img := range imgs {
		out = append(out, Opaque(img)...)
	}
	return out
}

// Sample reduces px to at most limit pixels by taking every n-th pixel.
// A limit of zero or less disables sampling.
func Sample(px []colour.RGB, limit int) []colour.RGB {
	if limit <= 0 || len(px) <= limit {
		return px
	}

	step := (len(px) + limit - 1) / limit
	out := make([]colour.RGB, 0, limit)
	for i := 0; i < len(px); i += step {
		out = append(out, px[i])
	}
	return out
}

package colour

import "math"

// D65 reference white, Y normalised to 1.
const (
	whiteX = 0.95047
	whiteZ = 1.08883
)

// CIE constants for the L*a*b* nonlinearity.
const (
	labEpsilon = 0.008856
	labKappa   = 7.787
	labOffset  = 16.0 / 116.0
)

// Lab is a colour in CIE L*a*b* space (D65).
// L is in [0,100]; a and b are unbounded but typically within [-128,127].
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// RGBToLab converts an 8-bit sRGB colour to CIE L*a*b* (D65).
func RGBToLab(c RGB) Lab {
	r := linearise(float64(c.R) / 255.0)
	g := linearise(float64(c.G) / 255.0)
	b := linearise(float64(c.B) / 255.0)

	x := (0.4124564*r + 0.3575761*g + 0.1804375*b) / whiteX
	y := 0.2126729*r + 0.7151522*g + 0.0721750*b
	z := (0.0193339*r + 0.1191920*g + 0.9503041*b) / whiteZ

	fx := labF(x)
	fy := labF(y)
	fz := labF(z)

	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// LabToRGB converts a CIE L*a*b* (D65) colour back to 8-bit sRGB.
// Out-of-gamut values are clamped per channel.
func LabToRGB(lab Lab) RGB {
	fy := (lab.L + 16) / 116
	fx := fy + lab.A/500
	fz := fy - lab.B/200

	x := labFInv(fx) * whiteX
	y := labFInv(fy)
	z := labFInv(fz) * whiteZ

	r := 3.2404542*x - 1.5371385*y - 0.4985314*z
	g := -0.9692660*x + 1.8760108*y + 0.0415560*z
	b := 0.0556434*x - 0.2040259*y + 1.0572252*z

	return RGB{
		R: toChannel(compand(r)),
		G: toChannel(compand(g)),
		B: toChannel(compand(b)),
	}
}

// DeltaE returns the CIE76 colour difference between two Lab colours.
func DeltaE(c1, c2 Lab) float64 {
	dl := c1.L - c2.L
	da := c1.A - c2.A
	db := c1.B - c2.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// linearise removes the sRGB transfer curve.
func linearise(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// compand applies the sRGB transfer curve to a linear value.
func compand(v float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return labKappa*t + labOffset
}

func labFInv(t float64) float64 {
	cube := t * t * t
	if cube > labEpsilon {
		return cube
	}
	return (t - labOffset) / labKappa
}

// toChannel scales a [0,1] value to a byte, rounding half up and clamping.
func toChannel(v float64) uint8 {
	scaled := math.Floor(v*255 + 0.5)
	if scaled <= 0 || math.IsNaN(scaled) {
		return 0
	}
	if scaled >= 255 {
		return 255
	}
	return uint8(scaled)
}

// meanLab returns the arithmetic mean of the given colours.
// The caller guarantees len(labs) > 0.
func meanLab(labs []Lab) Lab {
	var sum Lab
	for _, c := range labs {
		sum.L += c.L
		sum.A += c.A
		sum.B += c.B
	}
	n := float64(len(labs))
	return Lab{L: sum.L / n, A: sum.A / n, B: sum.B / n}
}

// nearest returns the index of the centroid closest to c. Ties go to the lower index.
func nearest(c Lab, centroids []Lab) int {
	best := 0
	bestDist := math.MaxFloat64
	for i, centroid := range centroids {
		if d := DeltaE(c, centroid); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

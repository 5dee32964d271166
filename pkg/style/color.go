package style

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/curvesvg/pkg/document"
	"github.com/matzehuels/curvesvg/pkg/errors"
)

// RGBA is a color with channels in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Black is the fallback for colors that cannot be decoded.
var Black = RGBA{A: 1}

// Hex returns the color as uppercase #RRGGBB. Channels are clamped and
// rounded to the nearest 8-bit value.
func (c RGBA) Hex() string {
	return strings.ToUpper(colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex())
}

// Opacity returns the alpha channel clamped to [0, 1].
func (c RGBA) Opacity() float64 {
	return clamp01(c.A)
}

// ResolveColor converts either color variant to RGBA. HSBA goes through the
// standard HSV to RGB conversion. A color with neither variant resolves to
// Black together with a STYLE_DECODE error.
func ResolveColor(c document.Color) (RGBA, error) {
	switch {
	case c.RGBA != nil:
		return RGBA{
			R: c.RGBA.Red,
			G: c.RGBA.Green,
			B: c.RGBA.Blue,
			A: alphaOrOpaque(c.RGBA.Alpha),
		}, nil
	case c.HSBA != nil:
		hue := math.Mod(c.HSBA.Hue, 1)
		if hue < 0 {
			hue++
		}
		rgb := colorful.Hsv(hue*360, clamp01(c.HSBA.Saturation), clamp01(c.HSBA.Brightness))
		return RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: alphaOrOpaque(c.HSBA.Alpha)}, nil
	}
	return Black, errors.New(errors.ErrCodeStyleDecode, "color has neither rgba nor hsba")
}

func alphaOrOpaque(a *float64) float64 {
	if a == nil {
		return 1
	}
	return clamp01(*a)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Package style maps the drawing format's style records onto SVG
// presentation attributes.
//
// Every enumerated code has exactly one target value and unknown codes fall
// back to the SVG initial value, so style mapping never fails an element.
// Records that are missing required parts or that carry an undecodable
// color are resolved to a documented fallback and reported with a
// STYLE_DECODE error that callers log as a warning:
//
//	stroke, err := style.ResolveStroke(rec)
//	if err != nil {
//	    logger.Warn("stroke", "err", err) // stroke is still usable
//	}
//	attrs := stroke.Attrs()
//
// Gradient fills are written once into a shared [Defs] collection and
// referenced with url(#id) from every element that uses them.
package style

// Attr is one presentation attribute.
type Attr struct {
	Name  string
	Value string
}

var blendModes = map[int]string{
	0:  "normal",
	1:  "multiply",
	2:  "screen",
	3:  "overlay",
	4:  "darken",
	5:  "lighten",
	10: "difference",
	11: "exclusion",
	12: "hue",
	13: "saturation",
	14: "color",
	15: "luminosity",
}

// BlendMode returns the mix-blend-mode keyword for a blend code.
// Color burn, color dodge, soft light and hard light have no code in the
// source format; unknown codes map to "normal".
func BlendMode(code int) string {
	if m, ok := blendModes[code]; ok {
		return m
	}
	return "normal"
}

// LineCap returns the stroke-linecap keyword for a cap code.
func LineCap(code int) string {
	switch code {
	case 1:
		return "round"
	case 2:
		return "square"
	default:
		return "butt"
	}
}

// LineJoin returns the stroke-linejoin keyword for a join code.
func LineJoin(code int) string {
	switch code {
	case 1:
		return "round"
	case 2:
		return "bevel"
	default:
		return "miter"
	}
}

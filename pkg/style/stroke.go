package style

import (
	"strings"

	"github.com/matzehuels/curvesvg/pkg/document"
	"github.com/matzehuels/curvesvg/pkg/errors"
	"github.com/matzehuels/curvesvg/pkg/svgpath"
)

// Stroke positions as stored in BasicStrokeStyle.Position.
// SVG 1.1 only draws centred strokes, so the position is kept for
// inspection but does not change the output.
const (
	StrokeInside  = -1
	StrokeCenter  = 0
	StrokeOutside = 1
)

// Stroke is a resolved outline. The zero value draws no stroke.
type Stroke struct {
	Painted  bool
	Color    RGBA
	Width    float64
	Cap      string
	Join     string
	Position int
	Dash     []float64
}

// NoStroke is the fallback for missing or incomplete stroke records.
var NoStroke = Stroke{}

// ResolveStroke converts a stroke record. A stroke is painted only when the
// record has a basic style together with a color and a width; anything less
// yields NoStroke and, for a present but incomplete record, a STYLE_DECODE
// error. An undecodable color strokes in Black.
//
// Absent cap and join codes default to butt and round.
func ResolveStroke(s *document.StrokeStyle) (Stroke, error) {
	if s == nil {
		return NoStroke, nil
	}
	var missing []string
	if s.BasicStrokeStyle == nil {
		missing = append(missing, "basicStrokeStyle")
	}
	if s.Color == nil {
		missing = append(missing, "color")
	}
	if s.Width == nil {
		missing = append(missing, "width")
	}
	if len(missing) > 0 {
		return NoStroke, errors.New(errors.ErrCodeStyleDecode, "stroke lacks %s", strings.Join(missing, ", "))
	}

	basic := s.BasicStrokeStyle
	out := Stroke{
		Painted:  true,
		Width:    *s.Width,
		Cap:      LineCap(intOr(basic.Cap, 0)),
		Join:     LineJoin(intOr(basic.Join, 1)),
		Position: basic.Position,
		Dash:     append([]float64(nil), basic.DashPattern...),
	}
	color, err := ResolveColor(*s.Color)
	out.Color = color
	if err != nil {
		return out, errors.Wrap(errors.ErrCodeStyleDecode, err, "stroke color")
	}
	return out, nil
}

// Attrs returns the stroke presentation attributes.
func (s Stroke) Attrs() []Attr {
	if !s.Painted {
		return []Attr{{"stroke", "none"}}
	}
	attrs := []Attr{
		{"stroke", s.Color.Hex()},
		{"stroke-width", svgpath.FormatNumber(s.Width)},
		{"stroke-opacity", svgpath.FormatNumber(s.Color.Opacity())},
		{"stroke-linecap", s.Cap},
		{"stroke-linejoin", s.Join},
	}
	if dash := dashArray(s.Dash); dash != "" {
		attrs = append(attrs, Attr{"stroke-dasharray", dash})
	}
	return attrs
}

// dashArray formats a dash pattern. Patterns that are empty or all zero
// mean a solid line.
func dashArray(pattern []float64) string {
	parts := make([]string, 0, len(pattern))
	solid := true
	for _, v := range pattern {
		if v < 0 {
			return ""
		}
		if v > 0 {
			solid = false
		}
		parts = append(parts, svgpath.FormatNumber(v))
	}
	if solid {
		return ""
	}
	return strings.Join(parts, " ")
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

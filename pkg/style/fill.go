package style

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/curvesvg/pkg/document"
	"github.com/matzehuels/curvesvg/pkg/errors"
	"github.com/matzehuels/curvesvg/pkg/svgpath"
)

// Paint is a resolved fill: nothing, a solid color, or a gradient reference.
type Paint struct {
	None    bool
	Color   string  // #RRGGBB or url(#id)
	Opacity float64 // only meaningful for solid colors
}

// NoPaint leaves the shape unfilled.
var NoPaint = Paint{None: true}

// IsGradient reports whether p references a gradient definition.
func (p Paint) IsGradient() bool {
	return strings.HasPrefix(p.Color, "url(")
}

// Attrs returns the fill presentation attributes.
func (p Paint) Attrs() []Attr {
	if p.None {
		return []Attr{{"fill", "none"}}
	}
	attrs := []Attr{{"fill", p.Color}}
	if !p.IsGradient() {
		attrs = append(attrs, Attr{"fill-opacity", svgpath.FormatNumber(p.Opacity)})
	}
	return attrs
}

// gradientNamespace seeds name-based gradient ids.
var gradientNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/curvesvg#gradient"))

// GradientID returns the stable definition id of the gradient at fill index
// fillIndex.
func GradientID(fillIndex int) string {
	return "gradient-" + uuid.NewSHA1(gradientNamespace, fmt.Appendf(nil, "fill/%d", fillIndex)).String()
}

// ResolveFill converts a fill record. fillIndex identifies the record in its
// arena; it keys the gradient definition so elements sharing one fill share
// one definition in defs.
//
// A nil record leaves the shape unfilled. A record with neither a color nor
// a gradient is unfilled too and reported as STYLE_DECODE. An undecodable
// solid color fills in Black.
func ResolveFill(f *document.Fill, fillIndex int, defs *Defs) (Paint, error) {
	if f == nil {
		return NoPaint, nil
	}
	switch {
	case f.Color != nil:
		c, err := ResolveColor(f.Color.Value)
		p := Paint{Color: c.Hex(), Opacity: c.Opacity()}
		if err != nil {
			return p, errors.Wrap(errors.ErrCodeStyleDecode, err, "fill %d", fillIndex)
		}
		return p, nil
	case f.Gradient != nil:
		id := GradientID(fillIndex)
		var err error
		if !defs.Has(id) {
			var markup string
			markup, err = gradientMarkup(id, f.Gradient.Value)
			defs.Add(id, markup)
		}
		return Paint{Color: "url(#" + id + ")", Opacity: 1}, err
	}
	return NoPaint, errors.New(errors.ErrCodeStyleDecode, "fill %d has neither color nor gradient", fillIndex)
}

// gradientMarkup writes a gradient definition. Axis coordinates are in user
// space; a gradient without an axis spans the bounding box left to right.
// Stops with undecodable colors are written in Black and reported once.
func gradientMarkup(id string, g document.Gradient) (string, error) {
	var b strings.Builder
	n := svgpath.FormatNumber

	tag := "linearGradient"
	if g.TypeRawValue == document.GradientRadial {
		tag = "radialGradient"
	}

	fmt.Fprintf(&b, `<%s id="%s"`, tag, id)
	switch {
	case g.Transform == nil && tag == "linearGradient":
		b.WriteString(` x1="0" y1="0" x2="1" y2="0"`)
	case g.Transform == nil:
		b.WriteString(` cx="0.5" cy="0.5" r="0.5"`)
	case tag == "linearGradient":
		s, e := g.Transform.Start, g.Transform.End
		fmt.Fprintf(&b, ` gradientUnits="userSpaceOnUse" x1="%s" y1="%s" x2="%s" y2="%s"`,
			n(s[0]), n(s[1]), n(e[0]), n(e[1]))
	default:
		s, e := g.Transform.Start, g.Transform.End
		r := math.Hypot(e[0]-s[0], e[1]-s[1])
		fmt.Fprintf(&b, ` gradientUnits="userSpaceOnUse" cx="%s" cy="%s" fx="%s" fy="%s" r="%s"`,
			n(s[0]), n(s[1]), n(s[0]), n(s[1]), n(r))
	}
	b.WriteString(">\n")

	var firstErr error
	for i, stop := range g.Stops {
		c, err := ResolveColor(stop.Color)
		if err != nil && firstErr == nil {
			firstErr = errors.Wrap(errors.ErrCodeStyleDecode, err, "gradient %s stop %d", id, i)
		}
		fmt.Fprintf(&b, `  <stop offset="%s" stop-color="%s" stop-opacity="%s"/>`+"\n",
			n(clamp01(stop.Position)), c.Hex(), n(c.Opacity()))
	}
	fmt.Fprintf(&b, "</%s>", tag)
	return b.String(), firstErr
}

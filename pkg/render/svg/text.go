package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/curvesvg/pkg/geom"
	"github.com/matzehuels/curvesvg/pkg/scene"
	"github.com/matzehuels/curvesvg/pkg/style"
	"github.com/matzehuels/curvesvg/pkg/text"
)

// lineHeight is the tspan advance between lines.
const lineHeight = "1.2em"

// text writes a text element at its transform translation. Rotation is kept
// as a rotate() about that point and scale is folded into the font size;
// shear is not representable and is dropped.
func (r *renderer) text(buf *bytes.Buffer, defs *style.Defs, e *scene.Element, c scene.TextContent) {
	run, err := text.Decode(c.Payload)
	if err != nil {
		r.warn(e, err)
		buf.WriteString("<g")
		writeAttrs(buf, r.common(e, "text"))
		buf.WriteString("/>\n")
		return
	}

	n := r.num.FormatNumber
	t := e.TransformOrIdentity()
	x, y := n(t.Translation.X), n(t.Translation.Y)

	size := run.FontSize
	if s := math.Max(math.Abs(t.Scale.X), math.Abs(t.Scale.Y)); s > 0 {
		size *= s
	}

	attrs := r.common(e, "text")
	attrs = append(attrs,
		attr("x", x),
		attr("y", y),
		attr("font-family", run.FontFamily),
		attr("font-size", n(size)),
	)
	if run.FontWeight != text.DefaultFontWeight {
		attrs = append(attrs, attr("font-weight", strconv.Itoa(run.FontWeight)))
	}
	if run.Italic {
		attrs = append(attrs, attr("font-style", "italic"))
	}
	if run.Anchor != "start" {
		attrs = append(attrs, attr("text-anchor", run.Anchor))
	}

	switch {
	case e.Fill != nil:
		attrs = append(attrs, r.paint(e, defs)...)
	case run.Color != nil:
		attrs = append(attrs,
			attr("fill", run.Color.Hex()),
			attr("fill-opacity", n(run.Color.Opacity())),
		)
	default:
		attrs = append(attrs, attr("fill", style.Black.Hex()))
	}
	if e.Stroke != nil {
		attrs = append(attrs, r.stroke(e)...)
	}
	if t.Rotation != 0 {
		attrs = append(attrs, attr("transform", fmt.Sprintf("rotate(%s %s %s)", r.transformNumber(geom.Degrees(t.Rotation)), x, y)))
	}

	buf.WriteString("<text")
	writeAttrs(buf, attrs)
	buf.WriteString(">")
	for i, line := range run.Lines() {
		buf.WriteString("<tspan")
		tattrs := []style.Attr{attr("x", x)}
		if i > 0 {
			tattrs = append(tattrs, attr("dy", lineHeight))
		}
		writeAttrs(buf, tattrs)
		buf.WriteString(">")
		_ = xml.EscapeText(buf, []byte(line))
		buf.WriteString("</tspan>")
	}
	buf.WriteString("</text>\n")
}

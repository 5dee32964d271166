package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/srwiley/rasterx"

	"github.com/matzehuels/curvesvg/pkg/document"
	"github.com/matzehuels/curvesvg/pkg/errors"
	"github.com/matzehuels/curvesvg/pkg/geom"
	"github.com/matzehuels/curvesvg/pkg/scene"
	"github.com/matzehuels/curvesvg/pkg/style"
	"github.com/matzehuels/curvesvg/pkg/svgpath"
)

const (
	nsSVG      = "http://www.w3.org/2000/svg"
	nsInkscape = "http://www.inkscape.org/namespaces/inkscape"
	nsSodipodi = "http://sodipodi.sourceforge.net/DTD/sodipodi-0.dtd"

	// DefaultGenerator is written as a comment after the header.
	DefaultGenerator = "Generated with curvesvg"
)

// Artboard is the canvas an SVG document is rendered for.
type Artboard struct {
	Title string
	Frame document.Frame
	Units string // one of the document.Units* names; empty means pixels
}

// UnitSuffix returns the length suffix for a units name.
func UnitSuffix(units string) string {
	switch units {
	case document.UnitsPoints:
		return "pt"
	case document.UnitsMillimeters:
		return "mm"
	case document.UnitsCentimeters:
		return "cm"
	case document.UnitsInches:
		return "in"
	default:
		return ""
	}
}

// Option configures rendering.
type Option func(*renderer)

// WithLogger sets the logger for recoverable problems.
func WithLogger(l *log.Logger) Option { return func(r *renderer) { r.logger = l } }

// transformPrecision is the default number of decimals in transform
// attributes.
const transformPrecision = 6

// WithPrecision sets the number of decimals per number. Zero writes
// coordinates exactly.
func WithPrecision(p int) Option { return func(r *renderer) { r.num.Precision = p } }

// WithWarnings registers a callback for recoverable problems.
func WithWarnings(fn func(error)) Option { return func(r *renderer) { r.onWarning = fn } }

// WithGenerator overrides the generator comment. An empty string omits it.
func WithGenerator(s string) Option { return func(r *renderer) { r.generator = s } }

type renderer struct {
	logger    *log.Logger
	num       svgpath.Encoder
	onWarning func(error)
	generator string
	ids       *idAllocator
	images    map[*scene.Element]imageInfo
}

// Render writes sc as an SVG document for art.
func Render(art Artboard, sc *scene.Scene, opts ...Option) ([]byte, error) {
	if sc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil scene")
	}
	r := &renderer{
		logger:    log.New(io.Discard),
		generator: DefaultGenerator,
		ids:       newIDAllocator(),
		images:    make(map[*scene.Element]imageInfo),
	}
	for _, opt := range opts {
		opt(r)
	}

	// The body is written first so definitions collected on the way can be
	// placed before it.
	var body bytes.Buffer
	var defs style.Defs
	svgID := r.ids.allocate(art.Title, "artboard")
	for _, l := range sc.Layers {
		r.layer(&body, &defs, l)
	}

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>` + "\n")
	r.header(&buf, art, svgID)
	if r.generator != "" {
		fmt.Fprintf(&buf, "<!-- %s -->\n", commentSafe(r.generator))
	}
	if _, err := defs.WriteTo(&buf); err != nil {
		return nil, err
	}
	buf.Write(body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func (r *renderer) header(buf *bytes.Buffer, art Artboard, id string) {
	f := art.Frame
	unit := UnitSuffix(art.Units)
	n := r.num.FormatNumber
	buf.WriteString("<svg")
	writeAttrs(buf, []style.Attr{
		attr("xmlns", nsSVG),
		attr("xmlns:inkscape", nsInkscape),
		attr("xmlns:sodipodi", nsSodipodi),
		attr("version", "1.1"),
		attr("id", id),
		attr("width", n(f.Width) + unit),
		attr("height", n(f.Height) + unit),
		attr("viewBox", fmt.Sprintf("%s %s %s %s", n(f.X), n(f.Y), n(f.Width), n(f.Height))),
	})
	buf.WriteString(">\n")
}

func (r *renderer) layer(buf *bytes.Buffer, defs *style.Defs, l scene.Layer) {
	visibility := "visible"
	if !l.IsVisible {
		visibility = "hidden"
	}
	attrs := []style.Attr{
		attr("id", r.ids.allocate(l.Name, "layer")),
		attr("inkscape:groupmode", "layer"),
		attr("inkscape:label", l.Name),
		attr("opacity", r.num.FormatNumber(l.Opacity)),
		attr("visibility", visibility),
	}
	if l.IsLocked {
		attrs = append(attrs, attr("sodipodi:insensitive", "true"))
	}
	buf.WriteString("<g")
	writeAttrs(buf, attrs)
	buf.WriteString(">\n")
	for _, e := range l.Elements {
		r.element(buf, defs, e, 1)
	}
	buf.WriteString("</g>\n")
}

// warn reports a recoverable problem with element e.
func (r *renderer) warn(e *scene.Element, err error) {
	r.logger.Warn(errors.UserMessage(err), "code", errors.GetCode(err), "element", e.Index, "name", e.Name)
	if r.onWarning != nil {
		r.onWarning(err)
	}
}

// common returns the attributes every element carries: id, opacity, blend
// mode, visibility and lock state.
func (r *renderer) common(e *scene.Element, fallback string) []style.Attr {
	attrs := []style.Attr{attr("id", r.ids.allocate(e.Name, fallback))}
	if e.Opacity != 1 {
		attrs = append(attrs, attr("opacity", r.num.FormatNumber(e.Opacity)))
	}
	if mode := style.BlendMode(e.BlendMode); mode != "normal" {
		attrs = append(attrs, attr("style", "mix-blend-mode:" + mode))
	}
	if e.IsHidden {
		attrs = append(attrs, attr("visibility", "hidden"))
	}
	if e.IsLocked {
		attrs = append(attrs, attr("sodipodi:insensitive", "true"))
	}
	return attrs
}

func (r *renderer) element(buf *bytes.Buffer, defs *style.Defs, e *scene.Element, depth int) {
	indent(buf, depth)
	switch c := e.Content.(type) {
	case scene.PathContent:
		r.path(buf, defs, e, c)
	case scene.ImageContent:
		r.image(buf, e, c)
	case scene.TextContent:
		r.text(buf, defs, e, c)
	default:
		if e.IsGroup {
			r.group(buf, defs, e, depth)
			return
		}
		buf.WriteString("<g")
		writeAttrs(buf, r.common(e, "element"))
		buf.WriteString("/>\n")
	}
}

func (r *renderer) group(buf *bytes.Buffer, defs *style.Defs, e *scene.Element, depth int) {
	attrs := r.common(e, "group")
	if t := e.TransformOrIdentity(); !t.IsIdentity() {
		pivot := geom.Point{}
		if box, ok := r.childBounds(e); ok {
			pivot = box.Center()
		}
		attrs = append(attrs, attr("transform", r.matrix(geom.Matrix(t, pivot))))
	}
	buf.WriteString("<g")
	writeAttrs(buf, attrs)
	if len(e.Children) == 0 {
		buf.WriteString("/>\n")
		return
	}
	buf.WriteString(">\n")
	for _, c := range e.Children {
		r.element(buf, defs, c, depth+1)
	}
	indent(buf, depth)
	buf.WriteString("</g>\n")
}

func (r *renderer) path(buf *bytes.Buffer, defs *style.Defs, e *scene.Element, c scene.PathContent) {
	geoms := geom.ApplyAll(c.Geometries, e.TransformOrIdentity())

	attrs := r.common(e, "path")
	attrs = append(attrs, attr("d", r.num.Encode(geoms)))
	attrs = append(attrs, r.paint(e, defs)...)
	if e.FillRule == 1 {
		attrs = append(attrs, attr("fill-rule", "evenodd"))
	}
	attrs = append(attrs, r.stroke(e)...)

	buf.WriteString("<path")
	writeAttrs(buf, attrs)
	buf.WriteString("/>\n")
}

func (r *renderer) paint(e *scene.Element, defs *style.Defs) []style.Attr {
	p, err := style.ResolveFill(e.Fill, e.FillIndex, defs)
	if err != nil {
		r.warn(e, err)
	}
	return p.Attrs()
}

func (r *renderer) stroke(e *scene.Element) []style.Attr {
	s, err := style.ResolveStroke(e.Stroke)
	if err != nil {
		r.warn(e, err)
	}
	return s.Attrs()
}

// transformNumber formats matrix entries and angles, at transformPrecision
// decimals unless a precision is set.
func (r *renderer) transformNumber(v float64) string {
	if r.num.Precision > 0 {
		return r.num.FormatNumber(v)
	}
	return svgpath.Encoder{Precision: transformPrecision}.FormatNumber(v)
}

func (r *renderer) matrix(m rasterx.Matrix2D) string {
	n := r.transformNumber
	return fmt.Sprintf("matrix(%s %s %s %s %s %s)", n(m.A), n(m.B), n(m.C), n(m.D), n(m.E), n(m.F))
}

func attr(name, value string) style.Attr { return style.Attr{Name: name, Value: value} }

func writeAttrs(buf *bytes.Buffer, attrs []style.Attr) {
	for _, a := range attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		_ = xml.EscapeText(buf, []byte(a.Value))
		buf.WriteByte('"')
	}
}

func indent(buf *bytes.Buffer, depth int) {
	for range depth {
		buf.WriteString("  ")
	}
}

// commentSafe keeps s from terminating an XML comment.
func commentSafe(s string) string {
	return string(bytes.ReplaceAll([]byte(s), []byte("--"), []byte("- -")))
}

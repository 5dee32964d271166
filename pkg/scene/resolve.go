package scene

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/curvesvg/pkg/document"
	"github.com/matzehuels/curvesvg/pkg/errors"
	"github.com/matzehuels/curvesvg/pkg/geom"
)

const (
	// DefaultMaxDepth bounds group nesting. Deeper subtrees are dropped.
	DefaultMaxDepth = 256

	// DefaultMaxElements bounds the number of resolved elements. Exceeding it
	// fails the resolution.
	DefaultMaxElements = 100_000
)

// Options configures resolution.
type Options struct {
	MaxDepth    int
	MaxElements int
	Logger      *log.Logger
}

func (o *Options) setDefaults() {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxElements <= 0 {
		o.MaxElements = DefaultMaxElements
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Resolve walks the layers named by layerIDs and everything they reference.
//
// It fails with a STRUCTURAL error when layerIDs is empty, when a layer
// reference does not resolve, or when more than MaxElements elements are
// reached. All other reference, geometry and payload problems drop the
// affected part, log a warning and are collected on Scene.Warnings.
func Resolve(g *document.Graph, layerIDs []document.Ref[document.Layer], opts Options) (*Scene, error) {
	opts.setDefaults()
	if g == nil {
		return nil, errors.New(errors.ErrCodeStructural, "no graph")
	}
	if len(layerIDs) == 0 {
		return nil, errors.New(errors.ErrCodeStructural, "artboard has no layers")
	}

	r := &resolver{
		g:       g,
		opts:    opts,
		log:     opts.Logger,
		visited: make(map[int]bool),
	}
	sc := &Scene{Layers: make([]Layer, 0, len(layerIDs))}

	for i, ref := range layerIDs {
		raw, err := g.Layers.Get(ref)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStructural, err, "layer %d (id %s)", i, ref)
		}
		idx, _ := ref.Index()
		layer := Layer{
			Index:      idx,
			Name:       raw.Name,
			Opacity:    floatOr(raw.Opacity, 1),
			IsVisible:  boolOr(raw.IsVisible, true),
			IsLocked:   raw.IsLocked,
			IsExpanded: raw.IsExpanded,
		}
		if layer.Name == "" {
			layer.Name = "Unnamed Layer"
		}
		for _, elRef := range raw.ElementIDs {
			el, err := r.element(elRef, 0)
			if err != nil {
				return nil, err
			}
			if el != nil {
				layer.Elements = append(layer.Elements, el)
			}
		}
		sc.Layers = append(sc.Layers, layer)
	}

	sc.Warnings = r.warnings
	return sc, nil
}

type resolver struct {
	g        *document.Graph
	opts     Options
	log      *log.Logger
	visited  map[int]bool
	count    int
	warnings []error
}

// warn records a recoverable problem.
func (r *resolver) warn(err error, keyvals ...any) {
	r.warnings = append(r.warnings, err)
	kv := append([]any{"code", errors.GetCode(err)}, keyvals...)
	r.log.Warn(errors.UserMessage(err), kv...)
}

// element resolves one element reference. A nil element with a nil error
// means the subtree was dropped.
func (r *resolver) element(ref document.Ref[document.Element], depth int) (*Element, error) {
	raw, err := r.g.Elements.Get(ref)
	if err != nil {
		r.warn(errors.Wrap(errors.ErrCodeReference, err, "element %s", ref), "depth", depth)
		return nil, nil
	}
	idx, _ := ref.Index()

	if depth > r.opts.MaxDepth {
		r.warn(errors.New(errors.ErrCodeReference, "element %d nested deeper than %d", idx, r.opts.MaxDepth), "element", idx)
		return nil, nil
	}
	if r.visited[idx] {
		r.warn(errors.New(errors.ErrCodeReference, "cyclic reference to element %d", idx), "element", idx)
		return nil, nil
	}
	r.count++
	if r.count > r.opts.MaxElements {
		return nil, errors.New(errors.ErrCodeStructural, "more than %d elements", r.opts.MaxElements)
	}
	r.visited[idx] = true
	defer delete(r.visited, idx)

	el := &Element{
		Index:     idx,
		Name:      raw.Name,
		BlendMode: raw.BlendMode,
		IsHidden:  raw.IsHidden,
		IsLocked:  raw.IsLocked,
		Opacity:   floatOr(raw.Opacity, 1),
	}

	if raw.LocalTransformID.Valid() {
		lt, err := r.g.LocalTransforms.Get(raw.LocalTransformID)
		if err != nil {
			r.warn(errors.Wrap(errors.ErrCodeReference, err, "transform of element %d", idx), "element", idx)
		} else {
			t := geom.FromLocalTransform(*lt)
			el.Transform = &t
		}
	}

	if raw.SubElement.Group.Valid() {
		el.IsGroup = true
		if err := r.group(el, raw.SubElement.Group, depth); err != nil {
			return nil, err
		}
		return el, nil
	}

	r.content(el, raw)
	return el, nil
}

func (r *resolver) group(el *Element, ref document.Ref[document.Group], depth int) error {
	grp, err := r.g.Groups.Get(ref)
	if err != nil {
		r.warn(errors.Wrap(errors.ErrCodeReference, err, "group of element %d", el.Index), "element", el.Index)
		return nil
	}
	for _, childRef := range grp.ElementIDs {
		child, err := r.element(childRef, depth+1)
		if err != nil {
			return err
		}
		if child != nil {
			el.Children = append(el.Children, child)
		}
	}
	return nil
}

// content decides the payload of a leaf element: path geometry first, then
// image, then text.
func (r *resolver) content(el *Element, raw *document.Element) {
	var st *document.Stylable
	if raw.SubElement.Stylable.Valid() {
		s, err := r.g.Stylables.Get(raw.SubElement.Stylable)
		if err != nil {
			r.warn(errors.Wrap(errors.ErrCodeReference, err, "stylable of element %d", el.Index), "element", el.Index)
		} else {
			st = s
		}
	}

	if st != nil && st.SubElement.AbstractPath.Valid() {
		ap, err := r.g.AbstractPaths.Get(st.SubElement.AbstractPath)
		if err != nil {
			r.warn(errors.Wrap(errors.ErrCodeReference, err, "path of element %d", el.Index), "element", el.Index)
		} else {
			r.path(el, ap)
			return
		}
	}

	if raw.SubElement.Image.Valid() {
		if r.image(el, raw.SubElement.Image) {
			return
		}
	}

	textRef := raw.SubElement.AbstractText
	styleRef := raw.SubElement.SingleStyle
	if st != nil {
		if !textRef.Valid() {
			textRef = st.SubElement.AbstractText
		}
		if !styleRef.Valid() {
			styleRef = st.SubElement.SingleStyle
		}
	}
	if textRef.Valid() {
		r.text(el, textRef, styleRef)
	}
}

func (r *resolver) path(el *Element, ap *document.AbstractPath) {
	el.FillRule = ap.FillRule
	r.styles(el, ap.StrokeStyleID, ap.FillID)

	var refs []document.Ref[document.PathGeometry]
	compound := false
	switch {
	case ap.SubElement.Path.Valid():
		p, err := r.g.Paths.Get(ap.SubElement.Path)
		if err != nil {
			r.warn(errors.Wrap(errors.ErrCodeReference, err, "path record of element %d", el.Index), "element", el.Index)
			return
		}
		refs = []document.Ref[document.PathGeometry]{p.GeometryID}
	case ap.SubElement.CompoundPath.Valid():
		cp, err := r.g.CompoundPaths.Get(ap.SubElement.CompoundPath)
		if err != nil {
			r.warn(errors.Wrap(errors.ErrCodeReference, err, "compound path of element %d", el.Index), "element", el.Index)
			return
		}
		refs = cp.SubpathIDs
		compound = true
	default:
		r.warn(errors.New(errors.ErrCodeGeometry, "element %d has a path without geometry", el.Index), "element", el.Index)
		return
	}

	var geoms []geom.Geometry
	for i, ref := range refs {
		pg, err := r.g.PathGeometries.Get(ref)
		if err != nil {
			r.warn(errors.Wrap(errors.ErrCodeReference, err, "geometry %d of element %d", i, el.Index), "element", el.Index)
			continue
		}
		if len(pg.Nodes) == 0 {
			r.warn(errors.New(errors.ErrCodeGeometry, "geometry %d of element %d has no nodes", i, el.Index), "element", el.Index)
			continue
		}
		geoms = append(geoms, geom.FromDocument(*pg))
	}
	if len(geoms) == 0 {
		return
	}
	el.Content = PathContent{Geometries: geoms, Compound: compound}
}

func (r *resolver) image(el *Element, ref document.Ref[document.Image]) bool {
	img, err := r.g.Images.Get(ref)
	if err != nil {
		r.warn(errors.Wrap(errors.ErrCodeReference, err, "image of element %d", el.Index), "element", el.Index)
		return false
	}
	data, err := document.DecodeBytes(img.ImageData)
	if err != nil {
		r.warn(errors.Wrap(errors.ErrCodeInvalidFormat, err, "image data of element %d", el.Index), "element", el.Index)
		return false
	}
	el.Content = ImageContent{Data: data, Size: img.Size}
	return true
}

func (r *resolver) text(el *Element, ref document.Ref[document.AbstractText], styleRef document.Ref[document.SingleStyle]) {
	at, err := r.g.AbstractTexts.Get(ref)
	if err != nil {
		r.warn(errors.Wrap(errors.ErrCodeReference, err, "text of element %d", el.Index), "element", el.Index)
		return
	}

	strokeRef, fillRef := at.StrokeStyleID, at.FillID
	if styleRef.Valid() {
		ss, err := r.g.SingleStyles.Get(styleRef)
		if err != nil {
			r.warn(errors.Wrap(errors.ErrCodeReference, err, "text style of element %d", el.Index), "element", el.Index)
		} else {
			if !strokeRef.Valid() {
				strokeRef = ss.StrokeStyleID
			}
			if !fillRef.Valid() {
				fillRef = ss.FillID
			}
			if ss.Opacity != nil {
				el.Opacity *= *ss.Opacity
			}
			if ss.BlendMode != nil && el.BlendMode == 0 {
				el.BlendMode = *ss.BlendMode
			}
		}
	}
	r.styles(el, strokeRef, fillRef)

	payload, err := document.DecodeBytes(at.AttributedText)
	if err != nil {
		r.warn(errors.Wrap(errors.ErrCodeStyleDecode, err, "text payload of element %d", el.Index), "element", el.Index)
		return
	}
	el.Content = TextContent{Payload: payload}
}

// styles attaches the stroke and fill records. Absent references stay nil.
func (r *resolver) styles(el *Element, stroke document.Ref[document.StrokeStyle], fill document.Ref[document.Fill]) {
	if stroke.Valid() {
		s, err := r.g.PathStrokeStyles.Get(stroke)
		if err != nil {
			r.warn(errors.Wrap(errors.ErrCodeReference, err, "stroke of element %d", el.Index), "element", el.Index)
		} else {
			cp := *s
			el.Stroke = &cp
		}
	}
	if fill.Valid() {
		f, err := r.g.Fills.Get(fill)
		if err != nil {
			r.warn(errors.Wrap(errors.ErrCodeReference, err, "fill of element %d", el.Index), "element", el.Index)
		} else {
			cp := *f
			el.Fill = &cp
			el.FillIndex, _ = fill.Index()
		}
	}
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// String renders a one-line summary for logs.
func (e *Element) String() string {
	return fmt.Sprintf("%s %d %q", e.Kind(), e.Index, e.Name)
}

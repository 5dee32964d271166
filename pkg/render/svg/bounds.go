package svg

import (
	"github.com/matzehuels/curvesvg/pkg/geom"
	"github.com/matzehuels/curvesvg/pkg/scene"
)

// bounds returns the box e covers in its parent's coordinate system, after
// its own transform. Elements that render nothing have no box.
func (r *renderer) bounds(e *scene.Element) (geom.Rect, bool) {
	t := e.TransformOrIdentity()
	switch c := e.Content.(type) {
	case scene.PathContent:
		return geom.BoundingBox(geom.ApplyAll(c.Geometries, t)...)
	case scene.ImageContent:
		box := r.imageInfo(e, c).rect()
		return geom.TransformRect(geom.Matrix(t, box.Center()), box), true
	case scene.TextContent:
		p := t.Translation
		return geom.Rect{Min: p, Max: p}, true
	}
	if !e.IsGroup {
		return geom.Rect{}, false
	}
	box, ok := r.childBounds(e)
	if !ok {
		return geom.Rect{}, false
	}
	return geom.TransformRect(geom.Matrix(t, box.Center()), box), true
}

// childBounds returns the union of the children's boxes, the pivot of a
// group transform.
func (r *renderer) childBounds(e *scene.Element) (box geom.Rect, ok bool) {
	for _, c := range e.Children {
		b, cok := r.bounds(c)
		if !cok {
			continue
		}
		if !ok {
			box, ok = b, true
			continue
		}
		box = box.Union(b)
	}
	return box, ok
}

package geom

import (
	"math"

	"github.com/srwiley/rasterx"

	"github.com/matzehuels/curvesvg/pkg/document"
)

// Transform is the affine operator attached to an element.
//
// Rotation is in radians. Shear is the tangent of the shear angle, applied
// along x. Scale and rotation pivot on the bounding-box centre of whatever is
// being transformed; the pivot is never stored.
type Transform struct {
	Rotation    float64
	Scale       Point
	Shear       float64
	Translation Point
}

// IdentityTransform leaves geometry unchanged.
var IdentityTransform = Transform{Scale: Point{1, 1}}

// FromLocalTransform converts a raw transform record. A missing scale means
// (1, 1).
func FromLocalTransform(lt document.LocalTransform) Transform {
	t := Transform{
		Rotation:    lt.Rotation,
		Scale:       Point{1, 1},
		Shear:       lt.Shear,
		Translation: fromVec(lt.Translation),
	}
	if lt.Scale != nil {
		t.Scale = fromVec(*lt.Scale)
	}
	return t
}

// IsIdentity reports whether t leaves every point in place.
func (t Transform) IsIdentity() bool {
	return t == IdentityTransform
}

// Matrix composes t into a single affine matrix pivoting on pivot.
//
// Points are rotated about the pivot first, then scaled about it, then
// sheared about it, then translated.
func Matrix(t Transform, pivot Point) rasterx.Matrix2D {
	shear := rasterx.Matrix2D{A: 1, B: 0, C: t.Shear, D: 1, E: 0, F: 0}
	return rasterx.Identity.
		Translate(t.Translation.X, t.Translation.Y).
		Translate(pivot.X, pivot.Y).
		Mult(shear).
		Scale(t.Scale.X, t.Scale.Y).
		Rotate(t.Rotation).
		Translate(-pivot.X, -pivot.Y)
}

// Apply transforms g about its own bounding-box centre and returns a new
// geometry. Corner radii scale by max(|sx|, |sy|).
func Apply(g Geometry, t Transform) Geometry {
	pivot := Point{}
	if box, ok := BoundingBox(g); ok {
		pivot = box.Center()
	}
	return applyMatrix(g, Matrix(t, pivot), radiusScale(t))
}

// ApplyAll transforms every sub-geometry of a compound shape about the centre
// of their joint bounding box, so the contours keep their relative placement.
func ApplyAll(geoms []Geometry, t Transform) []Geometry {
	pivot := Point{}
	if box, ok := BoundingBox(geoms...); ok {
		pivot = box.Center()
	}
	m := Matrix(t, pivot)
	rs := radiusScale(t)
	out := make([]Geometry, len(geoms))
	for i, g := range geoms {
		out[i] = applyMatrix(g, m, rs)
	}
	return out
}

// TransformPoint maps p through m.
func TransformPoint(m rasterx.Matrix2D, p Point) Point {
	x, y := m.Transform(p.X, p.Y)
	return Point{x, y}
}

// TransformRect returns the bounding box of r's four corners mapped through m.
func TransformRect(m rasterx.Matrix2D, r Rect) Rect {
	corners := [4]Point{
		r.Min,
		{r.Max.X, r.Min.Y},
		r.Max,
		{r.Min.X, r.Max.Y},
	}
	p := TransformPoint(m, corners[0])
	out := Rect{Min: p, Max: p}
	for _, c := range corners[1:] {
		p = TransformPoint(m, c)
		out = out.Union(Rect{Min: p, Max: p})
	}
	return out
}

func applyMatrix(g Geometry, m rasterx.Matrix2D, rs float64) Geometry {
	out := g.Clone()
	for i := range out.Nodes {
		n := &out.Nodes[i]
		n.Anchor = TransformPoint(m, n.Anchor)
		n.In = TransformPoint(m, n.In)
		n.Out = TransformPoint(m, n.Out)
		n.CornerRadius *= rs
	}
	return out
}

func radiusScale(t Transform) float64 {
	return math.Max(math.Abs(t.Scale.X), math.Abs(t.Scale.Y))
}

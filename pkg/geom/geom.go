// Package geom applies affine transforms to Bezier path geometry.
//
// Geometry is a list of nodes, each an anchor with an incoming and an
// outgoing control point. A [Transform] rotates and scales a geometry about
// the centre of its bounding box, shears it, then translates it:
//
//	g2 := geom.Apply(g, geom.Transform{
//	    Rotation:    math.Pi / 2,
//	    Scale:       geom.Point{X: 2, Y: 2},
//	    Translation: geom.Point{X: 10},
//	})
//
// All functions are pure and never alias their input.
package geom

import (
	"math"

	"github.com/matzehuels/curvesvg/pkg/document"
)

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Node is one anchor of a path with its two control points.
type Node struct {
	Anchor       Point
	In           Point
	Out          Point
	Type         int
	CornerRadius float64
}

// Geometry is an ordered, optionally closed contour.
type Geometry struct {
	Closed bool
	Nodes  []Node
}

// Clone returns a deep copy of g.
func (g Geometry) Clone() Geometry {
	return Geometry{Closed: g.Closed, Nodes: append([]Node(nil), g.Nodes...)}
}

// FromDocument converts a raw path geometry, defaulting absent control
// points to their anchor.
func FromDocument(pg document.PathGeometry) Geometry {
	nodes := make([]Node, len(pg.Nodes))
	for i, n := range pg.Nodes {
		nodes[i] = Node{
			Anchor:       fromVec(n.AnchorPoint),
			In:           fromVec(n.In()),
			Out:          fromVec(n.Out()),
			Type:         n.NodeType,
			CornerRadius: n.CornerRadius,
		}
	}
	return Geometry{Closed: pg.Closed, Nodes: nodes}
}

func fromVec(v document.Vec2) Point { return Point{v[0], v[1]} }

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min, Max Point
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Union returns the smallest rectangle containing r and s.
func (r Rect) Union(s Rect) Rect {
	return Rect{
		Min: Point{math.Min(r.Min.X, s.Min.X), math.Min(r.Min.Y, s.Min.Y)},
		Max: Point{math.Max(r.Max.X, s.Max.X), math.Max(r.Max.Y, s.Max.Y)},
	}
}

// BoundingBox returns the box spanned by the anchor points of geoms.
// Control points are not part of the box. ok is false when there are no
// nodes at all.
func BoundingBox(geoms ...Geometry) (r Rect, ok bool) {
	for _, g := range geoms {
		for _, n := range g.Nodes {
			if !ok {
				r = Rect{Min: n.Anchor, Max: n.Anchor}
				ok = true
				continue
			}
			r.Min.X = math.Min(r.Min.X, n.Anchor.X)
			r.Min.Y = math.Min(r.Min.Y, n.Anchor.Y)
			r.Max.X = math.Max(r.Max.X, n.Anchor.X)
			r.Max.Y = math.Max(r.Max.Y, n.Anchor.Y)
		}
	}
	return r, ok
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

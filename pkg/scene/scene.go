// Package scene resolves the flat document graph into a tree of layers and
// elements ready for rendering.
//
// Resolution follows every cross-reference exactly once per path from a
// layer, so shared records are copied into each place they are used and
// cyclic references terminate. Per-element problems never fail a
// resolution: the offending subtree or payload is dropped and a warning is
// recorded on [Scene.Warnings]. Only structural problems (no layers, a bad
// layer reference, too many elements) return an error.
//
//	sc, err := scene.Resolve(g, artboard.LayerIDs, scene.Options{Logger: logger})
//	if err != nil {
//	    return err // STRUCTURAL
//	}
//	for _, layer := range sc.Layers {
//	    ...
//	}
package scene

import (
	"encoding/json"

	"github.com/matzehuels/curvesvg/pkg/document"
	"github.com/matzehuels/curvesvg/pkg/geom"
)

// Scene is a resolved artboard.
type Scene struct {
	Layers   []Layer `json:"layers"`
	Warnings []error `json:"-"`
}

// Layer is a resolved layer with its top-level elements bottom to top.
type Layer struct {
	Index      int        `json:"index"`
	Name       string     `json:"name"`
	Opacity    float64    `json:"opacity"`
	IsVisible  bool       `json:"isVisible"`
	IsLocked   bool       `json:"isLocked,omitempty"`
	IsExpanded bool       `json:"isExpanded,omitempty"`
	Elements   []*Element `json:"elements"`
}

// Element is a resolved scene node.
//
// A group element has IsGroup set, nil Content and its members in
// Children. Any other element has at most one Content payload; a nil
// Content on a non-group means its payload was dropped. Stroke and Fill are
// the raw style records (nil when absent); FillIndex identifies the fill in
// its arena so shared gradients can be defined once.
type Element struct {
	Index     int                   `json:"index"`
	Name      string                `json:"name"`
	BlendMode int                   `json:"blendMode,omitempty"`
	IsHidden  bool                  `json:"isHidden,omitempty"`
	IsLocked  bool                  `json:"isLocked,omitempty"`
	Opacity   float64               `json:"opacity"`
	Transform *geom.Transform       `json:"transform,omitempty"`
	Stroke    *document.StrokeStyle `json:"stroke,omitempty"`
	Fill      *document.Fill        `json:"fill,omitempty"`
	FillIndex int                   `json:"fillIndex,omitempty"`
	FillRule  int                   `json:"fillRule,omitempty"`
	IsGroup   bool                  `json:"isGroup,omitempty"`
	Content   Content               `json:"content,omitempty"`
	Children  []*Element            `json:"children,omitempty"`
}

// TransformOrIdentity returns the element transform, identity when absent.
func (e *Element) TransformOrIdentity() geom.Transform {
	if e.Transform == nil {
		return geom.IdentityTransform
	}
	return *e.Transform
}

// Kind names the element for display: group, path, image, text or empty.
func (e *Element) Kind() string {
	if e.IsGroup {
		return "group"
	}
	if e.Content == nil {
		return "empty"
	}
	return e.Content.Kind()
}

// Content is the payload of a leaf element. It is one of [PathContent],
// [ImageContent] or [TextContent].
type Content interface {
	Kind() string
	isContent()
}

// PathContent holds one contour, or several for a compound path.
type PathContent struct {
	Geometries []geom.Geometry `json:"geometries"`
	Compound   bool            `json:"compound,omitempty"`
}

// ImageContent holds the decoded bytes of an embedded bitmap.
type ImageContent struct {
	Data []byte         `json:"-"`
	Size *document.Vec2 `json:"size,omitempty"`
}

// TextContent holds the decoded rich-text payload.
type TextContent struct {
	Payload []byte `json:"-"`
}

func (PathContent) Kind() string  { return "path" }
func (ImageContent) Kind() string { return "image" }
func (TextContent) Kind() string  { return "text" }

func (PathContent) isContent()  {}
func (ImageContent) isContent() {}
func (TextContent) isContent()  {}

// Walk visits every element depth-first in paint order. Returning false
// from fn skips the element's children.
func (s *Scene) Walk(fn func(e *Element, depth int) bool) {
	for _, l := range s.Layers {
		walk(l.Elements, 0, fn)
	}
}

func walk(els []*Element, depth int, fn func(*Element, int) bool) {
	for _, e := range els {
		if fn(e, depth) {
			walk(e.Children, depth+1, fn)
		}
	}
}

// Stats counts the resolved elements by kind.
type Stats struct {
	Layers   int `json:"layers"`
	Elements int `json:"elements"`
	Groups   int `json:"groups"`
	Paths    int `json:"paths"`
	Images   int `json:"images"`
	Texts    int `json:"texts"`
	Empty    int `json:"empty"`
	Warnings int `json:"warnings"`
}

// Stats summarizes s.
func (s *Scene) Stats() Stats {
	st := Stats{Layers: len(s.Layers), Warnings: len(s.Warnings)}
	s.Walk(func(e *Element, _ int) bool {
		st.Elements++
		switch e.Kind() {
		case "group":
			st.Groups++
		case "path":
			st.Paths++
		case "image":
			st.Images++
		case "text":
			st.Texts++
		default:
			st.Empty++
		}
		return true
	})
	return st
}

// MarshalJSON adds the element kind.
func (e *Element) MarshalJSON() ([]byte, error) {
	type alias Element
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*alias
	}{e.Kind(), (*alias)(e)})
}

// MarshalJSON reports the payload length instead of the payload.
func (c ImageContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Bytes int            `json:"bytes"`
		Size  *document.Vec2 `json:"size,omitempty"`
	}{len(c.Data), c.Size})
}

// MarshalJSON reports the payload length instead of the payload.
func (c TextContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Bytes int `json:"bytes"`
	}{len(c.Payload)})
}

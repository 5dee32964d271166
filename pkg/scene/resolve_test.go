package scene

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/curvesvg/pkg/document"
	"github.com/matzehuels/curvesvg/pkg/errors"
	"github.com/matzehuels/curvesvg/pkg/geom"
)

func ref[T any](i int) document.Ref[T] { return document.At[T](i) }

func ptr[T any](v T) *T { return &v }

// lineGraph is one layer with one open two-node path, the smallest
// drawable document.
func lineGraph() *document.Graph {
	return &document.Graph{
		Artboards: []document.Artboard{{
			Title:    "Main",
			Frame:    &document.Frame{Width: 100, Height: 100},
			LayerIDs: document.Refs[document.Layer](0),
		}},
		Layers: document.Arena[document.Layer]{{
			Name:       "Layer 1",
			Opacity:    ptr(1.0),
			IsVisible:  ptr(true),
			ElementIDs: document.Refs[document.Element](0),
		}},
		Elements: document.Arena[document.Element]{{
			Name:             "Line",
			LocalTransformID: ref[document.LocalTransform](0),
			SubElement:       document.ElementSubElement{Stylable: ref[document.Stylable](0)},
		}},
		LocalTransforms: document.Arena[document.LocalTransform]{{Scale: &document.Vec2{1, 1}}},
		Stylables: document.Arena[document.Stylable]{{
			SubElement: document.StylableSubElement{AbstractPath: ref[document.AbstractPath](0)},
		}},
		AbstractPaths: document.Arena[document.AbstractPath]{{
			SubElement: document.AbstractPathSubElement{Path: ref[document.Path](0)},
		}},
		Paths: document.Arena[document.Path]{{GeometryID: ref[document.PathGeometry](0)}},
		PathGeometries: document.Arena[document.PathGeometry]{{
			Nodes: []document.Node{{AnchorPoint: document.Vec2{0, 0}}, {AnchorPoint: document.Vec2{10, 0}}},
		}},
	}
}

func resolve(t *testing.T, g *document.Graph, opts Options) *Scene {
	t.Helper()
	sc, err := Resolve(g, g.Artboards[0].LayerIDs, opts)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	return sc
}

func codes(errs []error) []errors.Code {
	out := make([]errors.Code, len(errs))
	for i, err := range errs {
		out[i] = errors.GetCode(err)
	}
	return out
}

func TestResolveLine(t *testing.T) {
	sc := resolve(t, lineGraph(), Options{})

	pt := func(x, y float64) geom.Point { return geom.Point{X: x, Y: y} }
	want := &Scene{Layers: []Layer{{
		Index:     0,
		Name:      "Layer 1",
		Opacity:   1,
		IsVisible: true,
		Elements: []*Element{{
			Index:     0,
			Name:      "Line",
			Opacity:   1,
			Transform: &geom.IdentityTransform,
			Content: PathContent{Geometries: []geom.Geometry{{Nodes: []geom.Node{
				{Anchor: pt(0, 0), In: pt(0, 0), Out: pt(0, 0)},
				{Anchor: pt(10, 0), In: pt(10, 0), Out: pt(10, 0)},
			}}}},
		}},
	}}}
	if diff := cmp.Diff(want, sc, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("scene (-want +got):\n%s", diff)
	}
}

func TestResolveLayerDefaults(t *testing.T) {
	g := lineGraph()
	g.Layers[0] = document.Layer{ElementIDs: document.Refs[document.Element](0)}
	sc := resolve(t, g, Options{})
	l := sc.Layers[0]
	if l.Name != "Unnamed Layer" || l.Opacity != 1 || !l.IsVisible {
		t.Errorf("layer defaults not applied: %+v", l)
	}
}

func TestResolveStructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		layers []document.Ref[document.Layer]
	}{
		{"no layers", nil},
		{"layer out of range", document.Refs[document.Layer](3)},
		{"malformed layer", document.Refs[document.Layer](-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := Resolve(lineGraph(), tt.layers, Options{})
			if !errors.IsStructural(err) {
				t.Errorf("err = %v, want STRUCTURAL", err)
			}
			if sc != nil {
				t.Error("structural failure should produce no scene")
			}
		})
	}

	if _, err := Resolve(nil, document.Refs[document.Layer](0), Options{}); !errors.IsStructural(err) {
		t.Errorf("nil graph err = %v", err)
	}
}

func TestResolveSelfReferencingGroup(t *testing.T) {
	g := lineGraph()
	g.Elements = append(g.Elements, document.Element{
		Name:       "Loop",
		SubElement: document.ElementSubElement{Group: ref[document.Group](0)},
	})
	g.Groups = document.Arena[document.Group]{{ElementIDs: document.Refs[document.Element](1, 0)}}
	g.Layers[0].ElementIDs = document.Refs[document.Element](1)

	sc := resolve(t, g, Options{})

	grp := sc.Layers[0].Elements[0]
	if !grp.IsGroup || grp.Content != nil {
		t.Fatalf("group = %+v", grp)
	}
	if len(grp.Children) != 1 || grp.Children[0].Name != "Line" {
		t.Fatalf("children = %v", grp.Children)
	}
	if diff := cmp.Diff([]errors.Code{errors.ErrCodeReference}, codes(sc.Warnings)); diff != "" {
		t.Errorf("warnings (-want +got):\n%s", diff)
	}
}

func TestResolveMutualCycle(t *testing.T) {
	g := &document.Graph{
		Layers: document.Arena[document.Layer]{{ElementIDs: document.Refs[document.Element](0)}},
		Elements: document.Arena[document.Element]{
			{Name: "A", SubElement: document.ElementSubElement{Group: ref[document.Group](0)}},
			{Name: "B", SubElement: document.ElementSubElement{Group: ref[document.Group](1)}},
		},
		Groups: document.Arena[document.Group]{
			{ElementIDs: document.Refs[document.Element](1)},
			{ElementIDs: document.Refs[document.Element](0)},
		},
	}
	sc, err := Resolve(g, document.Refs[document.Layer](0), Options{})
	if err != nil {
		t.Fatal(err)
	}
	a := sc.Layers[0].Elements[0]
	if len(a.Children) != 1 || len(a.Children[0].Children) != 0 {
		t.Errorf("cycle not broken: %v -> %v", a, a.Children)
	}
	if len(sc.Warnings) != 1 {
		t.Errorf("warnings = %v", sc.Warnings)
	}
}

func TestResolveSharedElementIsNotACycle(t *testing.T) {
	g := lineGraph()
	g.Layers[0].ElementIDs = document.Refs[document.Element](0, 0)
	sc := resolve(t, g, Options{})
	if len(sc.Layers[0].Elements) != 2 || len(sc.Warnings) != 0 {
		t.Errorf("shared element should resolve twice: %d elements, warnings %v",
			len(sc.Layers[0].Elements), sc.Warnings)
	}
	if sc.Layers[0].Elements[0] == sc.Layers[0].Elements[1] {
		t.Error("resolved elements must not alias")
	}
}

func TestResolveDropsBadReferences(t *testing.T) {
	g := lineGraph()
	g.Layers[0].ElementIDs = append(g.Layers[0].ElementIDs, ref[document.Element](9))
	g.Elements[0].LocalTransformID = ref[document.LocalTransform](5)
	g.AbstractPaths[0].FillID = ref[document.Fill](2)

	sc := resolve(t, g, Options{})
	els := sc.Layers[0].Elements
	if len(els) != 1 {
		t.Fatalf("got %d elements, want the out-of-range one dropped", len(els))
	}
	if els[0].Transform != nil {
		t.Error("bad transform reference should leave Transform nil")
	}
	if els[0].Fill != nil {
		t.Error("bad fill reference should leave Fill nil")
	}
	if _, ok := els[0].Content.(PathContent); !ok {
		t.Errorf("content = %T, want PathContent", els[0].Content)
	}
	want := []errors.Code{errors.ErrCodeReference, errors.ErrCodeReference, errors.ErrCodeReference}
	if diff := cmp.Diff(want, codes(sc.Warnings)); diff != "" {
		t.Errorf("warnings (-want +got):\n%s", diff)
	}
}

func TestResolveEmptyGeometry(t *testing.T) {
	g := lineGraph()
	g.PathGeometries[0].Nodes = nil

	sc := resolve(t, g, Options{})
	els := sc.Layers[0].Elements
	if len(els) != 1 {
		t.Fatalf("element with empty geometry must still be emitted, got %d", len(els))
	}
	if els[0].Content != nil || els[0].Kind() != "empty" {
		t.Errorf("content = %#v, want nil", els[0].Content)
	}
	if diff := cmp.Diff([]errors.Code{errors.ErrCodeGeometry}, codes(sc.Warnings)); diff != "" {
		t.Errorf("warnings (-want +got):\n%s", diff)
	}
}

func TestResolveCompoundPath(t *testing.T) {
	g := lineGraph()
	g.AbstractPaths[0] = document.AbstractPath{
		FillRule:      1,
		FillID:        ref[document.Fill](0),
		StrokeStyleID: ref[document.StrokeStyle](0),
		SubElement:    document.AbstractPathSubElement{CompoundPath: ref[document.CompoundPath](0)},
	}
	g.CompoundPaths = document.Arena[document.CompoundPath]{{SubpathIDs: document.Refs[document.PathGeometry](0, 7, 1)}}
	g.PathGeometries = append(g.PathGeometries, document.PathGeometry{
		Closed: true,
		Nodes:  []document.Node{{AnchorPoint: document.Vec2{2, 2}}},
	})
	g.Fills = document.Arena[document.Fill]{{Color: &document.Boxed[document.Color]{}}}
	g.PathStrokeStyles = document.Arena[document.StrokeStyle]{{Width: ptr(2.0)}}

	sc := resolve(t, g, Options{})
	el := sc.Layers[0].Elements[0]
	pc, ok := el.Content.(PathContent)
	if !ok {
		t.Fatalf("content = %T", el.Content)
	}
	if !pc.Compound || len(pc.Geometries) != 2 {
		t.Errorf("compound = %v with %d geometries, want 2", pc.Compound, len(pc.Geometries))
	}
	if el.FillRule != 1 || el.Fill == nil || el.Stroke == nil || *el.Stroke.Width != 2 {
		t.Errorf("style not attached: %+v", el)
	}
	if len(sc.Warnings) != 1 {
		t.Errorf("warnings = %v, want one for the missing subpath", sc.Warnings)
	}
}

func TestResolveDepthLimit(t *testing.T) {
	// Element i is a group containing element i+1; the last one is a line.
	const n = 6
	g := lineGraph()
	line := g.Elements[0]
	g.Elements = nil
	g.Groups = nil
	for i := 0; i < n; i++ {
		g.Elements = append(g.Elements, document.Element{
			SubElement: document.ElementSubElement{Group: ref[document.Group](i)},
		})
		g.Groups = append(g.Groups, document.Group{ElementIDs: document.Refs[document.Element](i + 1)})
	}
	g.Elements = append(g.Elements, line)

	sc := resolve(t, g, Options{MaxDepth: 3})
	depth := 0
	sc.Walk(func(_ *Element, d int) bool {
		depth = max(depth, d)
		return true
	})
	if depth != 3 {
		t.Errorf("max depth = %d, want 3", depth)
	}
	if diff := cmp.Diff([]errors.Code{errors.ErrCodeReference}, codes(sc.Warnings)); diff != "" {
		t.Errorf("warnings (-want +got):\n%s", diff)
	}
}

func TestResolveElementLimit(t *testing.T) {
	g := lineGraph()
	g.Layers[0].ElementIDs = document.Refs[document.Element](0, 0, 0)
	_, err := Resolve(g, g.Artboards[0].LayerIDs, Options{MaxElements: 2})
	if !errors.IsStructural(err) {
		t.Errorf("err = %v, want STRUCTURAL", err)
	}
}

func TestResolvePayloadPriority(t *testing.T) {
	img := base64.StdEncoding.EncodeToString([]byte("\x89PNG"))
	txt := base64.StdEncoding.EncodeToString([]byte("bplist"))

	g := lineGraph()
	g.Images = document.Arena[document.Image]{{ImageData: img, Size: &document.Vec2{4, 3}}}
	g.AbstractTexts = document.Arena[document.AbstractText]{{AttributedText: txt}}
	g.SingleStyles = document.Arena[document.SingleStyle]{{
		FillID:    ref[document.Fill](0),
		Opacity:   ptr(0.5),
		BlendMode: ptr(1),
	}}
	g.Fills = document.Arena[document.Fill]{{}}
	g.Elements = append(g.Elements,
		// path and image: path wins
		document.Element{SubElement: document.ElementSubElement{
			Stylable: ref[document.Stylable](0),
			Image:    ref[document.Image](0),
		}},
		// image and text: image wins
		document.Element{SubElement: document.ElementSubElement{
			Image:        ref[document.Image](0),
			AbstractText: ref[document.AbstractText](0),
		}},
		// text styled by a single style
		document.Element{SubElement: document.ElementSubElement{
			AbstractText: ref[document.AbstractText](0),
			SingleStyle:  ref[document.SingleStyle](0),
		}},
	)
	g.Layers[0].ElementIDs = document.Refs[document.Element](1, 2, 3)

	sc := resolve(t, g, Options{})
	els := sc.Layers[0].Elements
	var kinds []string
	for _, e := range els {
		kinds = append(kinds, e.Kind())
	}
	if diff := cmp.Diff([]string{"path", "image", "text"}, kinds); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}

	ic := els[1].Content.(ImageContent)
	if string(ic.Data) != "\x89PNG" || *ic.Size != (document.Vec2{4, 3}) {
		t.Errorf("image content = %+v", ic)
	}

	text := els[2]
	if text.Fill == nil || text.Opacity != 0.5 || text.BlendMode != 1 {
		t.Errorf("single style not applied: %+v", text)
	}
	if string(text.Content.(TextContent).Payload) != "bplist" {
		t.Errorf("payload = %q", text.Content.(TextContent).Payload)
	}
}

func TestResolveUndecodableImage(t *testing.T) {
	g := lineGraph()
	g.Images = document.Arena[document.Image]{{ImageData: "!!"}}
	g.Elements[0].SubElement = document.ElementSubElement{Image: ref[document.Image](0)}

	sc := resolve(t, g, Options{})
	if sc.Layers[0].Elements[0].Content != nil {
		t.Error("undecodable image should drop its payload")
	}
	if len(sc.Warnings) != 1 {
		t.Errorf("warnings = %v", sc.Warnings)
	}
}

func TestStatsAndJSON(t *testing.T) {
	g := lineGraph()
	g.Elements = append(g.Elements, document.Element{
		Name:       "Group",
		SubElement: document.ElementSubElement{Group: ref[document.Group](0)},
	})
	g.Groups = document.Arena[document.Group]{{ElementIDs: document.Refs[document.Element](0)}}
	g.Layers[0].ElementIDs = document.Refs[document.Element](1, 0)

	sc := resolve(t, g, Options{})
	want := Stats{Layers: 1, Elements: 3, Groups: 1, Paths: 2}
	if diff := cmp.Diff(want, sc.Stats()); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}

	data, err := json.Marshal(sc)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{`"kind":"group"`, `"kind":"path"`, `"name":"Group"`} {
		if !strings.Contains(string(data), s) {
			t.Errorf("JSON missing %s:\n%s", s, data)
		}
	}
}

package tree

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/curvesvg/pkg/geom"
	"github.com/matzehuels/curvesvg/pkg/scene"
)

func sampleScene() *scene.Scene {
	line := scene.PathContent{Geometries: []geom.Geometry{{Nodes: []geom.Node{
		{Anchor: geom.Point{X: 0, Y: 0}},
		{Anchor: geom.Point{X: 10, Y: 0}},
	}}}}
	return &scene.Scene{Layers: []scene.Layer{
		{
			Index: 0, Name: "Layer 1", Opacity: 1, IsVisible: true,
			Elements: []*scene.Element{
				{Index: 0, Name: "Group", Opacity: 1, IsGroup: true, Children: []*scene.Element{
					{Index: 1, Name: "Line", Opacity: 0.5, Content: line},
					{Index: 2, Name: "Ghost", Opacity: 1, IsHidden: true, Content: line},
				}},
				{Index: 3, Opacity: 1},
			},
		},
		{Index: 1, Name: "Off", Opacity: 1},
	}}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sampleScene(), Options{Title: "Main"})

	for _, want := range []string{
		"digraph G",
		`"root" [label="Main", shape=folder]`,
		`"layer-0" [label="Layer 1", shape=tab]`,
		`"root" -> "layer-0"`,
		`"layer-0" -> "el-1"`,
		`"el-1" -> "el-2"`,
		`"el-1" -> "el-3"`,
		`"layer-0" -> "el-4"`,
		`label="Group\ngroup"`,
		`label="Line\npath"`,
		`label="(unnamed)\nempty"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s\n%s", want, dot)
		}
	}
}

func TestToDOT_DefaultTitle(t *testing.T) {
	dot := ToDOT(&scene.Scene{}, Options{})
	if !strings.Contains(dot, `label="artboard"`) {
		t.Errorf("ToDOT() missing default title:\n%s", dot)
	}
}

func TestToDOT_Hidden(t *testing.T) {
	dot := ToDOT(sampleScene(), Options{})

	if !strings.Contains(dot, `label="Ghost\npath", style="rounded,filled,dashed"`) {
		t.Error("hidden element should be dashed")
	}
	if !strings.Contains(dot, `label="Off", shape=tab, style="filled,dashed"`) {
		t.Error("invisible layer should be dashed")
	}
	if strings.Contains(dot, `label="Line\npath", style=`) {
		t.Error("visible element should not be dashed")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(sampleScene(), Options{Detailed: true})

	for _, want := range []string{
		`index: 1\nopacity: 0.5\ncontours: 1\nnodes: 2`,
		`children: 2`,
		`layer: 0\nopacity: 1`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed output missing %s", want)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	dot := ToDOT(sampleScene(), Options{})

	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), "digraph G { this is not valid")
	if err == nil {
		t.Error("RenderSVG() expected error for invalid DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))

	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() =\n%s\nwant\n%s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() should leave input without viewBox alone")
	}
}

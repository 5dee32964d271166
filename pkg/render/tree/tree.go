package tree

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/curvesvg/pkg/scene"
)

// Options configures outline rendering.
type Options struct {
	// Title labels the root node. Defaults to "artboard".
	Title string

	// Detailed adds element indices, opacity and payload details to labels.
	// When false, only the name and kind are shown.
	Detailed bool
}

// ToDOT converts a scene to Graphviz DOT format.
func ToDOT(sc *scene.Scene, opts Options) string {
	title := opts.Title
	if title == "" {
		title = "artboard"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, shape=folder];\n", "root", title)

	w := &dotWriter{buf: &buf, detailed: opts.Detailed}
	for i, l := range sc.Layers {
		id := "layer-" + strconv.Itoa(i)
		attrs := []string{fmt.Sprintf("label=%q", layerLabel(l, opts.Detailed)), "shape=tab"}
		if !l.IsVisible {
			attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
		fmt.Fprintf(&buf, "  %q -> %q;\n", "root", id)
		w.elements(id, l.Elements)
	}

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf      *bytes.Buffer
	detailed bool
	next     int
}

// elements writes one node per element occurrence. Shared elements appear
// once per place they are used, matching the resolved tree.
func (w *dotWriter) elements(parent string, els []*scene.Element) {
	for _, e := range els {
		w.next++
		id := "el-" + strconv.Itoa(w.next)
		fmt.Fprintf(w.buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(e, w.detailed), ", "))
		fmt.Fprintf(w.buf, "  %q -> %q;\n", parent, id)
		w.elements(id, e.Children)
	}
}

func layerLabel(l scene.Layer, detailed bool) string {
	if !detailed {
		return l.Name
	}
	return fmt.Sprintf("%s\nlayer: %d\nopacity: %g", l.Name, l.Index, l.Opacity)
}

func fmtLabel(e *scene.Element, detailed bool) string {
	name := e.Name
	if name == "" {
		name = "(unnamed)"
	}
	label := name + "\n" + e.Kind()
	if !detailed {
		return label
	}

	parts := []string{fmt.Sprintf("index: %d", e.Index)}
	if e.Opacity != 1 {
		parts = append(parts, fmt.Sprintf("opacity: %g", e.Opacity))
	}
	switch c := e.Content.(type) {
	case scene.PathContent:
		nodes := 0
		for _, g := range c.Geometries {
			nodes += len(g.Nodes)
		}
		parts = append(parts, fmt.Sprintf("contours: %d", len(c.Geometries)), fmt.Sprintf("nodes: %d", nodes))
	case scene.ImageContent:
		parts = append(parts, fmt.Sprintf("bytes: %d", len(c.Data)))
	case scene.TextContent:
		parts = append(parts, fmt.Sprintf("bytes: %d", len(c.Payload)))
	}
	if e.IsGroup {
		parts = append(parts, fmt.Sprintf("children: %d", len(e.Children)))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(e *scene.Element, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(e, detailed))}
	switch {
	case e.IsHidden:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	case !e.IsGroup && e.Content == nil:
		attrs = append(attrs, "fillcolor=lightgrey", "fontcolor=grey30")
	case e.IsGroup:
		attrs = append(attrs, "fillcolor=\"#eef3fb\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based header with a plain
// pixel-sized one anchored at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(header))
}

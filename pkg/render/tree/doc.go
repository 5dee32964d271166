// Package tree renders the structure of a resolved scene as a diagram.
//
// # Overview
//
// The outline shows the artboard, its layers and every element as boxes
// connected by containment edges, which is handy for finding out why an
// element did or did not end up in the SVG output. Hidden elements are drawn
// dashed and elements whose payload was dropped are greyed out.
//
// # Usage
//
//	dot := tree.ToDOT(sc, tree.Options{Title: "Main"})
//	svg, err := tree.RenderSVG(ctx, dot)
//
// # DOT Format
//
// [ToDOT] produces plain Graphviz DOT source that can be rendered in
// process with [RenderSVG] or saved and processed with external Graphviz
// tools. The layout is left to right so deep group nesting stays readable.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package tree

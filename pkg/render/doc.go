// Package render groups the output formats for resolved scenes.
//
// # SVG Documents
//
// The [svg] subpackage writes a scene as a standalone SVG 1.1 document.
// Layers become Inkscape layer groups; paths, groups, images and text become
// the matching SVG elements. Gradients are collected into a single <defs>
// block written ahead of the body.
//
//	data, err := svg.Render(svg.Artboard{Title: "Main", Frame: frame}, sc,
//	    svg.WithPrecision(4),
//	    svg.WithWarnings(func(err error) { warnings = append(warnings, err) }))
//
// # Scene Trees
//
// The [tree] subpackage draws the layer and element hierarchy as a Graphviz
// diagram, useful for debugging documents that render unexpectedly.
//
//	dot := tree.ToDOT(sc, tree.Options{Title: "Main", Detailed: true})
//	data, err := tree.RenderSVG(ctx, dot)
//
// [svg]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/render/svg
// [tree]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/render/tree
package render

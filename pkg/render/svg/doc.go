// Package svg renders a resolved scene as a standalone SVG document.
//
// # Overview
//
// [Render] writes one artboard: the XML declaration, an <svg> header sized
// from the artboard frame, a single <defs> section, then one layer group
// per scene layer with its elements in paint order.
//
//	out, err := svg.Render(svg.Artboard{
//	    Title: "Main",
//	    Frame: document.Frame{Width: 100, Height: 100},
//	}, sc, svg.WithLogger(logger))
//
// # Elements
//
// Leaf elements are written according to their payload:
//
//   - Paths: the element transform is applied to the geometry, which is
//     written as absolute cubic path data with fill and stroke attributes.
//   - Images: inlined as base64 data URIs with a matrix transform pivoting
//     on the image centre.
//   - Text: one <text> per element at the transform translation, one
//     <tspan> per line.
//
// Groups become <g> containers carrying their own transform, pivoting on
// the bounding box of everything rendered inside them. Hidden elements and
// layers are kept and marked visibility="hidden". Elements whose payload
// was dropped during resolution are written as empty groups so their ids
// survive.
//
// # Options
//
//   - [WithLogger]: logger for recoverable style and payload problems
//   - [WithPrecision]: decimals per number (default: exact coordinates)
//   - [WithWarnings]: callback receiving each recoverable problem
//   - [WithGenerator]: text of the generator comment
package svg

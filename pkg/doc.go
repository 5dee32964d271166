// Package pkg provides the libraries behind curvesvg, a converter from
// zipped vector drawing documents to standalone SVG.
//
// # Overview
//
// A drawing archive holds a manifest, a document JSON with the drawing
// settings, and one object graph per artboard. Records in the graph refer to
// each other by index. curvesvg resolves those references into a tree of
// layers and elements and writes that tree as SVG 1.1 with Inkscape layer
// annotations. The pkg directory is organized into four areas:
//
//  1. Input - [archive], [document]
//  2. Resolution - [scene], [geom], [style], [text], [media]
//  3. Output - [render/svg], [render/tree], [svgpath]
//  4. Plumbing - [pipeline], [cache], [config], [server], [observability], [errors], [buildinfo]
//
// # Architecture
//
// The data flow through curvesvg:
//
//	.curve archive
//	     ↓
//	[archive] (manifest, document, first artboard graph)
//	     ↓
//	[scene] (layers and elements with styles, transforms and payloads)
//	     ↓
//	[render/svg] or [render/tree]
//	     ↓
//	SVG / JSON / DOT output
//
// # Quick Start
//
//	a, err := archive.Open("logo.curve")
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	bundle, err := a.Load(pipeline.DefaultMinFormatVersion)
//	if err != nil {
//	    return err // UNSUPPORTED_VERSION, NOT_FOUND, INVALID_ARCHIVE
//	}
//	result, err := pipeline.Convert(ctx, bundle.Drawing, bundle.Graph, pipeline.Options{})
//	if err != nil {
//	    return err // STRUCTURAL
//	}
//	os.WriteFile("logo.svg", result.Artifacts[pipeline.FormatSVG], 0644)
//
// Recovered problems (dangling references, undecodable styles, empty
// geometry) never fail a conversion. They are logged and collected on
// Result.Warnings.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/scene/...    # Specific package
//	go test -run Example ./... # Examples only
//
// [archive]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/archive
// [document]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/document
// [scene]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/scene
// [geom]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/geom
// [style]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/style
// [text]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/text
// [media]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/media
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/render/svg
// [render/tree]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/render/tree
// [svgpath]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/svgpath
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/curvesvg/pkg/buildinfo
package pkg

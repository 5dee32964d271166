package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/curvesvg/pkg/document"
	"github.com/matzehuels/curvesvg/pkg/errors"
	"github.com/matzehuels/curvesvg/pkg/observability"
	"github.com/matzehuels/curvesvg/pkg/render/svg"
	"github.com/matzehuels/curvesvg/pkg/render/tree"
	"github.com/matzehuels/curvesvg/pkg/scene"
)

// Convert resolves and renders the first artboard of a decoded document.
//
// The format version is checked before anything is resolved: an unsupported
// version returns an UNSUPPORTED_VERSION error and no artifacts. A missing
// artboard or layer list is STRUCTURAL. Everything else is recovered and
// reported on Result.Warnings.
func Convert(ctx context.Context, drawing *document.DrawingData, g *document.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if drawing == nil {
		return nil, errors.New(errors.ErrCodeStructural, "document has no drawing")
	}
	if err := errors.ValidateFormatVersion(drawing.FormatVersion, opts.MinFormatVersion); err != nil {
		return nil, err
	}
	if g == nil || len(g.Artboards) == 0 {
		return nil, errors.New(errors.ErrCodeStructural, "document has no artboards")
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
		Stats: Stats{
			FormatVersion: drawing.FormatVersion,
			ArtboardCount: max(len(drawing.ArtboardPaths), len(g.Artboards)),
		},
	}
	if skipped := result.Stats.ArtboardCount - 1; skipped > 0 {
		w := errors.New(errors.ErrCodeUnsupported, "only the first artboard is converted, %d skipped", skipped)
		opts.Logger.Warn(errors.UserMessage(w), "code", errors.GetCode(w), "artboards", result.Stats.ArtboardCount)
		result.Warnings = append(result.Warnings, w)
	}

	board := &g.Artboards[0]
	art := svg.Artboard{
		Title: g.TitleOrDefault(board),
		Frame: g.FrameOrDefault(board),
		Units: drawing.Settings.UnitsOrDefault(),
	}

	// Stage 1: Resolve
	hooks := observability.Pipeline()
	resolveStart := time.Now()
	hooks.OnResolveStart(ctx, len(board.LayerIDs))
	sc, err := scene.Resolve(g, board.LayerIDs, opts.SceneOptions())
	result.Stats.ResolveTime = time.Since(resolveStart)
	if err != nil {
		hooks.OnResolveComplete(ctx, 0, 0, result.Stats.ResolveTime, err)
		return nil, err
	}
	result.Scene = sc
	result.Stats.Scene = sc.Stats()
	result.Warnings = append(result.Warnings, sc.Warnings...)
	hooks.OnResolveComplete(ctx, result.Stats.Scene.Elements, len(sc.Warnings), result.Stats.ResolveTime, nil)

	opts.Logger.Debug("resolved scene",
		"layers", result.Stats.Scene.Layers,
		"elements", result.Stats.Scene.Elements,
		"warnings", len(sc.Warnings),
		"duration", result.Stats.ResolveTime)

	// Stage 2: Render
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, warnings, err := Render(ctx, art, sc, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Warnings = append(result.Warnings, warnings...)

	return result, nil
}

// Render writes sc in every requested format. Emitter warnings are returned
// alongside the artifacts.
func Render(ctx context.Context, art svg.Artboard, sc *scene.Scene, opts Options) (map[string][]byte, []error, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}

	var warnings []error
	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = svg.Render(art, sc, opts.svgOptions(func(w error) {
				warnings = append(warnings, w)
			})...)
		case FormatJSON:
			data, err = json.MarshalIndent(sc, "", "  ")
		case FormatDOT, FormatOutline:
			if dot == "" {
				dot = tree.ToDOT(sc, tree.Options{Title: art.Title, Detailed: true})
			}
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = tree.RenderSVG(ctx, dot)
			}
		default:
			return nil, nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, warnings, nil
}

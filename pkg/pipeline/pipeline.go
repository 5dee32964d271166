// Package pipeline provides the decode → resolve → render pipeline.
//
// The CLI and the API server both go through this package, so a document
// converts the same way regardless of entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: open the archive, read the manifest, document and first artboard
//  2. Resolve: turn the object graph into a scene tree ([scene.Resolve])
//  3. Render: write the requested formats (SVG, scene JSON, DOT, outline SVG)
//
// The format version is checked between decode and resolve: a document older
// than Options.MinFormatVersion fails with UNSUPPORTED_VERSION and produces
// no output at all.
//
// # Usage
//
// Convert an archive with caching:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, data, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Convert an already decoded document:
//
//	result, err := pipeline.Convert(ctx, drawing, graph, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/curvesvg/pkg/buildinfo"
	"github.com/matzehuels/curvesvg/pkg/cache"
	"github.com/matzehuels/curvesvg/pkg/errors"
	"github.com/matzehuels/curvesvg/pkg/render/svg"
	"github.com/matzehuels/curvesvg/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMinFormatVersion is the oldest document format the resolver
	// understands.
	DefaultMinFormatVersion = 44

	// DefaultMaxDepth bounds group nesting.
	DefaultMaxDepth = scene.DefaultMaxDepth

	// DefaultMaxElements bounds the number of resolved elements.
	DefaultMaxElements = scene.DefaultMaxElements
)

// Format constants for output formats.
const (
	FormatSVG     = "svg"     // the converted drawing
	FormatJSON    = "json"    // the resolved scene tree
	FormatDOT     = "dot"     // scene outline as Graphviz source
	FormatOutline = "outline" // scene outline rendered to SVG
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:     true,
	FormatJSON:    true,
	FormatDOT:     true,
	FormatOutline: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a conversion.
// This struct supports JSON serialization for API requests.
type Options struct {
	MinFormatVersion int      `json:"min_format_version,omitempty"`
	MaxDepth         int      `json:"max_depth,omitempty"`
	MaxElements      int      `json:"max_elements,omitempty"`
	Precision        int      `json:"precision,omitempty"`
	Formats          []string `json:"formats,omitempty"`
	Refresh          bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the resolved tree. It is nil when every artifact came from
	// the cache.
	Scene *scene.Scene

	// ArchiveHash is the content hash of the input archive (runner only).
	ArchiveHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Warnings collects every recovered problem: resolution, rendering, and
	// skipped artboards.
	Warnings []error

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the artifacts were served from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	FormatVersion int           `json:"format_version"`
	ArtboardCount int           `json:"artboard_count"`
	Scene         scene.Stats   `json:"scene"`
	DecodeTime    time.Duration `json:"decode_time"`
	ResolveTime   time.Duration `json:"resolve_time"`
	RenderTime    time.Duration `json:"render_time"`
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: svg, json, dot, outline)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list. An empty string means
// SVG only.
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.MinFormatVersion == 0 {
		o.MinFormatVersion = DefaultMinFormatVersion
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxElements == 0 {
		o.MaxElements = DefaultMaxElements
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	switch {
	case o.MinFormatVersion < 0:
		return errors.New(errors.ErrCodeInvalidInput, "min_format_version must not be negative")
	case o.MaxDepth < 0:
		return errors.New(errors.ErrCodeInvalidInput, "max_depth must not be negative")
	case o.MaxElements < 0:
		return errors.New(errors.ErrCodeInvalidInput, "max_elements must not be negative")
	case o.Precision < 0 || o.Precision > 10:
		return errors.New(errors.ErrCodeInvalidInput, "precision must be between 0 and 10")
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:           format,
		Precision:        o.Precision,
		MaxDepth:         o.MaxDepth,
		MaxElements:      o.MaxElements,
		MinFormatVersion: o.MinFormatVersion,
		Version:          buildinfo.Version,
	}
}

// SceneOptions returns the resolver settings.
func (o *Options) SceneOptions() scene.Options {
	return scene.Options{
		MaxDepth:    o.MaxDepth,
		MaxElements: o.MaxElements,
		Logger:      o.Logger,
	}
}

// svgOptions returns the emitter settings; warnings go to onWarning.
func (o *Options) svgOptions(onWarning func(error)) []svg.Option {
	return []svg.Option{
		svg.WithLogger(o.Logger),
		svg.WithPrecision(o.Precision),
		svg.WithWarnings(onWarning),
		svg.WithGenerator(buildinfo.Generator()),
	}
}

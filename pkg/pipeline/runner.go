package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/curvesvg/pkg/archive"
	"github.com/matzehuels/curvesvg/pkg/cache"
	"github.com/matzehuels/curvesvg/pkg/errors"
	"github.com/matzehuels/curvesvg/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLArtifact,
	}
}

// cachedArtifact is the cache representation of one rendered format. The
// warnings travel with it so a cache hit reports the same problems as the
// conversion that produced it.
type cachedArtifact struct {
	Data     []byte          `json:"data"`
	Warnings []cachedWarning `json:"warnings,omitempty"`
	Stats    Stats           `json:"stats"`
}

type cachedWarning struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// Execute converts an archive held in memory.
func (r *Runner) Execute(ctx context.Context, data []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash := cache.Hash(data)
	if !opts.Refresh {
		if result, ok := r.fromCache(ctx, hash, opts); ok {
			r.Logger.Info("served from cache", "formats", opts.Formats, "archive", hash[:12])
			return result, nil
		}
	}

	// Stage 1: Decode
	hooks := observability.Pipeline()
	decodeStart := time.Now()
	hooks.OnDecodeStart(ctx, len(data))
	bundle, err := decode(data, opts.MinFormatVersion)
	decodeTime := time.Since(decodeStart)
	version := 0
	if bundle != nil {
		version = bundle.Drawing.FormatVersion
	}
	hooks.OnDecodeComplete(ctx, version, decodeTime, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("decoded archive",
		"format_version", version,
		"artboards", bundle.ArtboardCount,
		"duration", decodeTime)

	// Stages 2 and 3: Resolve and render
	result, err := Convert(ctx, bundle.Drawing, bundle.Graph, opts)
	if err != nil {
		return nil, err
	}
	result.ArchiveHash = hash
	result.Stats.DecodeTime = decodeTime

	r.Logger.Info("converted artboard",
		"elements", result.Stats.Scene.Elements,
		"warnings", len(result.Warnings),
		"formats", opts.Formats,
		"duration", result.Stats.ResolveTime+result.Stats.RenderTime)

	r.store(ctx, hash, opts, result)
	return result, nil
}

// decode extracts the document and its first artboard.
func decode(data []byte, minFormatVersion int) (*archive.Bundle, error) {
	a, err := archive.FromBytes(data)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return a.Load(minFormatVersion)
}

// fromCache returns a result when every requested format is cached.
func (r *Runner) fromCache(ctx context.Context, hash string, opts Options) (*Result, bool) {
	hooks := observability.Cache()
	result := &Result{
		ArchiveHash: hash,
		Artifacts:   make(map[string][]byte, len(opts.Formats)),
		CacheInfo:   CacheInfo{RenderHit: true},
	}

	for i, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		var entry cachedArtifact
		if err := json.Unmarshal(data, &entry); err != nil {
			hooks.OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		hooks.OnCacheHit(ctx, "artifact")
		result.Artifacts[format] = entry.Data

		// Every entry of one conversion carries the same warnings and stats.
		if i == 0 {
			result.Stats = entry.Stats
			for _, w := range entry.Warnings {
				result.Warnings = append(result.Warnings, errors.New(w.Code, "%s", w.Message))
			}
		}
	}
	return result, true
}

// store caches each artifact of result. It also runs on Refresh so the new
// result replaces stale entries.
func (r *Runner) store(ctx context.Context, hash string, opts Options, result *Result) {
	warnings := make([]cachedWarning, len(result.Warnings))
	for i, w := range result.Warnings {
		warnings[i] = cachedWarning{Code: errors.GetCode(w), Message: errors.UserMessage(w)}
	}

	for format, data := range result.Artifacts {
		entry, err := json.Marshal(cachedArtifact{Data: data, Warnings: warnings, Stats: result.Stats})
		if err != nil {
			continue
		}
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, entry, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(entry))
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

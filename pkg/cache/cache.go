// Package cache stores converted artifacts keyed by archive content.
//
// Three backends implement [Cache]:
//
//   - [FileCache] keeps one JSON file per entry under a directory (CLI)
//   - [RedisCache] shares entries between API server replicas
//   - [NullCache] never stores anything (--no-cache)
//
// Keys come from a [Keyer] so callers never assemble key strings by hand:
//
//	key := keyer.ArtifactKey(cache.Hash(archive), cache.ArtifactKeyOpts{Format: "svg"})
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// Default lifetimes for cached entries.
const (
	// TTLArtifact is used for rendered outputs (SVG, JSON, DOT).
	TTLArtifact = 7 * 24 * time.Hour

	// TTLServer is the shorter lifetime used by the API server.
	TTLServer = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey identifies one rendered output of an archive.
	ArtifactKey(archiveHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the conversion settings that change the output bytes.
type ArtifactKeyOpts struct {
	Format           string `json:"format"`
	Precision        int    `json:"precision"`
	MaxDepth         int    `json:"max_depth"`
	MaxElements      int    `json:"max_elements"`
	MinFormatVersion int    `json:"min_format_version"`
	Version          string `json:"version,omitempty"`
}

// DefaultKeyer generates unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256>" over the archive hash and options.
func (DefaultKeyer) ArtifactKey(archiveHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", archiveHash, opts)
}

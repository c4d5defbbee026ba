// Package cache provides pluggable byte-oriented caching for pipeline
// results and encoded artifacts.
//
// Three backends implement the [Cache] interface: [FileCache] for CLI runs
// (entries on disk under the user cache directory), [RedisCache] for the
// HTTP server where several processes share one store, and [NullCache] to
// disable caching entirely.
//
// Keys are produced by a [Keyer] so every caller derives them the same way.
// A sorted result is addressed by the hash of the input image plus the full
// set of sorting options; an encoded artifact is addressed by the hash of
// the result it encodes plus the encoding options.
package cache

import (
	"context"
	"time"
)

// Cache TTLs. A sorted result is deterministic for a given image and
// option set, so its TTL exists to bound disk growth rather than to expire
// stale data.
const (
	// TTLResult is the lifetime of cached sorted rasters.
	TTLResult = 7 * 24 * time.Hour
	// TTLArtifact is the lifetime of cached encoded images.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented store with per-entry TTLs.
//
// Get reports (data, true, nil) on a hit and (nil, false, nil) on a miss;
// the error return is reserved for backend failures. Implementations must
// be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive TTL stores the entry without
	// expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ResultKeyOpts carries every option that changes a sorted result. Two runs
// with equal image hashes and equal ResultKeyOpts produce byte-identical
// output, so they may share a cache entry.
type ResultKeyOpts struct {
	Low        float64 `json:"low"`
	High       float64 `json:"high"`
	Channel    string  `json:"channel"`
	Invert     bool    `json:"invert"`
	Jitter     float64 `json:"jitter"`
	Seed       uint64  `json:"seed"`
	Horizontal bool    `json:"horizontal"`
	Metric     string  `json:"metric"`
	Descending bool    `json:"descending"`
	Gamma      float64 `json:"gamma"`
}

// ArtifactKeyOpts carries the options that change an encoded artifact
// derived from a result.
type ArtifactKeyOpts struct {
	Format  string `json:"format"`
	Quality int    `json:"quality"`
}

// Keyer generates cache keys for the two cacheable layers: sorted raster
// results and encoded image artifacts.
type Keyer interface {
	// ResultKey generates a key for a sorted result, from the hash of the
	// input image and the sorting options.
	ResultKey(imageHash string, opts ResultKeyOpts) string

	// ArtifactKey generates a key for an encoded artifact, from the hash
	// of the sorted result and the encoding options.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer derives keys by hashing the JSON form of the key components.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ResultKey generates a key for a sorted result.
func (k *DefaultKeyer) ResultKey(imageHash string, opts ResultKeyOpts) string {
	return hashKey("result", imageHash, opts)
}

// ArtifactKey generates a key for an encoded artifact.
func (k *DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}

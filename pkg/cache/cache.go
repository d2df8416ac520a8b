// Package cache stores generated terrain data and rendered artifacts.
//
// # Overview
//
// Terrain generation is deterministic: the same options always produce the
// same site field and the same image. The pipeline therefore keys its
// outputs by a hash of the options that influence them and consults a
// [Cache] before doing any work.
//
// Two kinds of entries are stored:
//
//   - Field entries, keyed by [Keyer.FieldKey], hold the per-site outlet
//     and erodibility vectors.
//   - Artifact entries, keyed by [Keyer.ArtifactKey], hold encoded PNG,
//     JPEG or CSV output. Artifact keys chain off the field key hash, so a
//     new colormap or image size reuses nothing but never collides.
//
// # Backends
//
//   - [FileCache]: JSON files under the user cache directory (CLI default)
//   - [NullCache]: stores nothing (--no-cache)
//   - [RedisCache]: a shared Redis instance (github.com/redis/go-redis/v9)
//   - [MongoCache]: a MongoDB collection with a TTL index
//     (go.mongodb.org/mongo-driver)
//
// [Open] picks a backend from a URL.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLField    = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss with ok=false and a nil error. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// FieldKeyOpts are the options that determine a synthesized site field.
type FieldKeyOpts struct {
	BoundWidth         float64 `json:"bw"`
	BoundHeight        float64 `json:"bh"`
	Seed               int64   `json:"seed"`
	Sites              int     `json:"sites"`
	Relaxations        int     `json:"relax"`
	Noise              string  `json:"noise"`
	FaultScale         float64 `json:"fault"`
	ErodibilityPower   float64 `json:"power"`
	LandRatio          float64 `json:"land"`
	AllBoundaryOutlets bool    `json:"hull"`
}

// ArtifactKeyOpts are the render options layered on top of a field.
type ArtifactKeyOpts struct {
	MaxSlope     float64 `json:"slope"`
	Width        int     `json:"w"`
	Height       int     `json:"h"`
	Format       string  `json:"fmt"`
	JPEGQuality  int     `json:"q,omitempty"`
	Supersample  int     `json:"ss,omitempty"`
	ColormapHash string  `json:"cmap"`
}

// Keyer builds cache keys.
type Keyer interface {
	FieldKey(opts FieldKeyOpts) string
	ArtifactKey(fieldHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FieldKey returns "field:<sha256 of opts>".
func (DefaultKeyer) FieldKey(opts FieldKeyOpts) string {
	return hashKey("field", opts)
}

// ArtifactKey returns "artifact:<sha256 of fieldHash and opts>".
func (DefaultKeyer) ArtifactKey(fieldHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", fieldHash, opts)
}

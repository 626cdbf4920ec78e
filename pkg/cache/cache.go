// Package cache stores rendered chart artifacts.
//
// # Overview
//
// Rendering is deterministic: the same dataset, mode sequence and render
// options always produce the same bytes. The pipeline therefore keys
// rendered artifacts by a hash of the dataset plus the options and skips
// layout and rendering entirely on a hit.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory; the CLI default
//   - [RedisCache]: a shared Redis instance
//   - [MongoCache]: a MongoDB collection
//   - [NullCache]: never stores anything; used with --no-cache
//
// All backends implement [Cache] and treat expired or unreadable entries
// as misses.
//
// # Keys
//
// [Keyer] builds cache keys. [DefaultKeyer] hashes its inputs;
// [ScopedKeyer] prefixes another keyer's keys so several tools can share a
// backend without collisions.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// TTLArtifact is how long rendered artifacts are kept.
const TTLArtifact = 7 * 24 * time.Hour

// TTLDataset is how long parsed datasets are kept.
const TTLDataset = 24 * time.Hour

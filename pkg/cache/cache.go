// Package cache provides byte-level caching with pluggable backends.
//
// Three implementations cover the deployment modes of practicemap:
//   - FileCache: local disk, used by the CLI
//   - RedisCache: shared cache for the HTTP server
//   - NullCache: caching disabled
//
// Keys are built with the helper functions below so every component derives
// them the same way. Materialized trees and HTTP responses are keyed by the
// catalog content hash, which makes invalidation automatic: a reloaded
// catalog simply stops hitting the old entries.
package cache

import (
	"context"
	"time"
)

// Cache is the storage-agnostic caching interface.
// Implementations must treat a missing key as (nil, false, nil), not an error.
type Cache interface {
	// Get retrieves a value. The second result reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TreeKey returns the cache key for a materialized practice tree.
func TreeKey(catalogHash, rootID string) string {
	return "tree:" + catalogHash + ":" + rootID
}

// ResponseKey returns the cache key for a rendered HTTP response body.
func ResponseKey(catalogHash, route string) string {
	return "resp:" + catalogHash + ":" + route
}

// ShareKey returns the cache key for a stored share link.
func ShareKey(id string) string {
	return "share:" + id
}

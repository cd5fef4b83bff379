package cache

import (
	"context"
	"time"
)

// ImageCache defines the interface for caching image payloads by key.
// Implementations store opaque bytes with a uniform TTL.
type ImageCache interface {
	// Get retrieves an image from cache by key.
	// Returns nil, nil if the key is not present (cache miss).
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores an image in cache with the specified TTL. Empty payloads
	// are skipped silently; there is no point caching them.
	Set(ctx context.Context, key string, image []byte, ttl time.Duration) error
}

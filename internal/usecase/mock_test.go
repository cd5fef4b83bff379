package usecase

import (
	"context"
	"time"

	"github.com/hszk-dev/gothumb/internal/domain/model"
)

// mockImageCache provides a configurable mock for cache.ImageCache.
type mockImageCache struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, image []byte, ttl time.Duration) error
}

func (m *mockImageCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockImageCache) Set(ctx context.Context, key string, image []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, image, ttl)
	}
	return nil
}

// memoryImageCache is a map-backed cache for tests exercising the full
// write-then-hit flow.
type memoryImageCache struct {
	entries map[string][]byte
}

func newMemoryImageCache() *memoryImageCache {
	return &memoryImageCache{entries: map[string][]byte{}}
}

func (m *memoryImageCache) Get(ctx context.Context, key string) ([]byte, error) {
	return m.entries[key], nil
}

func (m *memoryImageCache) Set(ctx context.Context, key string, image []byte, ttl time.Duration) error {
	if len(image) == 0 {
		return nil
	}
	m.entries[key] = image
	return nil
}

// mockResolver provides a configurable mock for repository.BrowseImageResolver.
type mockResolver struct {
	resolveFn func(ctx context.Context, conceptID string, conceptType model.ConceptType, cascade bool) (string, bool)
}

func (m *mockResolver) ResolveImageURL(ctx context.Context, conceptID string, conceptType model.ConceptType, cascade bool) (string, bool) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, conceptID, conceptType, cascade)
	}
	return "", false
}

// mockDownloader provides a configurable mock for repository.ImageDownloader.
type mockDownloader struct {
	downloadFn func(ctx context.Context, url string) ([]byte, error)
}

func (m *mockDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, url)
	}
	return nil, nil
}

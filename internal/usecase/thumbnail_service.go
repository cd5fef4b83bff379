package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hszk-dev/gothumb/internal/domain/model"
	"github.com/hszk-dev/gothumb/internal/domain/repository"
	"github.com/hszk-dev/gothumb/internal/infrastructure/cache"
	"github.com/hszk-dev/gothumb/internal/infrastructure/metrics"
	"github.com/hszk-dev/gothumb/internal/resizer"
)

// ThumbnailRequest contains the parameters of one thumbnail resolution.
type ThumbnailRequest struct {
	ConceptID   string
	ConceptType model.ConceptType
	Dimensions  model.Dimensions
	// CascadeConcepts enables falling back to granule metadata when a
	// collection has no browse image of its own.
	CascadeConcepts bool
	// ReturnDefault substitutes the placeholder image (with a 200) for any
	// unrecoverable condition instead of an error status.
	ReturnDefault bool
}

// ThumbnailService defines the interface for thumbnail resolution.
type ThumbnailService interface {
	// GetThumbnail runs the resolution pipeline. It always produces a
	// response; failures are encoded in the thumbnail's status code, never
	// returned as errors.
	GetThumbnail(ctx context.Context, req ThumbnailRequest) *model.Thumbnail
}

// ThumbnailServiceConfig holds configuration for the thumbnail service.
type ThumbnailServiceConfig struct {
	// CacheTTL is the expiry applied to every cache write.
	CacheTTL time.Duration
}

// DefaultThumbnailServiceConfig returns the default configuration.
func DefaultThumbnailServiceConfig() ThumbnailServiceConfig {
	return ThumbnailServiceConfig{
		CacheTTL: 24 * time.Hour,
	}
}

// thumbnailService composes the cache, the metadata resolver, the downloader,
// and the resizer into the cache-first resolution pipeline.
type thumbnailService struct {
	cache       cache.ImageCache
	resolver    repository.BrowseImageResolver
	downloader  repository.ImageDownloader
	resizer     resizer.Resizer
	placeholder *resizer.PlaceholderBuilder
	sfGroup     singleflight.Group

	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewThumbnailService creates a new ThumbnailService instance.
func NewThumbnailService(
	imageCache cache.ImageCache,
	resolver repository.BrowseImageResolver,
	downloader repository.ImageDownloader,
	rz resizer.Resizer,
	placeholder *resizer.PlaceholderBuilder,
	cfg ThumbnailServiceConfig,
	logger *slog.Logger,
) ThumbnailService {
	return &thumbnailService{
		cache:       imageCache,
		resolver:    resolver,
		downloader:  downloader,
		resizer:     rz,
		placeholder: placeholder,
		cacheTTL:    cfg.CacheTTL,
		logger:      logger,
	}
}

// GetThumbnail coalesces identical concurrent requests with singleflight and
// delegates to the pipeline. Concurrent requests for the same key may still
// recompute after the first flight lands; writes are last-write-wins.
func (s *thumbnailService) GetThumbnail(ctx context.Context, req ThumbnailRequest) *model.Thumbnail {
	key := fmt.Sprintf("%s|%t|%t",
		cache.BuildKey(req.ConceptID, req.ConceptType, req.Dimensions),
		req.CascadeConcepts,
		req.ReturnDefault,
	)

	result, _, shared := s.sfGroup.Do(key, func() (any, error) {
		return s.resolve(ctx, req), nil
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	return result.(*model.Thumbnail)
}

// resolve walks the pipeline states in order: resized-cache lookup,
// original-cache lookup, metadata resolution, download, transform, cache
// writes. Every path lands in exactly one terminal response.
func (s *thumbnailService) resolve(ctx context.Context, req ThumbnailRequest) *model.Thumbnail {
	key := cache.BuildKey(req.ConceptID, req.ConceptType, req.Dimensions)

	if data := s.cacheGet(ctx, key); data != nil {
		s.countOutcome(req, metrics.OutcomeCached)
		return model.NewThumbnail(data)
	}

	originalKey := cache.BuildKey(req.ConceptID, req.ConceptType, model.Dimensions{})

	var imageData []byte
	if originalKey != key {
		imageData = s.cacheGet(ctx, originalKey)
	}

	if imageData == nil {
		url, found := s.resolver.ResolveImageURL(ctx, req.ConceptID, req.ConceptType, req.CascadeConcepts)
		if !found {
			return s.respondNotFound(req)
		}

		data, err := s.downloader.Download(ctx, url)
		if err != nil {
			s.logger.Warn("browse image download failed",
				slog.String("concept_id", req.ConceptID),
				slog.String("error", err.Error()),
			)
			return s.respondDegraded(req)
		}
		imageData = data

		// Cache the original so later requests for other sizes skip the
		// download, but only when the requested key isn't already the
		// original key.
		if originalKey != key {
			s.cacheSet(ctx, originalKey, imageData)
		}
	}

	thumbnail, err := s.resizer.Resize(imageData, req.Dimensions)
	if err != nil {
		s.logger.Error("thumbnail transform failed",
			slog.String("concept_id", req.ConceptID),
			slog.String("error", err.Error()),
		)
		return s.respondDegraded(req)
	}

	s.cacheSet(ctx, key, thumbnail)

	s.countOutcome(req, metrics.OutcomeResolved)
	return model.NewThumbnail(thumbnail)
}

// respondNotFound terminates a request for which no browse image could be
// resolved: a scaled placeholder with a 200 when the caller asked for the
// default, otherwise an empty 404.
func (s *thumbnailService) respondNotFound(req ThumbnailRequest) *model.Thumbnail {
	if !req.ReturnDefault {
		s.countOutcome(req, metrics.OutcomeNotFound)
		return &model.Thumbnail{StatusCode: http.StatusNotFound}
	}
	return s.respondPlaceholder(req)
}

// respondDegraded terminates a request that resolved an image but failed to
// obtain or process it: a scaled placeholder with a 200 when the caller asked
// for the default, otherwise a 500.
func (s *thumbnailService) respondDegraded(req ThumbnailRequest) *model.Thumbnail {
	if !req.ReturnDefault {
		s.countOutcome(req, metrics.OutcomeError)
		return &model.Thumbnail{StatusCode: http.StatusInternalServerError}
	}
	return s.respondPlaceholder(req)
}

func (s *thumbnailService) respondPlaceholder(req ThumbnailRequest) *model.Thumbnail {
	body, err := s.placeholder.Build(req.Dimensions)
	if err != nil {
		// The placeholder is the final fallback; nothing further to degrade to.
		s.logger.Error("placeholder build failed",
			slog.String("concept_id", req.ConceptID),
			slog.String("error", err.Error()),
		)
		s.countOutcome(req, metrics.OutcomeError)
		return &model.Thumbnail{StatusCode: http.StatusInternalServerError}
	}

	s.countOutcome(req, metrics.OutcomePlaceholder)
	return model.NewThumbnail(body)
}

// cacheGet treats any cache error as a miss; the store being down never
// fails a request.
func (s *thumbnailService) cacheGet(ctx context.Context, key string) []byte {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache get failed, treating as miss",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return data
}

// cacheSet is fire-and-forget: write failures are logged, never propagated.
func (s *thumbnailService) cacheSet(ctx context.Context, key string, data []byte) {
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("cache set failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

func (s *thumbnailService) countOutcome(req ThumbnailRequest, outcome string) {
	label := "other"
	switch {
	case req.ConceptType.IsGranule():
		label = "granule"
	case req.ConceptType.IsCollection():
		label = "collection"
	}
	metrics.ThumbnailRequestsTotal.WithLabelValues(label, outcome).Inc()
}

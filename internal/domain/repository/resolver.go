package repository

import (
	"context"

	"github.com/hszk-dev/gothumb/internal/domain/model"
)

// BrowseImageResolver locates a browse-image URL for a catalog concept.
//
// Resolution fails closed: network errors, error payloads, and malformed
// metadata all collapse to "not found" rather than surfacing as errors, so
// callers only ever distinguish found from not found.
type BrowseImageResolver interface {
	// ResolveImageURL returns the URL of a browse image for the concept, or
	// found=false when none can be determined. For collections with no browse
	// image of their own, cascade enables scanning the collection's first page
	// of granules for the first one exposing a browse image.
	ResolveImageURL(ctx context.Context, conceptID string, conceptType model.ConceptType, cascade bool) (url string, found bool)
}

// Package resizer converts raw image bytes to PNG thumbnails.
package resizer

import "github.com/hszk-dev/gothumb/internal/domain/model"

// Resizer defines the interface for image transformation.
//
// Output is always PNG regardless of the source format. When dims is empty
// the image is re-encoded at its native size. Otherwise the image is scaled
// to fit inside the requested bounding box, preserving aspect ratio, never
// cropping and never upscaling beyond the source.
type Resizer interface {
	Resize(data []byte, dims model.Dimensions) ([]byte, error)
}

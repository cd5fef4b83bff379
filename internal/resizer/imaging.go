package resizer

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/hszk-dev/gothumb/internal/domain/model"
)

// ImagingResizer implements Resizer using the imaging library.
type ImagingResizer struct{}

// NewImagingResizer creates a new imaging-backed resizer.
func NewImagingResizer() *ImagingResizer {
	return &ImagingResizer{}
}

// Resize decodes data, scales it per dims, and re-encodes it as PNG.
// Corrupt or unsupported input is a hard error; the pipeline decides whether
// to degrade to a placeholder.
func (r *ImagingResizer) Resize(data []byte, dims model.Dimensions) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	scaled := scale(img, dims)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, scaled, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return buf.Bytes(), nil
}

// scale fits img inside the requested bounding box. Fit preserves aspect
// ratio and never scales up; single-axis requests scale by that axis alone,
// capped at the source size.
func scale(img image.Image, dims model.Dimensions) image.Image {
	if dims.Empty() {
		return img
	}

	bounds := img.Bounds()

	switch {
	case dims.Width > 0 && dims.Height > 0:
		return imaging.Fit(img, dims.Width, dims.Height, imaging.Lanczos)
	case dims.Width > 0:
		if dims.Width >= bounds.Dx() {
			return img
		}
		return imaging.Resize(img, dims.Width, 0, imaging.Lanczos)
	default:
		if dims.Height >= bounds.Dy() {
			return img
		}
		return imaging.Resize(img, 0, dims.Height, imaging.Lanczos)
	}
}

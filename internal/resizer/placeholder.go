package resizer

import (
	_ "embed"
	"fmt"

	"github.com/hszk-dev/gothumb/internal/domain/model"
)

// unavailablePNG is the bundled "image unavailable" asset. It ships with the
// binary so building a placeholder never touches the network.
//
//go:embed assets/image_unavailable.png
var unavailablePNG []byte

// PlaceholderBuilder produces the fixed fallback image scaled to requested
// dimensions. It is the last resort of the pipeline: a failure here fails
// the request outright.
type PlaceholderBuilder struct {
	resizer Resizer
}

// NewPlaceholderBuilder creates a placeholder builder using the given resizer.
func NewPlaceholderBuilder(r Resizer) *PlaceholderBuilder {
	return &PlaceholderBuilder{resizer: r}
}

// Build returns the unavailable-image asset scaled to dims.
func (b *PlaceholderBuilder) Build(dims model.Dimensions) ([]byte, error) {
	out, err := b.resizer.Resize(unavailablePNG, dims)
	if err != nil {
		return nil, fmt.Errorf("build placeholder: %w", err)
	}
	return out, nil
}

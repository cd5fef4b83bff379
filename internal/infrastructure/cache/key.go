package cache

import (
	"strconv"
	"strings"

	"github.com/hszk-dev/gothumb/internal/domain/model"
)

const (
	// heightToken and widthToken stand in for absent dimensions so that the
	// original, unresized image has its own stable cache key.
	heightToken = "h"
	widthToken  = "w"

	keySeparator = "-"
)

// BuildKey derives the cache key for a concept's thumbnail at the given
// dimensions. It is a pure function: the same inputs always produce the same
// key, different dimensions produce different keys, and the dimension-less
// key (the "original image" key) never collides with a sized one because
// absent axes are replaced by non-numeric tokens.
func BuildKey(conceptID string, conceptType model.ConceptType, dims model.Dimensions) string {
	height := heightToken
	if dims.Height > 0 {
		height = strconv.Itoa(dims.Height)
	}

	width := widthToken
	if dims.Width > 0 {
		width = strconv.Itoa(dims.Width)
	}

	parts := make([]string, 0, 4)
	for _, part := range []string{conceptID, conceptType.String(), height, width} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, keySeparator)
}

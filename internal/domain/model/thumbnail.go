package model

import (
	"errors"
	"net/http"
)

// ConceptType identifies the kind of catalog record a thumbnail is requested
// for. The raw string is preserved because cache keys are derived from the
// value exactly as the client sent it.
type ConceptType string

var (
	ErrEmptyConceptID     = errors.New("concept ID cannot be empty")
	ErrUnknownConceptType = errors.New("unknown concept type")
)

// IsGranule reports whether the type names a granule record.
func (t ConceptType) IsGranule() bool {
	return t == "granule" || t == "granules"
}

// IsCollection reports whether the type names a collection record.
// "dataset" is a legacy synonym for "collection" and is still accepted.
func (t ConceptType) IsCollection() bool {
	switch t {
	case "collection", "collections", "dataset", "datasets":
		return true
	default:
		return false
	}
}

// IsValid reports whether the type names any supported record kind.
func (t ConceptType) IsValid() bool {
	return t.IsGranule() || t.IsCollection()
}

func (t ConceptType) String() string {
	return string(t)
}

// Dimensions holds the requested output size of a thumbnail. A zero value
// for either axis means that axis was not requested; a fully zero Dimensions
// asks for the image at its native size.
type Dimensions struct {
	Height int
	Width  int
}

// Empty reports whether neither axis was requested.
func (d Dimensions) Empty() bool {
	return d.Height == 0 && d.Width == 0
}

// Thumbnail is the terminal result of one pipeline invocation: the image
// payload and the HTTP status it should be served with. Body is never empty
// on a 200; it is empty only on a 404 where the caller declined the
// placeholder fallback.
type Thumbnail struct {
	StatusCode int
	Body       []byte
}

// NewThumbnail returns a 200 thumbnail carrying the given image bytes.
func NewThumbnail(body []byte) *Thumbnail {
	return &Thumbnail{
		StatusCode: http.StatusOK,
		Body:       body,
	}
}

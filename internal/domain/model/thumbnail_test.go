package model

import (
	"net/http"
	"testing"
)

func TestConceptType_Classification(t *testing.T) {
	tests := []struct {
		value        ConceptType
		isGranule    bool
		isCollection bool
	}{
		{value: "granule", isGranule: true},
		{value: "granules", isGranule: true},
		{value: "collection", isCollection: true},
		{value: "collections", isCollection: true},
		{value: "dataset", isCollection: true},
		{value: "datasets", isCollection: true},
		{value: "service"},
		{value: ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			if got := tt.value.IsGranule(); got != tt.isGranule {
				t.Errorf("IsGranule() = %v, want %v", got, tt.isGranule)
			}
			if got := tt.value.IsCollection(); got != tt.isCollection {
				t.Errorf("IsCollection() = %v, want %v", got, tt.isCollection)
			}
			wantValid := tt.isGranule || tt.isCollection
			if got := tt.value.IsValid(); got != wantValid {
				t.Errorf("IsValid() = %v, want %v", got, wantValid)
			}
		})
	}
}

func TestDimensions_Empty(t *testing.T) {
	if !(Dimensions{}).Empty() {
		t.Error("zero dimensions must be empty")
	}
	if (Dimensions{Height: 100}).Empty() {
		t.Error("height-only dimensions must not be empty")
	}
	if (Dimensions{Width: 100}).Empty() {
		t.Error("width-only dimensions must not be empty")
	}
}

func TestNewThumbnail(t *testing.T) {
	thumb := NewThumbnail([]byte("image"))

	if thumb.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", thumb.StatusCode)
	}
	if string(thumb.Body) != "image" {
		t.Errorf("Body = %q", thumb.Body)
	}
}

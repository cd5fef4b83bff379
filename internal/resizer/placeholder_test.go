package resizer

import (
	"bytes"
	"testing"

	"github.com/hszk-dev/gothumb/internal/domain/model"
)

func TestPlaceholderBuilder_Build(t *testing.T) {
	b := NewPlaceholderBuilder(NewImagingResizer())

	got, err := b.Build(model.Dimensions{Height: 50, Width: 50})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(got) == 0 {
		t.Fatal("placeholder must not be empty")
	}
	if !bytes.HasPrefix(got, pngSignature) {
		t.Error("placeholder is not PNG encoded")
	}

	w, h := decodeSize(t, got)
	if w > 50 || h > 50 {
		t.Errorf("size = %dx%d, want within 50x50", w, h)
	}
}

func TestPlaceholderBuilder_NativeSize(t *testing.T) {
	b := NewPlaceholderBuilder(NewImagingResizer())

	got, err := b.Build(model.Dimensions{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(got) == 0 {
		t.Fatal("placeholder must not be empty")
	}
}

func TestPlaceholderBuilder_Deterministic(t *testing.T) {
	b := NewPlaceholderBuilder(NewImagingResizer())
	dims := model.Dimensions{Height: 85, Width: 85}

	first, err := b.Build(dims)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	second, err := b.Build(dims)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("placeholder output must be deterministic")
	}
}

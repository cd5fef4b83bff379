package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hszk-dev/gothumb/internal/domain/model"
	"github.com/hszk-dev/gothumb/internal/usecase"
)

// mockThumbnailService provides a configurable mock for usecase.ThumbnailService.
type mockThumbnailService struct {
	getFn func(ctx context.Context, req usecase.ThumbnailRequest) *model.Thumbnail
}

func (m *mockThumbnailService) GetThumbnail(ctx context.Context, req usecase.ThumbnailRequest) *model.Thumbnail {
	if m.getFn != nil {
		return m.getFn(ctx, req)
	}
	return model.NewThumbnail([]byte("image"))
}

func setupRouter(svc usecase.ThumbnailService) *chi.Mux {
	h := NewThumbnailHandler(svc, ThumbnailHandlerConfig{
		DefaultDimensions: model.Dimensions{Height: 85, Width: 85},
		RequestTimeout:    30 * time.Second,
	})

	r := chi.NewRouter()
	r.Get("/scale/{conceptType}/{conceptID}", h.Scale)
	return r
}

func doRequest(t *testing.T, router http.Handler, path string) (*httptest.ResponseRecorder, GatewayResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope GatewayResponse
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response envelope: %v", err)
	}
	return rec, envelope
}

func TestThumbnailHandler_Scale(t *testing.T) {
	image := []byte{0x89, 'P', 'N', 'G'}

	var captured usecase.ThumbnailRequest
	svc := &mockThumbnailService{
		getFn: func(ctx context.Context, req usecase.ThumbnailRequest) *model.Thumbnail {
			captured = req
			return model.NewThumbnail(image)
		},
	}

	rec, envelope := doRequest(t, setupRouter(svc), "/scale/collections/C1-PROV?h=200&w=200")

	if rec.Code != http.StatusOK {
		t.Errorf("HTTP status = %d, want 200", rec.Code)
	}
	if !envelope.IsBase64Encoded {
		t.Error("envelope must flag base64 transport")
	}
	if envelope.StatusCode != http.StatusOK {
		t.Errorf("envelope statusCode = %d, want 200", envelope.StatusCode)
	}
	if envelope.Headers["Content-Type"] != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", envelope.Headers["Content-Type"])
	}
	if envelope.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Errorf("CORS header = %q, want *", envelope.Headers["Access-Control-Allow-Origin"])
	}
	if envelope.Body != base64.StdEncoding.EncodeToString(image) {
		t.Errorf("body = %q, want base64 image", envelope.Body)
	}

	if captured.ConceptID != "C1-PROV" {
		t.Errorf("ConceptID = %q", captured.ConceptID)
	}
	if captured.ConceptType != "collections" {
		t.Errorf("ConceptType = %q", captured.ConceptType)
	}
	if captured.Dimensions != (model.Dimensions{Height: 200, Width: 200}) {
		t.Errorf("Dimensions = %+v", captured.Dimensions)
	}
	if !captured.CascadeConcepts || !captured.ReturnDefault {
		t.Error("cascadeConcepts and returnDefault must default to true")
	}
}

func TestThumbnailHandler_Scale_DefaultDimensions(t *testing.T) {
	var captured usecase.ThumbnailRequest
	svc := &mockThumbnailService{
		getFn: func(ctx context.Context, req usecase.ThumbnailRequest) *model.Thumbnail {
			captured = req
			return model.NewThumbnail([]byte("image"))
		},
	}

	doRequest(t, setupRouter(svc), "/scale/granules/G1-PROV")

	if captured.Dimensions != (model.Dimensions{Height: 85, Width: 85}) {
		t.Errorf("Dimensions = %+v, want configured defaults", captured.Dimensions)
	}
}

func TestThumbnailHandler_Scale_QueryFlags(t *testing.T) {
	var captured usecase.ThumbnailRequest
	svc := &mockThumbnailService{
		getFn: func(ctx context.Context, req usecase.ThumbnailRequest) *model.Thumbnail {
			captured = req
			return model.NewThumbnail([]byte("image"))
		},
	}

	doRequest(t, setupRouter(svc), "/scale/collections/C1?cascadeConcepts=false&returnDefault=false")

	if captured.CascadeConcepts {
		t.Error("cascadeConcepts=false not honored")
	}
	if captured.ReturnDefault {
		t.Error("returnDefault=false not honored")
	}
}

func TestThumbnailHandler_Scale_NotFoundEnvelope(t *testing.T) {
	svc := &mockThumbnailService{
		getFn: func(ctx context.Context, req usecase.ThumbnailRequest) *model.Thumbnail {
			return &model.Thumbnail{StatusCode: http.StatusNotFound}
		},
	}

	rec, envelope := doRequest(t, setupRouter(svc), "/scale/collections/C1?returnDefault=false")

	if rec.Code != http.StatusNotFound {
		t.Errorf("HTTP status = %d, want 404", rec.Code)
	}
	if envelope.StatusCode != http.StatusNotFound {
		t.Errorf("envelope statusCode = %d, want 404", envelope.StatusCode)
	}
	if envelope.Body != "" {
		t.Errorf("body = %q, want empty on 404", envelope.Body)
	}
}

func TestThumbnailHandler_Scale_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "unknown concept type", path: "/scale/services/S1"},
		{name: "non-numeric height", path: "/scale/collections/C1?h=abc"},
		{name: "negative width", path: "/scale/collections/C1?w=-5"},
		{name: "zero height", path: "/scale/collections/C1?h=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockThumbnailService{
				getFn: func(ctx context.Context, req usecase.ThumbnailRequest) *model.Thumbnail {
					t.Error("service must not be called for invalid input")
					return model.NewThumbnail([]byte("image"))
				},
			}

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			setupRouter(svc).ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("HTTP status = %d, want 400", rec.Code)
			}
		})
	}
}

package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hszk-dev/gothumb/internal/domain/model"
	"github.com/hszk-dev/gothumb/internal/usecase"
)

// ThumbnailHandlerConfig holds configuration for ThumbnailHandler.
type ThumbnailHandlerConfig struct {
	// DefaultDimensions is applied when the query carries no h/w parameters.
	// A zero axis means "leave that axis unconstrained".
	DefaultDimensions model.Dimensions
	// RequestTimeout is the overall deadline of one resolution; the download
	// budget is derived from it.
	RequestTimeout time.Duration
}

// ThumbnailHandler handles thumbnail HTTP requests.
type ThumbnailHandler struct {
	svc      usecase.ThumbnailService
	defaults model.Dimensions
	timeout  time.Duration
}

// NewThumbnailHandler creates a new ThumbnailHandler.
func NewThumbnailHandler(svc usecase.ThumbnailService, cfg ThumbnailHandlerConfig) *ThumbnailHandler {
	return &ThumbnailHandler{
		svc:      svc,
		defaults: cfg.DefaultDimensions,
		timeout:  cfg.RequestTimeout,
	}
}

// Scale handles GET /scale/{conceptType}/{conceptID}
//
// Query parameters: cascadeConcepts (default "true"), h and w (default to the
// configured thumbnail size), returnDefault (default "true").
func (h *ThumbnailHandler) Scale(w http.ResponseWriter, r *http.Request) {
	conceptID := chi.URLParam(r, "conceptID")
	if conceptID == "" {
		Error(w, http.StatusBadRequest, "invalid_concept_id", model.ErrEmptyConceptID.Error())
		return
	}

	conceptType := model.ConceptType(chi.URLParam(r, "conceptType"))
	if !conceptType.IsValid() {
		Error(w, http.StatusBadRequest, "invalid_concept_type", model.ErrUnknownConceptType.Error())
		return
	}

	query := r.URL.Query()

	height, ok := parseDimension(query.Get("h"), h.defaults.Height)
	if !ok {
		Error(w, http.StatusBadRequest, "invalid_dimension", "h must be a positive integer")
		return
	}

	width, ok := parseDimension(query.Get("w"), h.defaults.Width)
	if !ok {
		Error(w, http.StatusBadRequest, "invalid_dimension", "w must be a positive integer")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	thumbnail := h.svc.GetThumbnail(ctx, usecase.ThumbnailRequest{
		ConceptID:       conceptID,
		ConceptType:     conceptType,
		Dimensions:      model.Dimensions{Height: height, Width: width},
		CascadeConcepts: parseBool(query.Get("cascadeConcepts"), true),
		ReturnDefault:   parseBool(query.Get("returnDefault"), true),
	})

	Gateway(w, thumbnail)
}

// parseDimension parses a numeric query value, falling back to def when the
// parameter is absent. Non-numeric or non-positive values are rejected.
func parseDimension(raw string, def int) (int, bool) {
	if raw == "" {
		return def, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

// parseBool interprets the boolean-as-string query parameters; anything
// other than the literal "true"/"false" keeps the default.
func parseBool(raw string, def bool) bool {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	default:
		return def
	}
}

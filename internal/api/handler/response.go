package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/hszk-dev/gothumb/internal/domain/model"
)

// GatewayResponse is the lambda-proxy style envelope the thumbnail endpoint
// serves: the image travels base64-encoded in the body with its intended
// status code and headers spelled out for the gateway in front.
type GatewayResponse struct {
	IsBase64Encoded bool              `json:"isBase64Encoded"`
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
}

// Gateway writes a thumbnail as a gateway envelope. The HTTP status mirrors
// the envelope's statusCode so the endpoint also behaves sensibly without a
// gateway in front.
func Gateway(w http.ResponseWriter, thumbnail *model.Thumbnail) {
	res := GatewayResponse{
		IsBase64Encoded: true,
		StatusCode:      thumbnail.StatusCode,
		Headers: map[string]string{
			"Content-Type":                "image/png",
			"Access-Control-Allow-Origin": "*",
		},
		Body: base64.StdEncoding.EncodeToString(thumbnail.Body),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(thumbnail.StatusCode)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func Error(w http.ResponseWriter, status int, err string, message string) {
	JSON(w, status, ErrorResponse{
		Error:   err,
		Message: message,
	})
}

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vivek-portfolio/portfolio-api/internal/validation"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Detail string                  `json:"detail"`
	Errors []validation.FieldError `json:"errors,omitempty"`
}

// MessageResponse is a plain {"message": ...} payload
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, statusCode int, detail string) {
	writeJSON(w, statusCode, ErrorResponse{Detail: detail})
}

// writeRequestError writes a decoding or validation failure
func writeRequestError(w http.ResponseWriter, err *validation.RequestError) {
	writeJSON(w, err.Status, ErrorResponse{
		Detail: err.Message,
		Errors: err.Fields,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "Not Found")
}

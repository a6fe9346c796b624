package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vivek-portfolio/portfolio-api/internal/model"
	"github.com/vivek-portfolio/portfolio-api/internal/service"
	"github.com/vivek-portfolio/portfolio-api/internal/validation"
	"github.com/vivek-portfolio/portfolio-api/pkg/middleware"
)

// maxBodyBytes bounds POST bodies
const maxBodyBytes = 1 << 20

// StatusCheckHandler handles status check create and list operations
type StatusCheckHandler struct {
	service *service.StatusCheckService
}

// NewStatusCheckHandler creates a new status check handler
func NewStatusCheckHandler(service *service.StatusCheckService) *StatusCheckHandler {
	return &StatusCheckHandler{
		service: service,
	}
}

// Create handles POST /api/status
func (h *StatusCheckHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.StatusCheckCreate
	if err := validation.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), &input); err != nil {
		var reqErr *validation.RequestError
		if errors.As(err, &reqErr) {
			writeRequestError(w, reqErr)
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	check, err := h.service.Create(r.Context(), *input.ClientName)
	if err != nil {
		slog.Error("Error creating status check",
			"error", err,
			"correlation_id", middleware.GetCorrelationID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "Failed to create status check")
		return
	}

	slog.Info("Status check created",
		"id", check.ID,
		"correlation_id", middleware.GetCorrelationID(r.Context()),
	)

	writeJSON(w, http.StatusCreated, check)
}

// List handles GET /api/status
func (h *StatusCheckHandler) List(w http.ResponseWriter, r *http.Request) {
	checks, err := h.service.List(r.Context())
	if err != nil {
		slog.Error("Error fetching status checks",
			"error", err,
			"correlation_id", middleware.GetCorrelationID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "Failed to fetch status checks")
		return
	}

	writeJSON(w, http.StatusOK, checks)
}

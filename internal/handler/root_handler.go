package handler

import (
	"net/http"
)

// RootHandler serves the welcome banner and the API greeting
type RootHandler struct {
	title   string
	version string
}

// NewRootHandler creates a new root handler
func NewRootHandler(title, version string) *RootHandler {
	return &RootHandler{
		title:   title,
		version: version,
	}
}

// WelcomeResponse is the service banner returned by GET /
type WelcomeResponse struct {
	Message      string            `json:"message"`
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Docs         string            `json:"docs"`
	APIEndpoints map[string]string `json:"api_endpoints"`
}

// Welcome handles GET /
func (h *RootHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, WelcomeResponse{
		Message: "Welcome to " + h.title,
		Status:  "online",
		Version: h.version,
		Docs:    "/docs",
		APIEndpoints: map[string]string{
			"health": "/api/",
			"status": "/api/status",
		},
	})
}

// Hello handles GET /api/
func (h *RootHandler) Hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Hello World"})
}

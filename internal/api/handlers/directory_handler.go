package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
)

// DirectoryService lists the bookable services and treating dentists
type DirectoryService interface {
	Services(ctx context.Context) ([]*entities.Service, error)
	Dentists(ctx context.Context) ([]*entities.User, error)
}

// DirectoryHandler handles catalog requests
type DirectoryHandler struct {
	service DirectoryService
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(service DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// ListServices handles GET /api/services
func (h *DirectoryHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.Services(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"services": services,
		"count":    len(services),
	})
}

// dentistView hides contact details from the public directory
type dentistView struct {
	ID   string        `json:"id"`
	Name string        `json:"name"`
	Role entities.Role `json:"role"`
}

// ListDentists handles GET /api/dentists
func (h *DirectoryHandler) ListDentists(w http.ResponseWriter, r *http.Request) {
	dentists, err := h.service.Dentists(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	views := make([]dentistView, 0, len(dentists))
	for _, d := range dentists {
		views = append(views, dentistView{ID: d.ID, Name: d.Name, Role: d.Role})
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"dentists": views,
		"count":    len(views),
	})
}

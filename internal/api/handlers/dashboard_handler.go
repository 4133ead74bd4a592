package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/dentalclinic/internal/adapters/identity"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// DashboardService computes the clinic overview
type DashboardService interface {
	Stats(ctx context.Context, role entities.Role) (*entities.DashboardStats, error)
}

// DashboardHandler handles dashboard requests
type DashboardHandler struct {
	service DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetStats handles GET /api/dashboard
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	user := identity.UserFromContext(r.Context())
	if user == nil {
		respondWithAppError(w, r, apperrors.NewUnauthorizedError("sign in to view the dashboard"))
		return
	}

	stats, err := h.service.Stats(r.Context(), user.Role)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/dentalclinic/internal/adapters/identity"
	"github.com/zatekoja/dentalclinic/internal/application/services"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// WalkInQueue defines the queue operations exposed over HTTP
type WalkInQueue interface {
	Enqueue(ctx context.Context, req services.WalkInRequest) (*entities.WalkInEntry, error)
	DequeueNext(ctx context.Context) (*entities.WalkInEntry, bool, error)
	Complete(ctx context.Context, id string) error
	InService(ctx context.Context) ([]*entities.WalkInEntry, error)
	Snapshot() []*entities.WalkInEntry
}

// OperationGate enforces operation permissions
type OperationGate interface {
	Require(role entities.Role, op entities.Operation) error
}

// WalkInHandler handles walk-in queue requests
type WalkInHandler struct {
	queue WalkInQueue
	gate  OperationGate
}

// NewWalkInHandler creates a new walk-in handler
func NewWalkInHandler(queue WalkInQueue, gate OperationGate) *WalkInHandler {
	return &WalkInHandler{
		queue: queue,
		gate:  gate,
	}
}

// authorize returns false after writing the error response
func authorize(w http.ResponseWriter, r *http.Request, gate OperationGate, op entities.Operation) (*entities.User, bool) {
	user := identity.UserFromContext(r.Context())
	if user == nil {
		respondWithAppError(w, r, apperrors.NewUnauthorizedError("sign in required"))
		return nil, false
	}
	if err := gate.Require(user.Role, op); err != nil {
		respondWithAppError(w, r, err)
		return nil, false
	}
	return user, true
}

type walkInRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Service   string `json:"service"`
	DentistID string `json:"dentist_id"`
	Priority  string `json:"priority"`
	Notes     string `json:"notes"`
}

// ListQueue handles GET /api/walk-ins
func (h *WalkInHandler) ListQueue(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, h.gate, entities.OperationViewWalkIns); !ok {
		return
	}

	inService, err := h.queue.InService(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	waiting := h.queue.Snapshot()
	respondWithJSON(w, http.StatusOK, map[string]any{
		"waiting":    waiting,
		"in_service": inService,
		"count":      len(waiting),
	})
}

// Enqueue handles POST /api/walk-ins
func (h *WalkInHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, h.gate, entities.OperationEnqueueWalkIn); !ok {
		return
	}

	var req walkInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	entry, err := h.queue.Enqueue(r.Context(), services.WalkInRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Service:   req.Service,
		DentistID: req.DentistID,
		Priority:  req.Priority,
		Notes:     req.Notes,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, entry)
}

// DequeueNext handles POST /api/walk-ins/next. An empty queue is 204.
func (h *WalkInHandler) DequeueNext(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, h.gate, entities.OperationDequeueWalkIn); !ok {
		return
	}

	entry, ok, err := h.queue.DequeueNext(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondWithJSON(w, http.StatusOK, entry)
}

// Complete handles POST /api/walk-ins/{id}/complete
func (h *WalkInHandler) Complete(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, h.gate, entities.OperationDequeueWalkIn); !ok {
		return
	}

	if err := h.queue.Complete(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

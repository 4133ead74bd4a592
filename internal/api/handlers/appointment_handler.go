package handlers

import (
	"context"
	"iter"
	"net/http"
	"slices"

	"github.com/zatekoja/dentalclinic/internal/adapters/identity"
	"github.com/zatekoja/dentalclinic/internal/application/services"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// AppointmentService defines the interface for appointment operations
type AppointmentService interface {
	BookAppointment(ctx context.Context, details services.BookingDetails) (*entities.Appointment, error)
	UpdateStatus(ctx context.Context, actorRole entities.Role, id string, target entities.AppointmentStatus) (*entities.Appointment, error)
	DeleteAppointment(ctx context.Context, actorRole entities.Role, id string) error
	AppointmentFor(ctx context.Context, user *entities.User, id string) (*entities.Appointment, error)
	VisibleTo(ctx context.Context, user *entities.User, status string) (iter.Seq[*entities.Appointment], error)
}

// AppointmentHandler handles appointment requests
type AppointmentHandler struct {
	service AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
	}
}

type bookingRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Contact     string `json:"contact"`
	ContactType string `json:"contact_type"`
	Service     string `json:"service"`
	DentistID   string `json:"dentist_id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Notes       string `json:"notes"`
}

func (b bookingRequest) details(patient *entities.User) services.BookingDetails {
	return services.BookingDetails{
		Patient:     patient,
		FirstName:   b.FirstName,
		LastName:    b.LastName,
		Contact:     b.Contact,
		ContactType: b.ContactType,
		Service:     b.Service,
		DentistID:   b.DentistID,
		Date:        b.Date,
		Time:        b.Time,
		Notes:       b.Notes,
	}
}

// BookPublic handles POST /api/public/appointments. Visitors book without an
// account by leaving a name and a contact.
func (h *AppointmentHandler) BookPublic(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	appointment, err := h.service.BookAppointment(r.Context(), req.details(nil))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, appointment)
}

// BookAppointment handles POST /api/appointments. Patients book for
// themselves; clinic staff book on behalf of a caller's contact details.
func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	user := identity.UserFromContext(r.Context())
	if user == nil {
		respondWithAppError(w, r, apperrors.NewUnauthorizedError("sign in to book appointments"))
		return
	}

	var req bookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	var patient *entities.User
	if user.Role == entities.RolePatient {
		patient = user
	}

	appointment, err := h.service.BookAppointment(r.Context(), req.details(patient))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, appointment)
}

// ListAppointments handles GET /api/appointments?status=
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = services.StatusFilterAll
	}

	seq, err := h.service.VisibleTo(r.Context(), identity.UserFromContext(r.Context()), status)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	appointments := slices.Collect(seq)
	if appointments == nil {
		appointments = []*entities.Appointment{}
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"appointments": appointments,
		"count":        len(appointments),
		"status":       status,
	})
}

// GetAppointment handles GET /api/appointments/{id}
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, err := h.service.AppointmentFor(r.Context(), identity.UserFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, appointment)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/appointments/{id}/status
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user := identity.UserFromContext(r.Context())
	if user == nil {
		respondWithAppError(w, r, apperrors.NewUnauthorizedError("sign in to update appointments"))
		return
	}

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), user.Role, r.PathValue("id"), entities.AppointmentStatus(req.Status))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// DeleteAppointment handles DELETE /api/appointments/{id}
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	user := identity.UserFromContext(r.Context())
	if user == nil {
		respondWithAppError(w, r, apperrors.NewUnauthorizedError("sign in to delete appointments"))
		return
	}

	if err := h.service.DeleteAppointment(r.Context(), user.Role, r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

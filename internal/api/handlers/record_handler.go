package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/dentalclinic/internal/adapters/identity"
	"github.com/zatekoja/dentalclinic/internal/application/services"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// RecordService defines the interface for patient record operations
type RecordService interface {
	CreateRecord(ctx context.Context, actor *entities.User, in services.RecordInput) (*entities.PatientRecord, error)
	EditRecord(ctx context.Context, actor *entities.User, id string, in services.RecordInput) (*entities.PatientRecord, error)
	SearchRecords(ctx context.Context, role entities.Role, term string) ([]*services.RecordView, error)
	RecordsForPatient(ctx context.Context, patient *entities.User) ([]*entities.PatientRecord, error)
}

// RecordHandler handles patient record requests
type RecordHandler struct {
	service RecordService
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(service RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

type recordRequest struct {
	PatientID     string   `json:"patient_id"`
	AppointmentID string   `json:"appointment_id"`
	Date          string   `json:"date"`
	Treatment     string   `json:"treatment"`
	Diagnosis     string   `json:"diagnosis"`
	Cost          *float64 `json:"cost"`
	Notes         *string  `json:"notes"`
}

func (req recordRequest) input() services.RecordInput {
	return services.RecordInput{
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		Date:          req.Date,
		Treatment:     req.Treatment,
		Diagnosis:     req.Diagnosis,
		Cost:          req.Cost,
		Notes:         req.Notes,
	}
}

// SearchRecords handles GET /api/records?q=
func (h *RecordHandler) SearchRecords(w http.ResponseWriter, r *http.Request) {
	user := identity.UserFromContext(r.Context())
	if user == nil {
		respondWithAppError(w, r, apperrors.NewUnauthorizedError("sign in to view records"))
		return
	}

	term := r.URL.Query().Get("q")
	records, err := h.service.SearchRecords(r.Context(), user.Role, term)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
		"query":   term,
	})
}

// CreateRecord handles POST /api/records
func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	record, err := h.service.CreateRecord(r.Context(), identity.UserFromContext(r.Context()), req.input())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, record)
}

// EditRecord handles PATCH /api/records/{id}
func (h *RecordHandler) EditRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	record, err := h.service.EditRecord(r.Context(), identity.UserFromContext(r.Context()), r.PathValue("id"), req.input())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, record)
}

// MyRecords handles GET /api/me/records
func (h *RecordHandler) MyRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.RecordsForPatient(r.Context(), identity.UserFromContext(r.Context()))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
	})
}

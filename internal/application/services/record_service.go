package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// RecordInput carries the editable fields of a patient record. On edit, empty
// strings and nil pointers leave the stored value untouched.
type RecordInput struct {
	PatientID     string
	AppointmentID string
	Date          string
	Treatment     string
	Diagnosis     string
	Cost          *float64
	Notes         *string
}

func (in RecordInput) cost() float64 {
	if in.Cost == nil {
		return 0
	}
	return *in.Cost
}

func (in RecordInput) notes() string {
	if in.Notes == nil {
		return ""
	}
	return strings.TrimSpace(*in.Notes)
}

// RecordView is a record joined with the patient's display name
type RecordView struct {
	*entities.PatientRecord
	PatientName string `json:"patient_name"`
}

// RecordService finalizes completed visits into patient records
type RecordService struct {
	records      repositories.PatientRecordRepository
	appointments repositories.AppointmentRepository
	users        repositories.UserRepository
	gate         *AccessGate
	now          func() time.Time
}

// NewRecordService creates a new record service
func NewRecordService(
	records repositories.PatientRecordRepository,
	appointments repositories.AppointmentRepository,
	users repositories.UserRepository,
	gate *AccessGate,
) *RecordService {
	return &RecordService{
		records:      records,
		appointments: appointments,
		users:        users,
		gate:         gate,
		now:          time.Now,
	}
}

// CreateRecord writes a record for a completed visit. The acting clinician
// becomes the record's dentist. When no appointment is named, the patient's
// first completed appointment is linked if one exists.
func (s *RecordService) CreateRecord(ctx context.Context, actor *entities.User, in RecordInput) (*entities.PatientRecord, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorizedError("sign in to create records")
	}
	if err := s.gate.Require(actor.Role, entities.OperationCreateRecord); err != nil {
		return nil, err
	}
	if err := validateRecordInput(in); err != nil {
		return nil, err
	}

	patient, err := s.users.GetByID(ctx, in.PatientID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown patient %q", in.PatientID))
		}
		return nil, err
	}
	if patient.Role != entities.RolePatient {
		return nil, apperrors.NewValidationError(fmt.Sprintf("user %q is not a patient", in.PatientID))
	}

	linked, err := s.resolveAppointment(ctx, patient.ID, strings.TrimSpace(in.AppointmentID))
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = now.Format(entities.DateLayout)
	}

	record := &entities.PatientRecord{
		ID:          uuid.NewString(),
		PatientID:   patient.ID,
		Date:        date,
		Treatment:   strings.TrimSpace(in.Treatment),
		Diagnosis:   strings.TrimSpace(in.Diagnosis),
		Cost:        in.cost(),
		DentistID:   actor.ID,
		DentistName: actor.Name,
		Notes:       in.notes(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if linked != nil {
		id := linked.ID
		record.AppointmentID = &id
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("record_id", record.ID).
		Str("patient_id", record.PatientID).
		Bool("linked", linked != nil).
		Msg("patient record created")

	return record, nil
}

func (s *RecordService) resolveAppointment(ctx context.Context, patientID, appointmentID string) (*entities.Appointment, error) {
	if appointmentID != "" {
		a, err := s.appointments.GetByID(ctx, appointmentID)
		if err != nil {
			if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
				return nil, apperrors.NewValidationError(fmt.Sprintf("unknown appointment %q", appointmentID))
			}
			return nil, err
		}
		if !a.BelongsTo(patientID) {
			return nil, apperrors.NewValidationError("appointment belongs to another patient")
		}
		if a.Status != entities.AppointmentStatusCompleted {
			return nil, apperrors.NewValidationError("only completed appointments can be finalized into a record")
		}
		return a, nil
	}

	completed, err := s.appointments.List(ctx, repositories.AppointmentFilter{
		PatientID: patientID,
		Status:    entities.AppointmentStatusCompleted,
	})
	if err != nil {
		return nil, err
	}
	if len(completed) == 0 {
		return nil, nil
	}
	return completed[0], nil
}

// EditRecord updates the fields present in the input and keeps the rest
func (s *RecordService) EditRecord(ctx context.Context, actor *entities.User, id string, in RecordInput) (*entities.PatientRecord, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorizedError("sign in to edit records")
	}
	if err := s.gate.Require(actor.Role, entities.OperationEditRecord); err != nil {
		return nil, err
	}

	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if t := strings.TrimSpace(in.Treatment); t != "" {
		record.Treatment = t
	}
	if d := strings.TrimSpace(in.Diagnosis); d != "" {
		record.Diagnosis = d
	}
	if d := strings.TrimSpace(in.Date); d != "" {
		if _, err := time.Parse(entities.DateLayout, d); err != nil {
			return nil, apperrors.NewValidationError("date must be formatted as YYYY-MM-DD")
		}
		record.Date = d
	}
	if in.Cost != nil {
		if *in.Cost < 0 {
			return nil, apperrors.NewValidationError("cost must not be negative")
		}
		record.Cost = *in.Cost
	}
	if in.Notes != nil {
		record.Notes = in.notes()
	}
	record.UpdatedAt = s.now().UTC()

	if err := record.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := s.records.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// SearchRecords lists records whose treatment or patient name contains term,
// ignoring case. An empty term returns every record.
func (s *RecordService) SearchRecords(ctx context.Context, role entities.Role, term string) ([]*RecordView, error) {
	if err := s.gate.Require(role, entities.OperationViewRecords); err != nil {
		return nil, err
	}

	records, err := s.records.List(ctx, repositories.RecordFilter{})
	if err != nil {
		return nil, err
	}

	names, err := s.patientNames(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]*RecordView, 0, len(records))
	for _, r := range records {
		view := &RecordView{PatientRecord: r, PatientName: names[r.PatientID]}
		if needle == "" ||
			strings.Contains(strings.ToLower(r.Treatment), needle) ||
			strings.Contains(strings.ToLower(view.PatientName), needle) {
			out = append(out, view)
		}
	}
	return out, nil
}

// RecordsForPatient lists one patient's own records
func (s *RecordService) RecordsForPatient(ctx context.Context, patient *entities.User) ([]*entities.PatientRecord, error) {
	if patient == nil {
		return nil, apperrors.NewUnauthorizedError("sign in to view your records")
	}
	if err := s.gate.Require(patient.Role, entities.OperationViewProfile); err != nil {
		return nil, err
	}
	return s.records.List(ctx, repositories.RecordFilter{PatientID: patient.ID})
}

func (s *RecordService) patientNames(ctx context.Context) (map[string]string, error) {
	pts, err := s.users.ListByRoles(ctx, entities.RolePatient)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(pts))
	for _, p := range pts {
		names[p.ID] = p.Name
	}
	return names, nil
}

func validateRecordInput(in RecordInput) error {
	switch {
	case strings.TrimSpace(in.PatientID) == "":
		return apperrors.NewValidationError("patient is required")
	case strings.TrimSpace(in.Treatment) == "":
		return apperrors.NewValidationError("treatment is required")
	case strings.TrimSpace(in.Diagnosis) == "":
		return apperrors.NewValidationError("diagnosis is required")
	case in.cost() < 0:
		return apperrors.NewValidationError("cost must not be negative")
	}
	if d := strings.TrimSpace(in.Date); d != "" {
		if _, err := time.Parse(entities.DateLayout, d); err != nil {
			return apperrors.NewValidationError("date must be formatted as YYYY-MM-DD")
		}
	}
	return nil
}

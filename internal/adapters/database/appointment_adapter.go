package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

const uniqueViolation = "23505"

var appointmentColumns = []any{
	"id", "patient_id", "patient_name", "patient_email", "patient_phone",
	"service", "dentist_id", "date", "time", "status", "is_anonymous",
	"notes", "created_at", "updated_at",
}

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) *AppointmentAdapter {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var _ repositories.AppointmentRepository = (*AppointmentAdapter)(nil)

// Create creates a new appointment
func (a *AppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	if err := appointment.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	record := goqu.Record{
		"id":            appointment.ID,
		"patient_id":    appointment.PatientID,
		"patient_name":  appointment.PatientName,
		"patient_email": appointment.PatientEmail,
		"patient_phone": appointment.PatientPhone,
		"service":       appointment.Service,
		"dentist_id":    appointment.DentistID,
		"date":          appointment.Date,
		"time":          appointment.Time,
		"status":        appointment.Status,
		"is_anonymous":  appointment.IsAnonymous,
		"notes":         appointment.Notes,
		"created_at":    appointment.CreatedAt,
		"updated_at":    appointment.UpdatedAt,
	}

	query, args, err := a.db.Insert("appointments").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("appointment %s already exists", appointment.ID))
		}
		return apperrors.NewInternalError("failed to create appointment", err)
	}

	return nil
}

// GetByID retrieves an appointment by ID
func (a *AppointmentAdapter) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	appointment, err := scanAppointment(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get appointment", err)
	}
	return appointment, nil
}

// List retrieves appointments in insertion order
func (a *AppointmentAdapter) List(ctx context.Context, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	ds := a.db.Select(appointmentColumns...).From("appointments")

	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"status": filter.Status})
	}
	if filter.PatientID != "" {
		ds = ds.Where(goqu.Ex{"patient_id": filter.PatientID})
	}

	query, args, err := ds.Order(goqu.C("seq").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()

	appointments := make([]*entities.Appointment, 0)
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment", err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate appointments", err)
	}

	return appointments, nil
}

// UpdateStatus sets the status only where it still equals expected
func (a *AppointmentAdapter) UpdateStatus(ctx context.Context, id string, expected, next entities.AppointmentStatus) (*entities.Appointment, error) {
	query, args, err := a.db.Update("appointments").
		Set(goqu.Record{
			"status":     next,
			"updated_at": time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": id, "status": expected}).
		Returning(appointmentColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	appointment, err := scanAppointment(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == nil {
		return appointment, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewInternalError("failed to update appointment status", err)
	}

	// Nothing matched: either the id is unknown or the status moved on.
	current, getErr := a.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return nil, apperrors.NewConflictError(fmt.Sprintf("appointment %s is %s, expected %s", id, current.Status, expected))
}

// Delete removes an appointment
func (a *AppointmentAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("appointments").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete appointment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("appointment %s not found", id))
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*entities.Appointment, error) {
	appointment := &entities.Appointment{}
	var patientID, patientPhone, dentistID, notes sql.NullString

	err := row.Scan(
		&appointment.ID,
		&patientID,
		&appointment.PatientName,
		&appointment.PatientEmail,
		&patientPhone,
		&appointment.Service,
		&dentistID,
		&appointment.Date,
		&appointment.Time,
		&appointment.Status,
		&appointment.IsAnonymous,
		&notes,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if patientID.Valid {
		appointment.PatientID = &patientID.String
	}
	appointment.PatientPhone = patientPhone.String
	appointment.DentistID = dentistID.String
	appointment.Notes = notes.String

	return appointment, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

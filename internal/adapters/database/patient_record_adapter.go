package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

var recordColumns = []any{
	"id", "patient_id", "appointment_id", "date", "treatment", "diagnosis",
	"cost", "dentist_id", "dentist_name", "notes", "created_at", "updated_at",
}

// PatientRecordAdapter implements the PatientRecordRepository interface
type PatientRecordAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPatientRecordAdapter creates a new patient record adapter
func NewPatientRecordAdapter(client *postgres.Client) *PatientRecordAdapter {
	return &PatientRecordAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var _ repositories.PatientRecordRepository = (*PatientRecordAdapter)(nil)

// Create creates a new record
func (a *PatientRecordAdapter) Create(ctx context.Context, record *entities.PatientRecord) error {
	if err := record.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	query, args, err := a.db.Insert("patient_records").Rows(goqu.Record{
		"id":             record.ID,
		"patient_id":     record.PatientID,
		"appointment_id": record.AppointmentID,
		"date":           record.Date,
		"treatment":      record.Treatment,
		"diagnosis":      record.Diagnosis,
		"cost":           record.Cost,
		"dentist_id":     record.DentistID,
		"dentist_name":   record.DentistName,
		"notes":          record.Notes,
		"created_at":     record.CreatedAt,
		"updated_at":     record.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("record %s already exists", record.ID))
		}
		return apperrors.NewInternalError("failed to create patient record", err)
	}
	return nil
}

// GetByID retrieves a record by ID
func (a *PatientRecordAdapter) GetByID(ctx context.Context, id string) (*entities.PatientRecord, error) {
	query, args, err := a.db.Select(recordColumns...).
		From("patient_records").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	record, err := scanRecord(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("record %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get patient record", err)
	}
	return record, nil
}

// List retrieves records in insertion order
func (a *PatientRecordAdapter) List(ctx context.Context, filter repositories.RecordFilter) ([]*entities.PatientRecord, error) {
	ds := a.db.Select(recordColumns...).From("patient_records")
	if filter.PatientID != "" {
		ds = ds.Where(goqu.Ex{"patient_id": filter.PatientID})
	}

	query, args, err := ds.Order(goqu.C("seq").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list patient records", err)
	}
	defer rows.Close()

	records := make([]*entities.PatientRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan patient record", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate patient records", err)
	}
	return records, nil
}

// Update replaces the editable fields of a record
func (a *PatientRecordAdapter) Update(ctx context.Context, record *entities.PatientRecord) error {
	if err := record.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	query, args, err := a.db.Update("patient_records").
		Set(goqu.Record{
			"date":       record.Date,
			"treatment":  record.Treatment,
			"diagnosis":  record.Diagnosis,
			"cost":       record.Cost,
			"notes":      record.Notes,
			"updated_at": record.UpdatedAt,
		}).
		Where(goqu.Ex{"id": record.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update patient record", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("record %s not found", record.ID))
	}
	return nil
}

func scanRecord(row rowScanner) (*entities.PatientRecord, error) {
	record := &entities.PatientRecord{}
	var appointmentID, notes sql.NullString

	err := row.Scan(
		&record.ID,
		&record.PatientID,
		&appointmentID,
		&record.Date,
		&record.Treatment,
		&record.Diagnosis,
		&record.Cost,
		&record.DentistID,
		&record.DentistName,
		&notes,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if appointmentID.Valid {
		record.AppointmentID = &appointmentID.String
	}
	record.Notes = notes.String
	return record, nil
}

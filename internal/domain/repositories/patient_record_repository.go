package repositories

import (
	"context"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
)

// PatientRecordRepository defines the interface for patient record operations
type PatientRecordRepository interface {
	// Create stores a new record
	Create(ctx context.Context, record *entities.PatientRecord) error

	// GetByID retrieves a record by ID
	GetByID(ctx context.Context, id string) (*entities.PatientRecord, error)

	// List retrieves records in insertion order
	List(ctx context.Context, filter RecordFilter) ([]*entities.PatientRecord, error)

	// Update replaces the editable fields of a record
	Update(ctx context.Context, record *entities.PatientRecord) error
}

// RecordFilter narrows a record listing
type RecordFilter struct {
	PatientID string
}

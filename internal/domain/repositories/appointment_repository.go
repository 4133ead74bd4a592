package repositories

import (
	"context"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
)

// AppointmentRepository defines the interface for appointment data operations.
// List results are always in insertion order.
type AppointmentRepository interface {
	// Create stores a new appointment. A duplicate id yields a conflict error.
	Create(ctx context.Context, appointment *entities.Appointment) error

	// GetByID retrieves an appointment by ID
	GetByID(ctx context.Context, id string) (*entities.Appointment, error)

	// List retrieves appointments matching the filter
	List(ctx context.Context, filter AppointmentFilter) ([]*entities.Appointment, error)

	// UpdateStatus moves an appointment from expected to next. It fails with a
	// conflict error when the stored status is no longer expected.
	UpdateStatus(ctx context.Context, id string, expected, next entities.AppointmentStatus) (*entities.Appointment, error)

	// Delete removes an appointment permanently
	Delete(ctx context.Context, id string) error
}

// AppointmentFilter defines filters for listing appointments.
// Zero values match everything.
type AppointmentFilter struct {
	Status    entities.AppointmentStatus
	PatientID string
}

// Matches reports whether a satisfies the filter
func (f AppointmentFilter) Matches(a *entities.Appointment) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.PatientID != "" && !a.BelongsTo(f.PatientID) {
		return false
	}
	return true
}

// Package memory holds mutex-guarded, insertion-ordered stores used when the
// clinic runs without a database.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// AppointmentStore implements repositories.AppointmentRepository in memory
type AppointmentStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*entities.Appointment
}

// NewAppointmentStore creates an empty store
func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{byID: make(map[string]*entities.Appointment)}
}

var _ repositories.AppointmentRepository = (*AppointmentStore)(nil)

// Create stores a copy of appointment
func (s *AppointmentStore) Create(ctx context.Context, appointment *entities.Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := appointment.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[appointment.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("appointment %s already exists", appointment.ID))
	}
	s.byID[appointment.ID] = appointment.Clone()
	s.order = append(s.order, appointment.ID)
	return nil
}

// GetByID retrieves a copy of an appointment
func (s *AppointmentStore) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment %s not found", id))
	}
	return a.Clone(), nil
}

// List returns copies of matching appointments in insertion order
func (s *AppointmentStore) List(ctx context.Context, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Appointment, 0, len(s.order))
	for _, id := range s.order {
		a := s.byID[id]
		if filter.Matches(a) {
			out = append(out, a.Clone())
		}
	}
	return out, nil
}

// UpdateStatus applies next only when the stored status still equals expected
func (s *AppointmentStore) UpdateStatus(ctx context.Context, id string, expected, next entities.AppointmentStatus) (*entities.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !next.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid status %q", next))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment %s not found", id))
	}
	if a.Status != expected {
		return nil, apperrors.NewConflictError(fmt.Sprintf("appointment %s is %s, expected %s", id, a.Status, expected))
	}
	a.Status = next
	a.UpdatedAt = time.Now().UTC()
	return a.Clone(), nil
}

// Delete removes an appointment
func (s *AppointmentStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("appointment %s not found", id))
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

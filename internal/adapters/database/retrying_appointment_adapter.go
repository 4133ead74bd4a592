package database

import (
	"context"
	"time"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// RetryingAppointmentAdapter bounds every store call with a timeout and
// retries transient failures. A retried write that reports a conflict is
// treated as the earlier attempt having landed.
type RetryingAppointmentAdapter struct {
	storeCaller
	adapter repositories.AppointmentRepository
}

// NewRetryingAppointmentAdapter creates a new retrying appointment adapter
func NewRetryingAppointmentAdapter(adapter repositories.AppointmentRepository, callTimeout time.Duration, attempts int, metrics *observability.Metrics) *RetryingAppointmentAdapter {
	return &RetryingAppointmentAdapter{
		storeCaller: newStoreCaller("appointment-store", callTimeout, attempts, metrics),
		adapter:     adapter,
	}
}

var _ repositories.AppointmentRepository = (*RetryingAppointmentAdapter)(nil)

// Create creates an appointment, retrying transient failures
func (a *RetryingAppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	return a.do(ctx, "appointment.create", func(ctx context.Context, attempt int) error {
		err := a.adapter.Create(ctx, appointment)
		if landedEarlier(attempt, err) {
			return nil
		}
		return err
	})
}

// GetByID retrieves an appointment, retrying transient failures
func (a *RetryingAppointmentAdapter) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	var appointment *entities.Appointment
	err := a.do(ctx, "appointment.get", func(ctx context.Context, _ int) error {
		var err error
		appointment, err = a.adapter.GetByID(ctx, id)
		return err
	})
	return appointment, err
}

// List lists appointments, retrying transient failures
func (a *RetryingAppointmentAdapter) List(ctx context.Context, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	var appointments []*entities.Appointment
	err := a.do(ctx, "appointment.list", func(ctx context.Context, _ int) error {
		var err error
		appointments, err = a.adapter.List(ctx, filter)
		return err
	})
	return appointments, err
}

// UpdateStatus applies a compare-and-set status change, retrying transient failures
func (a *RetryingAppointmentAdapter) UpdateStatus(ctx context.Context, id string, expected, next entities.AppointmentStatus) (*entities.Appointment, error) {
	var updated *entities.Appointment
	err := a.do(ctx, "appointment.update_status", func(ctx context.Context, attempt int) error {
		var err error
		updated, err = a.adapter.UpdateStatus(ctx, id, expected, next)
		if attempt > 1 && apperrors.IsType(err, apperrors.ErrorTypeConflict) {
			current, getErr := a.adapter.GetByID(ctx, id)
			if getErr == nil && current.Status == next {
				updated = current
				return nil
			}
		}
		return err
	})
	return updated, err
}

// Delete removes an appointment, retrying transient failures
func (a *RetryingAppointmentAdapter) Delete(ctx context.Context, id string) error {
	return a.do(ctx, "appointment.delete", func(ctx context.Context, attempt int) error {
		err := a.adapter.Delete(ctx, id)
		if attempt > 1 && apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil
		}
		return err
	})
}

package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/dentalclinic/internal/application/services"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/providers"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

func TestValidateTransition_AllPairs(t *testing.T) {
	for _, from := range entities.AllAppointmentStatuses {
		for _, to := range entities.AllAppointmentStatuses {
			err := services.ValidateTransition(from, to)
			legal := from == entities.AppointmentStatusScheduled && to != entities.AppointmentStatusScheduled
			if legal {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidTransition), "%s -> %s", from, to)
			}
		}
	}

	err := services.ValidateTransition(entities.AppointmentStatusScheduled, "pending")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidTransition))
}

func seedScheduled(t *testing.T, c *clinic, id string) {
	t.Helper()
	pid := "5"
	require.NoError(t, c.appointments.Create(context.Background(), &entities.Appointment{
		ID: id, PatientID: &pid, Service: "General Checkup", Date: tomorrow(), Time: "09:00",
		Status: entities.AppointmentStatusScheduled,
	}))
}

func TestStatusMachine_Transition(t *testing.T) {
	t.Run("applies a legal transition and publishes an event", func(t *testing.T) {
		bus := new(MockEventBus)
		c := newClinic(bus)
		seedScheduled(t, c, "a1")

		bus.On("Publish", mock.Anything, providers.EventChannelAppointments, mock.MatchedBy(func(e *entities.AppointmentEvent) bool {
			return e.Type == entities.AppointmentEventStatusChanged &&
				e.AppointmentID == "a1" &&
				e.From == entities.AppointmentStatusScheduled &&
				e.To == entities.AppointmentStatusCompleted &&
				e.ActorRole == entities.RoleDentist
		})).Return(nil).Once()

		updated, err := c.machine.Transition(context.Background(), "a1", entities.AppointmentStatusCompleted, entities.RoleDentist)
		require.NoError(t, err)
		assert.Equal(t, entities.AppointmentStatusCompleted, updated.Status)
		bus.AssertExpectations(t)
	})

	t.Run("terminal appointments cannot move", func(t *testing.T) {
		c := newClinic(nil)
		seedScheduled(t, c, "a1")
		_, err := c.machine.Transition(context.Background(), "a1", entities.AppointmentStatusCancelled, entities.RoleStaff)
		require.NoError(t, err)

		_, err = c.machine.Transition(context.Background(), "a1", entities.AppointmentStatusScheduled, entities.RoleStaff)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidTransition))

		_, err = c.machine.Transition(context.Background(), "a1", entities.AppointmentStatusCompleted, entities.RoleStaff)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidTransition))
	})

	t.Run("permission is checked before the appointment is read", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		machine := services.NewStatusMachine(repo, services.NewAccessGate(), nil, nil)

		_, err := machine.Transition(context.Background(), "a1", entities.AppointmentStatusCompleted, entities.RolePatient)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAccessDenied))
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown appointment is not found", func(t *testing.T) {
		c := newClinic(nil)
		_, err := c.machine.Transition(context.Background(), "missing", entities.AppointmentStatusCompleted, entities.RoleAdmin)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})

	t.Run("concurrent change surfaces as conflict", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		machine := services.NewStatusMachine(repo, services.NewAccessGate(), nil, nil)

		repo.On("GetByID", mock.Anything, "a1").
			Return(&entities.Appointment{ID: "a1", Status: entities.AppointmentStatusScheduled}, nil)
		repo.On("UpdateStatus", mock.Anything, "a1", entities.AppointmentStatusScheduled, entities.AppointmentStatusNoShow).
			Return(nil, apperrors.NewConflictError("appointment a1 is cancelled, expected scheduled"))

		_, err := machine.Transition(context.Background(), "a1", entities.AppointmentStatusNoShow, entities.RoleStaff)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})

	t.Run("event bus failure does not undo the transition", func(t *testing.T) {
		bus := new(MockEventBus)
		c := newClinic(bus)
		seedScheduled(t, c, "a1")
		bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

		_, err := c.machine.Transition(context.Background(), "a1", entities.AppointmentStatusNoShow, entities.RoleStaff)
		require.NoError(t, err)

		stored, err := c.appointments.GetByID(context.Background(), "a1")
		require.NoError(t, err)
		assert.Equal(t, entities.AppointmentStatusNoShow, stored.Status)
	})

	t.Run("cancelled request leaves the appointment untouched", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		machine := services.NewStatusMachine(repo, services.NewAccessGate(), nil, nil)
		ctx, cancel := context.WithCancel(context.Background())

		repo.On("GetByID", mock.Anything, "a1").
			Run(func(mock.Arguments) { cancel() }).
			Return(&entities.Appointment{ID: "a1", Status: entities.AppointmentStatusScheduled}, nil)

		_, err := machine.Transition(ctx, "a1", entities.AppointmentStatusCompleted, entities.RoleDentist)
		assert.ErrorIs(t, err, context.Canceled)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

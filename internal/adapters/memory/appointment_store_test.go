package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

func appointment(id string, status entities.AppointmentStatus, patientID string) *entities.Appointment {
	a := &entities.Appointment{ID: id, Status: status, Service: "General Checkup", Date: "2026-03-02", Time: "09:00"}
	if patientID != "" {
		a.PatientID = &patientID
	} else {
		a.IsAnonymous = true
	}
	return a
}

func TestAppointmentStore_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewAppointmentStore()

	for _, a := range []*entities.Appointment{
		appointment("c", entities.AppointmentStatusScheduled, "p1"),
		appointment("a", entities.AppointmentStatusCancelled, "p2"),
		appointment("b", entities.AppointmentStatusCancelled, "p1"),
	} {
		require.NoError(t, s.Create(ctx, a))
	}

	all, err := s.List(ctx, repositories.AppointmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(all))

	cancelled, err := s.List(ctx, repositories.AppointmentFilter{Status: entities.AppointmentStatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(cancelled))

	mine, err := s.List(ctx, repositories.AppointmentFilter{PatientID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids(mine))
}

func TestAppointmentStore_CreateRejectsDuplicatesAndBadState(t *testing.T) {
	ctx := context.Background()
	s := NewAppointmentStore()

	require.NoError(t, s.Create(ctx, appointment("a1", entities.AppointmentStatusScheduled, "p1")))

	err := s.Create(ctx, appointment("a1", entities.AppointmentStatusScheduled, "p1"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	err = s.Create(ctx, appointment("a2", "pending", "p1"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestAppointmentStore_UpdateStatusCompareAndSet(t *testing.T) {
	ctx := context.Background()
	s := NewAppointmentStore()
	require.NoError(t, s.Create(ctx, appointment("a1", entities.AppointmentStatusScheduled, "p1")))

	updated, err := s.UpdateStatus(ctx, "a1", entities.AppointmentStatusScheduled, entities.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, entities.AppointmentStatusCompleted, updated.Status)

	_, err = s.UpdateStatus(ctx, "a1", entities.AppointmentStatusScheduled, entities.AppointmentStatusCancelled)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	_, err = s.UpdateStatus(ctx, "missing", entities.AppointmentStatusScheduled, entities.AppointmentStatusCancelled)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestAppointmentStore_ReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewAppointmentStore()
	require.NoError(t, s.Create(ctx, appointment("a1", entities.AppointmentStatusScheduled, "p1")))

	got, err := s.GetByID(ctx, "a1")
	require.NoError(t, err)
	got.Status = entities.AppointmentStatusCancelled

	again, err := s.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, entities.AppointmentStatusScheduled, again.Status)
}

func TestAppointmentStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewAppointmentStore()
	require.NoError(t, s.Create(ctx, appointment("a1", entities.AppointmentStatusScheduled, "p1")))
	require.NoError(t, s.Create(ctx, appointment("a2", entities.AppointmentStatusScheduled, "")))

	require.NoError(t, s.Delete(ctx, "a1"))

	err := s.Delete(ctx, "a1")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	all, err := s.List(ctx, repositories.AppointmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, ids(all))
}

func TestAppointmentStore_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewAppointmentStore()
	err := s.Create(ctx, appointment("a1", entities.AppointmentStatusScheduled, "p1"))
	assert.ErrorIs(t, err, context.Canceled)

	all, err := s.List(context.Background(), repositories.AppointmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func ids(as []*entities.Appointment) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.ID
	}
	return out
}

package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/dentalclinic/internal/adapters/seed"
	"github.com/zatekoja/dentalclinic/internal/application/services"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

func TestComputeDashboard(t *testing.T) {
	p1, p2 := "p1", "p2"
	today := "2026-03-02"

	appointments := []*entities.Appointment{
		{ID: "1", PatientID: &p1, Date: today, Status: entities.AppointmentStatusCompleted},
		{ID: "2", PatientID: &p1, Date: today, Status: entities.AppointmentStatusScheduled},
		{ID: "3", PatientID: &p2, Date: "2026-03-01", Status: entities.AppointmentStatusCompleted},
	}
	records := []*entities.PatientRecord{{Cost: 200}, {Cost: 120.5}}

	stats := services.ComputeDashboard(appointments, records, today)
	assert.Equal(t, 2, stats.TotalPatients)
	assert.Equal(t, 2, stats.CompletedAppointments)
	assert.Equal(t, 1, stats.TodayScheduled)
	assert.Equal(t, 1, stats.ScheduledAppointments)
	assert.Equal(t, 320.5, stats.TotalRevenue)
	assert.Len(t, stats.RecentAppointments, 3)
}

func TestComputeDashboard_AnonymousAndRecentCap(t *testing.T) {
	var appointments []*entities.Appointment
	for i := range 7 {
		appointments = append(appointments, &entities.Appointment{
			ID: fmt.Sprint(i), IsAnonymous: true, Date: "2026-03-02", Status: entities.AppointmentStatusCancelled,
		})
	}
	appointments[6].Status = entities.AppointmentStatusNoShow

	stats := services.ComputeDashboard(appointments, nil, "2026-03-02")
	assert.Equal(t, 0, stats.TotalPatients)
	assert.Equal(t, 7, stats.AnonymousBookings)
	assert.Equal(t, 6, stats.CancelledAppointments)
	assert.Equal(t, 1, stats.NoShowAppointments)
	assert.Equal(t, 0, stats.TodayScheduled)
	require.Len(t, stats.RecentAppointments, entities.RecentAppointmentsLimit)
	assert.Equal(t, "0", stats.RecentAppointments[0].ID)
}

func TestDashboardService_RecomputesAfterEveryChange(t *testing.T) {
	ctx := context.Background()
	c := newClinic(nil)
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	services.SetDashboardClock(c.dashboard, func() time.Time { return now })
	require.NoError(t, seed.Load(ctx, seed.Stores{Appointments: c.appointments, Records: c.records}, now))

	before, err := c.dashboard.Stats(ctx, entities.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, 2, before.TodayScheduled)
	assert.Equal(t, 3, before.TotalPatients)
	assert.Equal(t, 320.0, before.TotalRevenue)
	assert.Equal(t, 1, before.CompletedAppointments)
	assert.Equal(t, 1, before.AnonymousBookings)

	_, err = c.booking.UpdateStatus(ctx, entities.RoleDentist, "1", entities.AppointmentStatusCompleted)
	require.NoError(t, err)

	after, err := c.dashboard.Stats(ctx, entities.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, 1, after.TodayScheduled)
	assert.Equal(t, 2, after.CompletedAppointments)

	_, err = c.dashboard.Stats(ctx, "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAccessDenied))
}

func TestDashboardService_TodayIsUTCDate(t *testing.T) {
	ctx := context.Background()
	c := newClinic(nil)

	// 23:30 on March 2 in New York is already March 3 in UTC
	eastern := time.FixedZone("EST", -5*60*60)
	services.SetDashboardClock(c.dashboard, func() time.Time { return time.Date(2026, 3, 2, 23, 30, 0, 0, eastern) })

	for _, date := range []string{"2026-03-02", "2026-03-03"} {
		require.NoError(t, c.appointments.Create(ctx, &entities.Appointment{
			ID: date, PatientName: "Walk Up", Service: "General Checkup", Date: date, Time: "09:00",
			Status: entities.AppointmentStatusScheduled, IsAnonymous: true,
		}))
	}

	stats, err := c.dashboard.Stats(ctx, entities.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TodayScheduled)
	require.Len(t, stats.RecentAppointments, 2)
}

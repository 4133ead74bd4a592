package services

import (
	"context"
	"time"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
)

// ComputeDashboard derives clinic metrics from store snapshots. It keeps no
// state, so every call reflects the data it is given.
func ComputeDashboard(appointments []*entities.Appointment, records []*entities.PatientRecord, today string) *entities.DashboardStats {
	stats := &entities.DashboardStats{
		RecentAppointments: make([]*entities.Appointment, 0, entities.RecentAppointmentsLimit),
	}

	patients := make(map[string]struct{})
	for _, a := range appointments {
		switch a.Status {
		case entities.AppointmentStatusScheduled:
			stats.ScheduledAppointments++
			if a.Date == today {
				stats.TodayScheduled++
			}
		case entities.AppointmentStatusCompleted:
			stats.CompletedAppointments++
		case entities.AppointmentStatusCancelled:
			stats.CancelledAppointments++
		case entities.AppointmentStatusNoShow:
			stats.NoShowAppointments++
		}
		if a.IsAnonymous {
			stats.AnonymousBookings++
		}
		if a.HasPatient() {
			patients[*a.PatientID] = struct{}{}
		}
		if len(stats.RecentAppointments) < entities.RecentAppointmentsLimit {
			stats.RecentAppointments = append(stats.RecentAppointments, a)
		}
	}
	stats.TotalPatients = len(patients)

	for _, r := range records {
		stats.TotalRevenue += r.Cost
	}

	return stats
}

// DashboardService reads the stores and recomputes metrics on every call
type DashboardService struct {
	appointments repositories.AppointmentRepository
	records      repositories.PatientRecordRepository
	gate         *AccessGate
	now          func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	appointments repositories.AppointmentRepository,
	records repositories.PatientRecordRepository,
	gate *AccessGate,
) *DashboardService {
	return &DashboardService{
		appointments: appointments,
		records:      records,
		gate:         gate,
		now:          time.Now,
	}
}

// Stats returns the current dashboard metrics for role
func (s *DashboardService) Stats(ctx context.Context, role entities.Role) (*entities.DashboardStats, error) {
	if err := s.gate.Require(role, entities.OperationViewDashboard); err != nil {
		return nil, err
	}

	appointments, err := s.appointments.List(ctx, repositories.AppointmentFilter{})
	if err != nil {
		return nil, err
	}
	records, err := s.records.List(ctx, repositories.RecordFilter{})
	if err != nil {
		return nil, err
	}

	return ComputeDashboard(appointments, records, s.now().UTC().Format(entities.DateLayout)), nil
}

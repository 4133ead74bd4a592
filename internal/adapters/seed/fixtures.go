// Package seed holds the demo clinic used by the memory backend and the seed command.
package seed

import (
	"context"
	"time"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
)

// Users returns the clinic's demo accounts
func Users() []*entities.User {
	created := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	return []*entities.User{
		{ID: "1", Name: "Dr. Sarah Johnson", Email: "sarah.johnson@dentalclinic.com", Phone: "+1 555-0101", Role: entities.RoleDentist, CreatedAt: created},
		{ID: "2", Name: "Dr. Michael Chen", Email: "michael.chen@dentalclinic.com", Phone: "+1 555-0102", Role: entities.RoleDentist, CreatedAt: created},
		{ID: "3", Name: "Emily Rodriguez", Email: "emily.rodriguez@dentalclinic.com", Phone: "+1 555-0103", Role: entities.RoleStaff, CreatedAt: created},
		{ID: "4", Name: "Dr. Robert Smith", Email: "admin@dentalclinic.com", Phone: "+1 555-0104", Role: entities.RoleAdmin, CreatedAt: created},
		{ID: "5", Name: "John Doe", Email: "john.doe@email.com", Phone: "+1 555-0201", Address: "123 Main St", Role: entities.RolePatient, CreatedAt: created},
		{ID: "6", Name: "Jane Smith", Email: "jane.smith@email.com", Phone: "+1 555-0202", Address: "456 Oak Ave", Role: entities.RolePatient, CreatedAt: created},
		{ID: "7", Name: "Mike Wilson", Email: "mike.wilson@email.com", Phone: "+1 555-0203", Address: "789 Pine Rd", Role: entities.RolePatient, CreatedAt: created},
	}
}

// Services returns the treatment catalog
func Services() []*entities.Service {
	return []*entities.Service{
		{ID: "1", Name: "General Checkup", Price: 150, DurationMinutes: 30},
		{ID: "2", Name: "Teeth Cleaning", Price: 120, DurationMinutes: 45},
		{ID: "3", Name: "Tooth Filling", Price: 200, DurationMinutes: 60},
		{ID: "4", Name: "Root Canal", Price: 800, DurationMinutes: 90},
		{ID: "5", Name: "Tooth Extraction", Price: 300, DurationMinutes: 45},
		{ID: "6", Name: "Teeth Whitening", Price: 400, DurationMinutes: 60},
		{ID: "7", Name: "Dental Crown", Price: 1200, DurationMinutes: 120},
		{ID: "8", Name: "Emergency Visit", Price: 250, DurationMinutes: 30},
	}
}

// Appointments returns demo appointments relative to today
func Appointments(today time.Time) []*entities.Appointment {
	day := func(offset int) string {
		return today.UTC().AddDate(0, 0, offset).Format(entities.DateLayout)
	}
	pid := func(id string) *string { return &id }
	at := today.UTC().Truncate(time.Hour)

	return []*entities.Appointment{
		{ID: "1", PatientID: pid("5"), PatientName: "John Doe", PatientEmail: "john.doe@email.com", PatientPhone: "+1 555-0201",
			Service: "General Checkup", DentistID: "1", Date: day(0), Time: "09:00", Status: entities.AppointmentStatusScheduled, CreatedAt: at, UpdatedAt: at},
		{ID: "2", PatientID: pid("6"), PatientName: "Jane Smith", PatientEmail: "jane.smith@email.com", PatientPhone: "+1 555-0202",
			Service: "Teeth Cleaning", DentistID: "2", Date: day(0), Time: "10:30", Status: entities.AppointmentStatusScheduled, CreatedAt: at, UpdatedAt: at},
		{ID: "3", PatientID: pid("5"), PatientName: "John Doe", PatientEmail: "john.doe@email.com", PatientPhone: "+1 555-0201",
			Service: "Tooth Filling", DentistID: "1", Date: day(-7), Time: "14:00", Status: entities.AppointmentStatusCompleted, CreatedAt: at, UpdatedAt: at},
		{ID: "4", PatientID: pid("7"), PatientName: "Mike Wilson", PatientEmail: "mike.wilson@email.com", PatientPhone: "+1 555-0203",
			Service: "Root Canal", DentistID: "2", Date: day(-3), Time: "11:00", Status: entities.AppointmentStatusCancelled, CreatedAt: at, UpdatedAt: at},
		{ID: "5", PatientName: "Alex Turner", PatientEmail: "alex.turner@email.com",
			Service: "Emergency Visit", DentistID: "1", Date: day(1), Time: "15:30", Status: entities.AppointmentStatusScheduled, IsAnonymous: true, CreatedAt: at, UpdatedAt: at},
		{ID: "6", PatientID: pid("6"), PatientName: "Jane Smith", PatientEmail: "jane.smith@email.com", PatientPhone: "+1 555-0202",
			Service: "General Checkup", DentistID: "4", Date: day(-14), Time: "09:30", Status: entities.AppointmentStatusNoShow, CreatedAt: at, UpdatedAt: at},
	}
}

// Records returns demo patient records
func Records(today time.Time) []*entities.PatientRecord {
	appt := "3"
	at := today.UTC().Truncate(time.Hour)
	return []*entities.PatientRecord{
		{ID: "1", PatientID: "5", AppointmentID: &appt, Date: today.UTC().AddDate(0, 0, -7).Format(entities.DateLayout),
			Treatment: "Tooth Filling", Diagnosis: "Cavity in lower left molar", Cost: 200,
			DentistID: "1", DentistName: "Dr. Sarah Johnson", Notes: "Composite filling applied", CreatedAt: at, UpdatedAt: at},
		{ID: "2", PatientID: "6", Date: today.UTC().AddDate(0, -2, 0).Format(entities.DateLayout),
			Treatment: "Teeth Cleaning", Diagnosis: "Mild plaque buildup", Cost: 120,
			DentistID: "2", DentistName: "Dr. Michael Chen", CreatedAt: at, UpdatedAt: at},
	}
}

// Stores is the set of writable stores the demo data is loaded into
type Stores struct {
	Appointments repositories.AppointmentRepository
	Records      repositories.PatientRecordRepository
}

// Load writes the demo appointments and records into stores
func Load(ctx context.Context, stores Stores, today time.Time) error {
	for _, a := range Appointments(today) {
		if err := stores.Appointments.Create(ctx, a); err != nil {
			return err
		}
	}
	for _, r := range Records(today) {
		if err := stores.Records.Create(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

package entities

import (
	"fmt"
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no-show"
)

// Date and time layouts used by appointments and records.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// AllAppointmentStatuses lists every status an appointment can hold.
var AllAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
	AppointmentStatusNoShow,
}

// IsValid reports whether s is one of the four appointment statuses
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s
func (s AppointmentStatus) IsTerminal() bool {
	return s.IsValid() && s != AppointmentStatusScheduled
}

// ParseAppointmentStatus converts raw input into a status
func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	s := AppointmentStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown appointment status %q", raw)
	}
	return s, nil
}

// Appointment represents a booked clinical visit
type Appointment struct {
	ID           string            `json:"id" db:"id"`
	PatientID    *string           `json:"patient_id,omitempty" db:"patient_id"`
	PatientName  string            `json:"patient_name" db:"patient_name"`
	PatientEmail string            `json:"patient_email" db:"patient_email"`
	PatientPhone string            `json:"patient_phone" db:"patient_phone"`
	Service      string            `json:"service" db:"service"`
	DentistID    string            `json:"dentist_id" db:"dentist_id"`
	Date         string            `json:"date" db:"date"`
	Time         string            `json:"time" db:"time"`
	Status       AppointmentStatus `json:"status" db:"status"`
	IsAnonymous  bool              `json:"is_anonymous" db:"is_anonymous"`
	Notes        string            `json:"notes" db:"notes"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at"`
}

// HasPatient reports whether the appointment is linked to a registered patient
func (a *Appointment) HasPatient() bool {
	return a.PatientID != nil && *a.PatientID != ""
}

// BelongsTo reports whether the appointment is linked to patientID
func (a *Appointment) BelongsTo(patientID string) bool {
	return a.HasPatient() && *a.PatientID == patientID
}

// Validate checks the structural invariants every stored appointment must hold
func (a *Appointment) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("appointment id is required")
	}
	if !a.Status.IsValid() {
		return fmt.Errorf("appointment status %q is not valid", a.Status)
	}
	if a.IsAnonymous && a.PatientID != nil {
		return fmt.Errorf("anonymous appointment must not carry a patient id")
	}
	return nil
}

// Clone returns a deep copy so callers never share mutable state with a store
func (a *Appointment) Clone() *Appointment {
	if a == nil {
		return nil
	}
	c := *a
	if a.PatientID != nil {
		id := *a.PatientID
		c.PatientID = &id
	}
	return &c
}

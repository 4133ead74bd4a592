package entities

import (
	"fmt"
	"time"
)

// PatientRecord is the clinical and financial record of a finalized visit
type PatientRecord struct {
	ID            string    `json:"id" db:"id"`
	PatientID     string    `json:"patient_id" db:"patient_id"`
	AppointmentID *string   `json:"appointment_id,omitempty" db:"appointment_id"`
	Date          string    `json:"date" db:"date"`
	Treatment     string    `json:"treatment" db:"treatment"`
	Diagnosis     string    `json:"diagnosis" db:"diagnosis"`
	Cost          float64   `json:"cost" db:"cost"`
	DentistID     string    `json:"dentist_id" db:"dentist_id"`
	DentistName   string    `json:"dentist_name" db:"dentist_name"`
	Notes         string    `json:"notes" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks the invariants a stored record must hold
func (r *PatientRecord) Validate() error {
	if r.PatientID == "" {
		return fmt.Errorf("patient id is required")
	}
	if r.Treatment == "" {
		return fmt.Errorf("treatment is required")
	}
	if r.Diagnosis == "" {
		return fmt.Errorf("diagnosis is required")
	}
	if r.Cost < 0 {
		return fmt.Errorf("cost must not be negative")
	}
	return nil
}

// Clone returns a deep copy of the record
func (r *PatientRecord) Clone() *PatientRecord {
	if r == nil {
		return nil
	}
	c := *r
	if r.AppointmentID != nil {
		id := *r.AppointmentID
		c.AppointmentID = &id
	}
	return &c
}

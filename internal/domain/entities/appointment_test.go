package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatus_IsValid(t *testing.T) {
	for _, s := range AllAppointmentStatuses {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, AppointmentStatus("pending").IsValid())
	assert.False(t, AppointmentStatus("").IsValid())
}

func TestAppointmentStatus_IsTerminal(t *testing.T) {
	assert.False(t, AppointmentStatusScheduled.IsTerminal())
	assert.True(t, AppointmentStatusCompleted.IsTerminal())
	assert.True(t, AppointmentStatusCancelled.IsTerminal())
	assert.True(t, AppointmentStatusNoShow.IsTerminal())
	assert.False(t, AppointmentStatus("bogus").IsTerminal())
}

func TestParseAppointmentStatus(t *testing.T) {
	s, err := ParseAppointmentStatus("no-show")
	assert.NoError(t, err)
	assert.Equal(t, AppointmentStatusNoShow, s)

	_, err = ParseAppointmentStatus("noshow")
	assert.Error(t, err)
}

func TestAppointment_Validate(t *testing.T) {
	pid := "p1"

	ok := &Appointment{ID: "a1", Status: AppointmentStatusScheduled, PatientID: &pid}
	assert.NoError(t, ok.Validate())

	anon := &Appointment{ID: "a2", Status: AppointmentStatusScheduled, IsAnonymous: true}
	assert.NoError(t, anon.Validate())

	anonWithPatient := &Appointment{ID: "a3", Status: AppointmentStatusScheduled, IsAnonymous: true, PatientID: &pid}
	assert.Error(t, anonWithPatient.Validate())

	badStatus := &Appointment{ID: "a4", Status: "pending"}
	assert.Error(t, badStatus.Validate())
}

func TestAppointment_CloneIsDeep(t *testing.T) {
	pid := "p1"
	a := &Appointment{ID: "a1", PatientID: &pid}

	c := a.Clone()
	*c.PatientID = "p2"

	assert.Equal(t, "p1", *a.PatientID)
	assert.True(t, a.BelongsTo("p1"))
	assert.False(t, a.BelongsTo("p2"))
}

package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/dentalclinic/internal/application/services"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

func TestAccessGate_CanAccess(t *testing.T) {
	gate := services.NewAccessGate()

	tests := []struct {
		role    entities.Role
		section entities.Section
		want    bool
	}{
		{entities.RolePatient, entities.SectionPatients, false},
		{entities.RoleAdmin, entities.SectionPatients, true},
		{entities.RoleDentist, entities.SectionPatients, true},
		{entities.RoleStaff, entities.SectionPatients, false},
		{entities.RoleStaff, entities.SectionWalkIn, true},
		{entities.RoleDentist, entities.SectionWalkIn, true},
		{entities.RolePatient, entities.SectionWalkIn, false},
		{entities.RolePatient, entities.SectionMyProfile, true},
		{entities.RoleAdmin, entities.SectionMyProfile, false},
		{entities.RoleStaff, entities.SectionDashboard, true},
		{entities.RolePatient, entities.SectionBookAppointment, true},
		{entities.RolePatient, entities.SectionAppointments, true},
		{entities.RoleAdmin, entities.Section("billing"), false},
		{entities.Role("janitor"), entities.SectionDashboard, false},
		{entities.Role(""), entities.SectionDashboard, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.section), func(t *testing.T) {
			assert.Equal(t, tt.want, gate.CanAccess(tt.role, tt.section))
		})
	}
}

func TestAccessGate_ResolveSectionIsTotal(t *testing.T) {
	gate := services.NewAccessGate()
	sections := []entities.Section{
		entities.SectionDashboard, entities.SectionBookAppointment, entities.SectionAppointments,
		entities.SectionPatients, entities.SectionWalkIn, entities.SectionMyProfile,
		entities.SectionHome, entities.Section("unknown"),
	}

	for _, role := range entities.AllRoles {
		session := entities.Session{User: &entities.User{ID: "u", Role: role}}
		for _, section := range sections {
			got := gate.ResolveSection(session, section)
			if gate.CanAccess(role, section) {
				assert.Equal(t, section, got)
			} else {
				assert.Equal(t, entities.SectionDashboard, got, "%s -> %s", role, section)
			}
		}
	}
}

func TestAccessGate_ResolveSectionSessionStates(t *testing.T) {
	gate := services.NewAccessGate()

	assert.Equal(t, entities.SectionLoading, gate.ResolveSection(entities.Session{Loading: true}, entities.SectionPatients))
	assert.Equal(t, entities.SectionHome, gate.ResolveSection(entities.Session{}, entities.SectionDashboard))

	patient := entities.Session{User: &entities.User{ID: "5", Role: entities.RolePatient}}
	assert.Equal(t, entities.SectionDashboard, gate.ResolveSection(patient, entities.SectionPatients))
	assert.Equal(t, entities.SectionMyProfile, gate.ResolveSection(patient, entities.SectionMyProfile))

	staff := entities.Session{User: &entities.User{ID: "3", Role: entities.RoleStaff}}
	assert.Equal(t, entities.SectionWalkIn, gate.ResolveSection(staff, entities.ParseSection("walk-in-patient")))
}

func TestAccessGate_Operations(t *testing.T) {
	gate := services.NewAccessGate()

	assert.True(t, gate.CanPerform(entities.RolePatient, entities.OperationBookAppointment))
	assert.False(t, gate.CanPerform(entities.RolePatient, entities.OperationTransitionAppointment))
	assert.True(t, gate.CanPerform(entities.RoleStaff, entities.OperationTransitionAppointment))
	assert.True(t, gate.CanPerform(entities.RoleStaff, entities.OperationDeleteAppointment))
	assert.False(t, gate.CanPerform(entities.RoleDentist, entities.OperationDeleteAppointment))
	assert.False(t, gate.CanPerform(entities.RoleStaff, entities.OperationCreateRecord))
	assert.True(t, gate.CanPerform(entities.RoleAdmin, entities.OperationCreateRecord))
	assert.False(t, gate.CanPerform(entities.RoleAdmin, entities.Operation("appointment:archive")))

	err := gate.Require(entities.RolePatient, entities.OperationDequeueWalkIn)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAccessDenied))
	assert.NoError(t, gate.Require(entities.RoleDentist, entities.OperationDequeueWalkIn))

	err = gate.Require("", entities.OperationBookAppointment)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAccessDenied))
}

func TestAccessGate_Sections(t *testing.T) {
	gate := services.NewAccessGate()

	assert.Equal(t, []entities.Section{
		entities.SectionDashboard, entities.SectionBookAppointment, entities.SectionAppointments, entities.SectionMyProfile,
	}, gate.Sections(entities.RolePatient))

	assert.Equal(t, []entities.Section{
		entities.SectionDashboard, entities.SectionBookAppointment, entities.SectionAppointments,
		entities.SectionPatients, entities.SectionWalkIn,
	}, gate.Sections(entities.RoleAdmin))
}

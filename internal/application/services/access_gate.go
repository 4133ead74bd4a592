package services

import (
	"fmt"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

type roleSet map[entities.Role]struct{}

func roles(rs ...entities.Role) roleSet {
	set := make(roleSet, len(rs))
	for _, r := range rs {
		set[r] = struct{}{}
	}
	return set
}

func (s roleSet) has(r entities.Role) bool {
	_, ok := s[r]
	return ok
}

var (
	everyone   = roles(entities.AllRoles...)
	clinicians = roles(entities.RoleDentist, entities.RoleAdmin)
	floorTeam  = roles(entities.RoleStaff, entities.RoleDentist, entities.RoleAdmin)
	frontDesk  = roles(entities.RoleStaff, entities.RoleAdmin)
	patients   = roles(entities.RolePatient)
)

// sectionRules is the single source of truth for which role may open which screen.
var sectionRules = map[entities.Section]roleSet{
	entities.SectionDashboard:       everyone,
	entities.SectionBookAppointment: everyone,
	entities.SectionAppointments:    everyone,
	entities.SectionPatients:        clinicians,
	entities.SectionWalkIn:          floorTeam,
	entities.SectionMyProfile:       patients,
}

var operationRules = map[entities.Operation]roleSet{
	entities.OperationBookAppointment:       everyone,
	entities.OperationViewAppointments:      everyone,
	entities.OperationViewDashboard:         everyone,
	entities.OperationTransitionAppointment: floorTeam,
	entities.OperationDeleteAppointment:     frontDesk,
	entities.OperationEnqueueWalkIn:         floorTeam,
	entities.OperationDequeueWalkIn:         floorTeam,
	entities.OperationViewWalkIns:           floorTeam,
	entities.OperationCreateRecord:          clinicians,
	entities.OperationViewRecords:           clinicians,
	entities.OperationEditRecord:            clinicians,
	entities.OperationViewProfile:           patients,
	entities.OperationStreamEvents:          floorTeam,
}

// AccessGate decides what each role may see and do. Every answer comes from
// the static rule tables above; unknown roles, sections and operations are denied.
type AccessGate struct{}

// NewAccessGate creates a new access gate
func NewAccessGate() *AccessGate {
	return &AccessGate{}
}

// CanAccess reports whether role may open section
func (g *AccessGate) CanAccess(role entities.Role, section entities.Section) bool {
	allowed, ok := sectionRules[section]
	return ok && allowed.has(role)
}

// CanPerform reports whether role may carry out op
func (g *AccessGate) CanPerform(role entities.Role, op entities.Operation) bool {
	allowed, ok := operationRules[op]
	return ok && allowed.has(role)
}

// Require returns an access denied error unless role may carry out op
func (g *AccessGate) Require(role entities.Role, op entities.Operation) error {
	if g.CanPerform(role, op) {
		return nil
	}
	if role == "" {
		return apperrors.NewAccessDeniedError(fmt.Sprintf("anonymous visitors may not perform %s", op))
	}
	return apperrors.NewAccessDeniedError(fmt.Sprintf("role %s may not perform %s", role, op))
}

// ResolveSection maps a requested section onto the one the visitor actually sees.
// A loading session stays on the loading view, anonymous visitors land on home,
// and a denied or unknown request falls back to the dashboard.
func (g *AccessGate) ResolveSection(session entities.Session, requested entities.Section) entities.Section {
	if session.Loading {
		return entities.SectionLoading
	}
	if session.User == nil {
		return entities.SectionHome
	}
	if g.CanAccess(session.User.Role, requested) {
		return requested
	}
	return entities.SectionDashboard
}

// Sections lists the sections role may open, in navigation order
func (g *AccessGate) Sections(role entities.Role) []entities.Section {
	order := []entities.Section{
		entities.SectionDashboard,
		entities.SectionBookAppointment,
		entities.SectionAppointments,
		entities.SectionPatients,
		entities.SectionWalkIn,
		entities.SectionMyProfile,
	}
	var out []entities.Section
	for _, s := range order {
		if g.CanAccess(role, s) {
			out = append(out, s)
		}
	}
	return out
}

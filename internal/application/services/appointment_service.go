package services

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/providers"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// StatusFilterAll selects every appointment regardless of status
const StatusFilterAll = "all"

// Contact types accepted for anonymous bookings
const (
	ContactTypeEmail = "email"
	ContactTypePhone = "phone"
)

// BookingDetails is everything needed to book a visit. Either Patient is set,
// or the anonymous contact fields are filled in.
type BookingDetails struct {
	Patient *entities.User

	FirstName   string
	LastName    string
	Contact     string
	ContactType string

	Service   string
	DentistID string
	Date      string
	Time      string
	Notes     string
}

// AppointmentService handles appointment booking logic
type AppointmentService struct {
	repo     repositories.AppointmentRepository
	users    repositories.UserRepository
	catalog  repositories.ServiceCatalog
	machine  *StatusMachine
	gate     *AccessGate
	eventBus providers.EventBus
	now      func() time.Time
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	repo repositories.AppointmentRepository,
	users repositories.UserRepository,
	catalog repositories.ServiceCatalog,
	machine *StatusMachine,
	gate *AccessGate,
	eventBus providers.EventBus,
) *AppointmentService {
	return &AppointmentService{
		repo:     repo,
		users:    users,
		catalog:  catalog,
		machine:  machine,
		gate:     gate,
		eventBus: eventBus,
		now:      time.Now,
	}
}

// BookAppointment validates the details and stores a new scheduled appointment
func (s *AppointmentService) BookAppointment(ctx context.Context, details BookingDetails) (*entities.Appointment, error) {
	appointment, err := s.buildAppointment(ctx, details)
	if err != nil {
		return nil, err
	}

	// Nothing has been written yet; a cancelled request leaves no trace.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("appointment_id", appointment.ID).
		Bool("anonymous", appointment.IsAnonymous).
		Str("service", appointment.Service).
		Msg("appointment booked")

	publishEvent(ctx, s.eventBus, entities.NewAppointmentEvent(
		entities.AppointmentEventBooked, appointment.ID, "", entities.AppointmentStatusScheduled, roleOf(details.Patient),
	))

	return appointment, nil
}

func (s *AppointmentService) buildAppointment(ctx context.Context, d BookingDetails) (*entities.Appointment, error) {
	service := strings.TrimSpace(d.Service)
	date := strings.TrimSpace(d.Date)
	clock := strings.TrimSpace(d.Time)

	switch {
	case service == "":
		return nil, apperrors.NewValidationError("service is required")
	case date == "":
		return nil, apperrors.NewValidationError("date is required")
	case clock == "":
		return nil, apperrors.NewValidationError("time is required")
	}
	if _, err := time.Parse(entities.DateLayout, date); err != nil {
		return nil, apperrors.NewValidationError("date must be formatted as YYYY-MM-DD")
	}
	if _, err := time.Parse(entities.TimeLayout, clock); err != nil {
		return nil, apperrors.NewValidationError("time must be formatted as HH:MM")
	}

	if s.catalog != nil {
		if _, err := s.catalog.GetServiceByName(ctx, service); err != nil {
			if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
				return nil, apperrors.NewValidationError(fmt.Sprintf("unknown service %q", service))
			}
			return nil, err
		}
	}

	dentistID := strings.TrimSpace(d.DentistID)
	if dentistID != "" && s.users != nil {
		dentist, err := s.users.GetByID(ctx, dentistID)
		if err != nil {
			if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
				return nil, apperrors.NewValidationError(fmt.Sprintf("unknown dentist %q", dentistID))
			}
			return nil, err
		}
		if !dentist.Role.IsClinician() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("user %q cannot be assigned as dentist", dentistID))
		}
	}

	now := s.now().UTC()
	appointment := &entities.Appointment{
		ID:        uuid.NewString(),
		Service:   service,
		DentistID: dentistID,
		Date:      date,
		Time:      clock,
		Status:    entities.AppointmentStatusScheduled,
		Notes:     strings.TrimSpace(d.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if d.Patient != nil {
		if d.Patient.ID == "" {
			return nil, apperrors.NewValidationError("patient identity is incomplete")
		}
		id := d.Patient.ID
		appointment.PatientID = &id
		appointment.PatientName = d.Patient.Name
		appointment.PatientEmail = d.Patient.Email
		appointment.PatientPhone = d.Patient.Phone
		return appointment, nil
	}

	first := strings.TrimSpace(d.FirstName)
	last := strings.TrimSpace(d.LastName)
	contact := strings.TrimSpace(d.Contact)
	switch {
	case first == "":
		return nil, apperrors.NewValidationError("first name is required")
	case last == "":
		return nil, apperrors.NewValidationError("last name is required")
	case contact == "":
		return nil, apperrors.NewValidationError("contact is required")
	}

	appointment.IsAnonymous = true
	appointment.PatientName = first + " " + last
	switch d.ContactType {
	case "", ContactTypeEmail:
		if !strings.Contains(contact, "@") {
			return nil, apperrors.NewValidationError("contact must be an email address")
		}
		appointment.PatientEmail = contact
	case ContactTypePhone:
		appointment.PatientPhone = contact
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown contact type %q", d.ContactType))
	}

	return appointment, nil
}

// UpdateStatus moves an appointment to target. The status machine owns every rule.
func (s *AppointmentService) UpdateStatus(ctx context.Context, actorRole entities.Role, id string, target entities.AppointmentStatus) (*entities.Appointment, error) {
	return s.machine.Transition(ctx, id, target, actorRole)
}

// DeleteAppointment permanently removes an appointment. An unknown id is a not found error.
func (s *AppointmentService) DeleteAppointment(ctx context.Context, actorRole entities.Role, id string) error {
	if err := s.gate.Require(actorRole, entities.OperationDeleteAppointment); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("appointment_id", id).
		Str("actor_role", string(actorRole)).
		Msg("appointment deleted")

	publishEvent(ctx, s.eventBus, entities.NewAppointmentEvent(entities.AppointmentEventDeleted, id, "", "", actorRole))
	return nil
}

// GetAppointment retrieves a single appointment
func (s *AppointmentService) GetAppointment(ctx context.Context, id string) (*entities.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// AppointmentFor returns one appointment if user may see it. A patient asking
// for another patient's appointment gets a not found error.
func (s *AppointmentService) AppointmentFor(ctx context.Context, user *entities.User, id string) (*entities.Appointment, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorizedError("sign in to view appointments")
	}
	if err := s.gate.Require(user.Role, entities.OperationViewAppointments); err != nil {
		return nil, err
	}
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == entities.RolePatient && !appointment.BelongsTo(user.ID) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment %s not found", id))
	}
	return appointment, nil
}

// FilterByStatus returns the appointments holding status, or every appointment
// for "all", in booking order. The sequence reads from one snapshot and can be
// ranged over any number of times.
func (s *AppointmentService) FilterByStatus(ctx context.Context, status string) (iter.Seq[*entities.Appointment], error) {
	return s.filter(ctx, status, "")
}

// FilterForPatient is FilterByStatus narrowed to one patient's appointments
func (s *AppointmentService) FilterForPatient(ctx context.Context, patientID, status string) (iter.Seq[*entities.Appointment], error) {
	if patientID == "" {
		return nil, apperrors.NewValidationError("patient id is required")
	}
	return s.filter(ctx, status, patientID)
}

// VisibleTo returns the appointments user may list. Patients only ever see their own.
func (s *AppointmentService) VisibleTo(ctx context.Context, user *entities.User, status string) (iter.Seq[*entities.Appointment], error) {
	if user == nil {
		return nil, apperrors.NewUnauthorizedError("sign in to view appointments")
	}
	if err := s.gate.Require(user.Role, entities.OperationViewAppointments); err != nil {
		return nil, err
	}
	if user.Role == entities.RolePatient {
		return s.FilterForPatient(ctx, user.ID, status)
	}
	return s.FilterByStatus(ctx, status)
}

func (s *AppointmentService) filter(ctx context.Context, status, patientID string) (iter.Seq[*entities.Appointment], error) {
	filter := repositories.AppointmentFilter{PatientID: patientID}
	if status != "" && status != StatusFilterAll {
		parsed, err := entities.ParseAppointmentStatus(status)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		filter.Status = parsed
	}

	snapshot, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return func(yield func(*entities.Appointment) bool) {
		for _, a := range snapshot {
			if !filter.Matches(a) {
				continue
			}
			if !yield(a.Clone()) {
				return
			}
		}
	}, nil
}

func roleOf(u *entities.User) entities.Role {
	if u == nil {
		return ""
	}
	return u.Role
}

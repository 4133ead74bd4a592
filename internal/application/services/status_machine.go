package services

import (
	"context"
	"fmt"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/providers"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// ValidateTransition checks that an appointment may move from one status to
// another. Only scheduled appointments move, and only into a terminal status.
func ValidateTransition(from, to entities.AppointmentStatus) error {
	if !to.IsValid() {
		return apperrors.NewInvalidTransitionError(fmt.Sprintf("unknown target status %q", to))
	}
	if from != entities.AppointmentStatusScheduled {
		return apperrors.NewInvalidTransitionError(fmt.Sprintf("cannot move a %s appointment to %s", from, to))
	}
	if !to.IsTerminal() {
		return apperrors.NewInvalidTransitionError(fmt.Sprintf("cannot move a %s appointment to %s", from, to))
	}
	return nil
}

// StatusMachine applies appointment status transitions
type StatusMachine struct {
	repo     repositories.AppointmentRepository
	gate     *AccessGate
	eventBus providers.EventBus
	metrics  *observability.Metrics
}

// NewStatusMachine creates a new status machine. eventBus and metrics may be nil.
func NewStatusMachine(
	repo repositories.AppointmentRepository,
	gate *AccessGate,
	eventBus providers.EventBus,
	metrics *observability.Metrics,
) *StatusMachine {
	return &StatusMachine{
		repo:     repo,
		gate:     gate,
		eventBus: eventBus,
		metrics:  metrics,
	}
}

// Transition moves appointment id to target on behalf of actorRole.
// Permission is checked before the appointment is read, and the write only
// lands if nobody changed the status in between.
func (m *StatusMachine) Transition(ctx context.Context, id string, target entities.AppointmentStatus, actorRole entities.Role) (*entities.Appointment, error) {
	if err := m.gate.Require(actorRole, entities.OperationTransitionAppointment); err != nil {
		return nil, err
	}

	current, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(current.Status, target); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	updated, err := m.repo.UpdateStatus(ctx, id, current.Status, target)
	if err != nil {
		return nil, err
	}

	observability.RecordStatusTransition(ctx, m.metrics, string(current.Status), string(target), string(actorRole))
	m.publish(ctx, entities.NewAppointmentEvent(entities.AppointmentEventStatusChanged, id, current.Status, target, actorRole))

	return updated, nil
}

func (m *StatusMachine) publish(ctx context.Context, event *entities.AppointmentEvent) {
	publishEvent(ctx, m.eventBus, event)
}

// publishEvent sends an event without letting a bus failure undo the committed change
func publishEvent(ctx context.Context, bus providers.EventBus, event *entities.AppointmentEvent) {
	if bus == nil {
		return
	}
	if err := bus.Publish(context.WithoutCancel(ctx), providers.EventChannelAppointments, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("appointment_id", event.AppointmentID).
			Str("event_type", string(event.Type)).
			Msg("failed to publish appointment event")
	}
}

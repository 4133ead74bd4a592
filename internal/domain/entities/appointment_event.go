package entities

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentEventType represents the type of appointment event
type AppointmentEventType string

const (
	AppointmentEventBooked        AppointmentEventType = "booked"
	AppointmentEventStatusChanged AppointmentEventType = "status_changed"
	AppointmentEventDeleted       AppointmentEventType = "deleted"
)

// AppointmentEvent is published whenever an appointment is booked, moved or removed
type AppointmentEvent struct {
	ID            string               `json:"id"`
	Type          AppointmentEventType `json:"type"`
	AppointmentID string               `json:"appointment_id"`
	From          AppointmentStatus    `json:"from,omitempty"`
	To            AppointmentStatus    `json:"to,omitempty"`
	ActorRole     Role                 `json:"actor_role,omitempty"`
	Timestamp     time.Time            `json:"timestamp"`
}

// NewAppointmentEvent creates a new appointment event
func NewAppointmentEvent(eventType AppointmentEventType, appointmentID string, from, to AppointmentStatus, actor Role) *AppointmentEvent {
	return &AppointmentEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		AppointmentID: appointmentID,
		From:          from,
		To:            to,
		ActorRole:     actor,
		Timestamp:     time.Now().UTC(),
	}
}

package entities

import (
	"fmt"
	"time"
)

// WalkInPriority orders unscheduled arrivals
type WalkInPriority string

const (
	WalkInPriorityUrgent  WalkInPriority = "urgent"
	WalkInPriorityNormal  WalkInPriority = "normal"
	WalkInPriorityRoutine WalkInPriority = "routine"
)

// Rank returns the ordinal used for queue ordering. Higher goes first.
func (p WalkInPriority) Rank() int {
	switch p {
	case WalkInPriorityUrgent:
		return 3
	case WalkInPriorityNormal:
		return 2
	case WalkInPriorityRoutine:
		return 1
	}
	return 0
}

// ParseWalkInPriority converts raw input into a priority. Empty input means normal.
func ParseWalkInPriority(raw string) (WalkInPriority, error) {
	if raw == "" {
		return WalkInPriorityNormal, nil
	}
	p := WalkInPriority(raw)
	if p.Rank() == 0 {
		return "", fmt.Errorf("unknown walk-in priority %q", raw)
	}
	return p, nil
}

// WalkInStatus tracks an arrival through the clinic floor
type WalkInStatus string

const (
	WalkInStatusWaiting   WalkInStatus = "waiting"
	WalkInStatusInService WalkInStatus = "in-service"
	WalkInStatusDone      WalkInStatus = "done"
)

// NextAvailableDentist is the dentist id used when any clinician may take the walk-in
const NextAvailableDentist = "next-available"

// WalkInEntry is an unscheduled arrival waiting to be seen
type WalkInEntry struct {
	ID        string         `json:"id" db:"id"`
	FirstName string         `json:"first_name" db:"first_name"`
	LastName  string         `json:"last_name" db:"last_name"`
	Email     string         `json:"email,omitempty" db:"email"`
	Phone     string         `json:"phone" db:"phone"`
	Service   string         `json:"service" db:"service"`
	DentistID string         `json:"dentist_id" db:"dentist_id"`
	Priority  WalkInPriority `json:"priority" db:"priority"`
	ArrivedAt time.Time      `json:"arrived_at" db:"arrived_at"`
	Status    WalkInStatus   `json:"status" db:"status"`
	Notes     string         `json:"notes,omitempty" db:"notes"`
}

// FullName returns the arrival's display name
func (w *WalkInEntry) FullName() string {
	return w.FirstName + " " + w.LastName
}

// WalkInBefore reports whether a is served before b: higher priority rank
// first, then earlier arrival.
func WalkInBefore(a, b *WalkInEntry) bool {
	ra, rb := a.Priority.Rank(), b.Priority.Rank()
	if ra != rb {
		return ra > rb
	}
	return a.ArrivedAt.Before(b.ArrivedAt)
}

package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// WalkInRequest is the intake form for an unscheduled arrival
type WalkInRequest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Service   string
	DentistID string
	Priority  string
	Notes     string
}

// WalkInQueue keeps waiting arrivals ordered by priority rank, then arrival time.
// waiting stays sorted; inserts use a binary search.
type WalkInQueue struct {
	mu      sync.Mutex
	waiting []*entities.WalkInEntry

	repo    repositories.WalkInRepository
	users   repositories.UserRepository
	metrics *observability.Metrics
	now     func() time.Time
}

// NewWalkInQueue creates an empty queue. repo, users and metrics may be nil.
func NewWalkInQueue(repo repositories.WalkInRepository, users repositories.UserRepository, metrics *observability.Metrics) *WalkInQueue {
	return &WalkInQueue{
		repo:    repo,
		users:   users,
		metrics: metrics,
		now:     time.Now,
	}
}

// Restore reloads waiting entries from the repository after a restart
func (q *WalkInQueue) Restore(ctx context.Context) error {
	if q.repo == nil {
		return nil
	}
	entries, err := q.repo.ListByStatus(ctx, entities.WalkInStatusWaiting)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.waiting = q.waiting[:0]
	for _, e := range entries {
		q.insertLocked(e)
	}
	observability.RecordQueueDepthChange(ctx, q.metrics, int64(len(q.waiting)))
	return nil
}

// Enqueue validates an arrival and places it in the queue
func (q *WalkInQueue) Enqueue(ctx context.Context, req WalkInRequest) (*entities.WalkInEntry, error) {
	entry, err := q.buildEntry(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if q.repo != nil {
		if err := q.repo.Create(ctx, entry); err != nil {
			return nil, err
		}
	}

	q.mu.Lock()
	q.insertLocked(entry)
	position := q.positionLocked(entry.ID)
	out := *entry
	q.mu.Unlock()

	observability.RecordQueueDepthChange(ctx, q.metrics, 1)
	observability.LoggerFromContext(ctx).Info().
		Str("walk_in_id", out.ID).
		Str("priority", string(out.Priority)).
		Int("position", position).
		Msg("walk-in queued")

	return &out, nil
}

func (q *WalkInQueue) buildEntry(ctx context.Context, req WalkInRequest) (*entities.WalkInEntry, error) {
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	phone := strings.TrimSpace(req.Phone)
	service := strings.TrimSpace(req.Service)

	switch {
	case first == "":
		return nil, apperrors.NewValidationError("first name is required")
	case last == "":
		return nil, apperrors.NewValidationError("last name is required")
	case phone == "":
		return nil, apperrors.NewValidationError("phone is required")
	case service == "":
		return nil, apperrors.NewValidationError("service is required")
	}

	priority, err := entities.ParseWalkInPriority(strings.TrimSpace(req.Priority))
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	dentistID := strings.TrimSpace(req.DentistID)
	if dentistID == "" {
		dentistID = entities.NextAvailableDentist
	}
	if dentistID != entities.NextAvailableDentist && q.users != nil {
		dentist, err := q.users.GetByID(ctx, dentistID)
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

	return &entities.WalkInEntry{
		ID:        uuid.NewString(),
		FirstName: first,
		LastName:  last,
		Email:     strings.TrimSpace(req.Email),
		Phone:     phone,
		Service:   service,
		DentistID: dentistID,
		Priority:  priority,
		ArrivedAt: q.now().UTC(),
		Status:    entities.WalkInStatusWaiting,
		Notes:     strings.TrimSpace(req.Notes),
	}, nil
}

// insertLocked places e after every entry that is served before it or ties with it,
// so equal keys keep their insertion order.
func (q *WalkInQueue) insertLocked(e *entities.WalkInEntry) {
	i := sort.Search(len(q.waiting), func(i int) bool {
		return entities.WalkInBefore(e, q.waiting[i])
	})
	q.waiting = append(q.waiting, nil)
	copy(q.waiting[i+1:], q.waiting[i:])
	q.waiting[i] = e
}

func (q *WalkInQueue) positionLocked(id string) int {
	for i, e := range q.waiting {
		if e.ID == id {
			return i + 1
		}
	}
	return 0
}

// DequeueNext removes the head of the queue and marks it in service.
// ok is false when the queue is empty. If the status change cannot be
// persisted the entry stays at the head of the queue.
func (q *WalkInQueue) DequeueNext(ctx context.Context) (entry *entities.WalkInEntry, ok bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.waiting) == 0 {
		return nil, false, nil
	}

	head := q.waiting[0]
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if q.repo != nil {
		if err := q.repo.UpdateStatus(ctx, head.ID, entities.WalkInStatusInService); err != nil {
			return nil, false, err
		}
	}

	q.waiting[0] = nil
	q.waiting = q.waiting[1:]
	head.Status = entities.WalkInStatusInService

	observability.RecordQueueDepthChange(ctx, q.metrics, -1)
	observability.LoggerFromContext(ctx).Info().
		Str("walk_in_id", head.ID).
		Str("priority", string(head.Priority)).
		Msg("walk-in called in")

	out := *head
	return &out, true, nil
}

// Complete marks an in-service walk-in as done
func (q *WalkInQueue) Complete(ctx context.Context, id string) error {
	if q.repo == nil {
		return nil
	}
	entries, err := q.repo.ListByStatus(ctx, entities.WalkInStatusInService)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.ID == id {
			return q.repo.UpdateStatus(ctx, id, entities.WalkInStatusDone)
		}
	}
	return apperrors.NewNotFoundError(fmt.Sprintf("no walk-in %s is in service", id))
}

// InService lists walk-ins currently being seen
func (q *WalkInQueue) InService(ctx context.Context) ([]*entities.WalkInEntry, error) {
	if q.repo == nil {
		return []*entities.WalkInEntry{}, nil
	}
	return q.repo.ListByStatus(ctx, entities.WalkInStatusInService)
}

// Snapshot returns copies of the waiting entries in service order
func (q *WalkInQueue) Snapshot() []*entities.WalkInEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]*entities.WalkInEntry, len(q.waiting))
	for i, e := range q.waiting {
		c := *e
		out[i] = &c
	}
	return out
}

// Len returns the number of waiting entries
func (q *WalkInQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting)
}

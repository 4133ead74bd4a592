package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// WalkInStore implements repositories.WalkInRepository in memory
type WalkInStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*entities.WalkInEntry
}

// NewWalkInStore creates an empty store
func NewWalkInStore() *WalkInStore {
	return &WalkInStore{byID: make(map[string]*entities.WalkInEntry)}
}

var _ repositories.WalkInRepository = (*WalkInStore)(nil)

// Create stores a copy of entry
func (s *WalkInStore) Create(ctx context.Context, entry *entities.WalkInEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[entry.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("walk-in %s already exists", entry.ID))
	}
	c := *entry
	s.byID[entry.ID] = &c
	s.order = append(s.order, entry.ID)
	return nil
}

// ListByStatus returns copies of entries in status, in arrival order
func (s *WalkInStore) ListByStatus(ctx context.Context, status entities.WalkInStatus) ([]*entities.WalkInEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.WalkInEntry, 0)
	for _, id := range s.order {
		e := s.byID[id]
		if e.Status == status {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

// UpdateStatus changes the status of an entry
func (s *WalkInStore) UpdateStatus(ctx context.Context, id string, status entities.WalkInStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[id]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("walk-in %s not found", id))
	}
	e.Status = status
	return nil
}

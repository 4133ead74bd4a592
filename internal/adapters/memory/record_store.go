package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// RecordStore implements repositories.PatientRecordRepository in memory
type RecordStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*entities.PatientRecord
}

// NewRecordStore creates an empty store
func NewRecordStore() *RecordStore {
	return &RecordStore{byID: make(map[string]*entities.PatientRecord)}
}

var _ repositories.PatientRecordRepository = (*RecordStore)(nil)

// Create stores a copy of record
func (s *RecordStore) Create(ctx context.Context, record *entities.PatientRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := record.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[record.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("record %s already exists", record.ID))
	}
	s.byID[record.ID] = record.Clone()
	s.order = append(s.order, record.ID)
	return nil
}

// GetByID retrieves a copy of a record
func (s *RecordStore) GetByID(ctx context.Context, id string) (*entities.PatientRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("record %s not found", id))
	}
	return r.Clone(), nil
}

// List returns copies of matching records in insertion order
func (s *RecordStore) List(ctx context.Context, filter repositories.RecordFilter) ([]*entities.PatientRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.PatientRecord, 0, len(s.order))
	for _, id := range s.order {
		r := s.byID[id]
		if filter.PatientID != "" && r.PatientID != filter.PatientID {
			continue
		}
		out = append(out, r.Clone())
	}
	return out, nil
}

// Update replaces a stored record
func (s *RecordStore) Update(ctx context.Context, record *entities.PatientRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := record.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[record.ID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("record %s not found", record.ID))
	}
	s.byID[record.ID] = record.Clone()
	return nil
}

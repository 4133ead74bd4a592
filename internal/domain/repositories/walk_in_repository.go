package repositories

import (
	"context"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
)

// WalkInRepository persists walk-in arrivals so the queue survives restarts
type WalkInRepository interface {
	// Create stores a new entry
	Create(ctx context.Context, entry *entities.WalkInEntry) error

	// ListByStatus retrieves entries in the given status, in arrival order
	ListByStatus(ctx context.Context, status entities.WalkInStatus) ([]*entities.WalkInEntry, error)

	// UpdateStatus changes the status of an entry
	UpdateStatus(ctx context.Context, id string, status entities.WalkInStatus) error
}

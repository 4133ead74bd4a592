package repositories

import (
	"context"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
)

// UserRepository defines read access to the identity collaborator's users
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// ListByRoles retrieves users holding any of the given roles
	ListByRoles(ctx context.Context, roles ...entities.Role) ([]*entities.User, error)
}

// ServiceCatalog lists the treatments the clinic offers
type ServiceCatalog interface {
	// ListServices returns every offered service
	ListServices(ctx context.Context) ([]*entities.Service, error)

	// GetServiceByName retrieves a service by its display name
	GetServiceByName(ctx context.Context, name string) (*entities.Service, error)
}

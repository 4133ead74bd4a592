package services

import (
	"context"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
)

// DirectoryService exposes the clinic's treatment catalog and clinicians
type DirectoryService struct {
	users   repositories.UserRepository
	catalog repositories.ServiceCatalog
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(users repositories.UserRepository, catalog repositories.ServiceCatalog) *DirectoryService {
	return &DirectoryService{users: users, catalog: catalog}
}

// Services lists the treatments that can be booked
func (s *DirectoryService) Services(ctx context.Context) ([]*entities.Service, error) {
	return s.catalog.ListServices(ctx)
}

// Dentists lists users who can be assigned to a visit
func (s *DirectoryService) Dentists(ctx context.Context) ([]*entities.User, error) {
	return s.users.ListByRoles(ctx, entities.RoleDentist, entities.RoleAdmin)
}

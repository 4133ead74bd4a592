package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// UserStore implements repositories.UserRepository in memory
type UserStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*entities.User
}

// NewUserStore creates a store holding users
func NewUserStore(users ...*entities.User) *UserStore {
	s := &UserStore{byID: make(map[string]*entities.User)}
	for _, u := range users {
		s.Put(u)
	}
	return s
}

var _ repositories.UserRepository = (*UserStore)(nil)

// Put adds or replaces a user
func (s *UserStore) Put(u *entities.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[u.ID]; !exists {
		s.order = append(s.order, u.ID)
	}
	c := *u
	s.byID[u.ID] = &c
}

// GetByID retrieves a user
func (s *UserStore) GetByID(ctx context.Context, id string) (*entities.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", id))
	}
	c := *u
	return &c, nil
}

// ListByRoles returns users holding any of roles, in insertion order
func (s *UserStore) ListByRoles(ctx context.Context, roles ...entities.Role) ([]*entities.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.User, 0)
	for _, id := range s.order {
		u := s.byID[id]
		for _, r := range roles {
			if u.Role == r {
				c := *u
				out = append(out, &c)
				break
			}
		}
	}
	return out, nil
}

// ServiceCatalog implements repositories.ServiceCatalog over a fixed list
type ServiceCatalog struct {
	services []*entities.Service
}

// NewServiceCatalog creates a catalog of services
func NewServiceCatalog(services ...*entities.Service) *ServiceCatalog {
	return &ServiceCatalog{services: services}
}

var _ repositories.ServiceCatalog = (*ServiceCatalog)(nil)

// ListServices returns every service
func (c *ServiceCatalog) ListServices(ctx context.Context) ([]*entities.Service, error) {
	out := make([]*entities.Service, len(c.services))
	for i, svc := range c.services {
		cp := *svc
		out[i] = &cp
	}
	return out, nil
}

// GetServiceByName looks a service up by name, ignoring case
func (c *ServiceCatalog) GetServiceByName(ctx context.Context, name string) (*entities.Service, error) {
	for _, svc := range c.services {
		if strings.EqualFold(svc.Name, name) {
			cp := *svc
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("service %q not found", name))
}

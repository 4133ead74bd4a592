package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
)

// CacheWarmingService primes the directory caches by reading through them
// once at startup
type CacheWarmingService struct {
	users   repositories.UserRepository
	catalog repositories.ServiceCatalog
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(users repositories.UserRepository, catalog repositories.ServiceCatalog) *CacheWarmingService {
	return &CacheWarmingService{
		users:   users,
		catalog: catalog,
	}
}

// WarmCache loads the service catalog and the clinician directory. Failures
// are logged and reported together; a cold cache is never fatal.
func (s *CacheWarmingService) WarmCache(ctx context.Context) error {
	logger := observability.LoggerFromContext(ctx)
	logger.Info().Msg("Starting cache warming")

	var errs []error
	if n, err := s.warmServices(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to warm service catalog")
		errs = append(errs, err)
	} else {
		logger.Info().Int("services", n).Msg("Warmed service catalog")
	}

	if n, err := s.warmClinicians(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to warm clinician directory")
		errs = append(errs, err)
	} else {
		logger.Info().Int("clinicians", n).Msg("Warmed clinician directory")
	}

	logger.Info().Msg("Cache warming completed")
	return errors.Join(errs...)
}

func (s *CacheWarmingService) warmServices(ctx context.Context) (int, error) {
	services, err := s.catalog.ListServices(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch services: %w", err)
	}
	for _, svc := range services {
		if _, err := s.catalog.GetServiceByName(ctx, svc.Name); err != nil {
			return 0, fmt.Errorf("failed to fetch service %q: %w", svc.Name, err)
		}
	}
	return len(services), nil
}

func (s *CacheWarmingService) warmClinicians(ctx context.Context) (int, error) {
	clinicians, err := s.users.ListByRoles(ctx, entities.RoleDentist, entities.RoleAdmin)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch clinicians: %w", err)
	}
	for _, u := range clinicians {
		if _, err := s.users.GetByID(ctx, u.ID); err != nil {
			return 0, fmt.Errorf("failed to fetch clinician %s: %w", u.ID, err)
		}
	}
	return len(clinicians), nil
}

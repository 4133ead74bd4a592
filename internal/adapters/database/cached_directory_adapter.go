package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/providers"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
)

// Cache TTLs (in seconds)
const (
	userByIDTTL     = 300 // 5 minutes for single user
	usersByRolesTTL = 120 // 2 minutes for staff lists
	servicesTTL     = 600 // 10 minutes for the catalog
)

func userCacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

func usersByRolesCacheKey(roles []entities.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	sort.Strings(names)
	return fmt.Sprintf("users:roles:%s", strings.Join(names, ","))
}

func serviceCacheKey(name string) string {
	return fmt.Sprintf("service:%s", strings.ToLower(name))
}

const servicesListCacheKey = "services:list"

// CachedUserAdapter wraps a UserRepository with caching.
// Users never change role, so stale entries only affect display fields.
type CachedUserAdapter struct {
	adapter repositories.UserRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedUserAdapter creates a new cached user adapter
func NewCachedUserAdapter(adapter repositories.UserRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.UserRepository {
	return &CachedUserAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// GetByID retrieves a user by ID with caching
func (a *CachedUserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	cacheKey := userCacheKey(id)

	var user entities.User
	if readCached(ctx, a.cache, a.metrics, cacheKey, &user) {
		return &user, nil
	}

	found, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	writeCached(a.cache, cacheKey, found, userByIDTTL)
	return found, nil
}

// ListByRoles retrieves users by role with caching
func (a *CachedUserAdapter) ListByRoles(ctx context.Context, roles ...entities.Role) ([]*entities.User, error) {
	cacheKey := usersByRolesCacheKey(roles)

	var users []*entities.User
	if readCached(ctx, a.cache, a.metrics, cacheKey, &users) {
		return users, nil
	}

	found, err := a.adapter.ListByRoles(ctx, roles...)
	if err != nil {
		return nil, err
	}

	writeCached(a.cache, cacheKey, found, usersByRolesTTL)
	return found, nil
}

// CachedServiceCatalog wraps a ServiceCatalog with caching
type CachedServiceCatalog struct {
	catalog repositories.ServiceCatalog
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedServiceCatalog creates a new cached service catalog
func NewCachedServiceCatalog(catalog repositories.ServiceCatalog, cache providers.CacheProvider, metrics *observability.Metrics) repositories.ServiceCatalog {
	return &CachedServiceCatalog{
		catalog: catalog,
		cache:   cache,
		metrics: metrics,
	}
}

// ListServices returns the catalog with caching
func (c *CachedServiceCatalog) ListServices(ctx context.Context) ([]*entities.Service, error) {
	var services []*entities.Service
	if readCached(ctx, c.cache, c.metrics, servicesListCacheKey, &services) {
		return services, nil
	}

	found, err := c.catalog.ListServices(ctx)
	if err != nil {
		return nil, err
	}

	writeCached(c.cache, servicesListCacheKey, found, servicesTTL)
	return found, nil
}

// GetServiceByName retrieves a service by name with caching
func (c *CachedServiceCatalog) GetServiceByName(ctx context.Context, name string) (*entities.Service, error) {
	cacheKey := serviceCacheKey(name)

	var svc entities.Service
	if readCached(ctx, c.cache, c.metrics, cacheKey, &svc) {
		return &svc, nil
	}

	found, err := c.catalog.GetServiceByName(ctx, name)
	if err != nil {
		return nil, err
	}

	writeCached(c.cache, cacheKey, found, servicesTTL)
	return found, nil
}

func readCached(ctx context.Context, cache providers.CacheProvider, metrics *observability.Metrics, key string, dest any) bool {
	cached, err := cache.Get(ctx, key)
	if err != nil {
		observability.RecordCacheMiss(ctx, metrics, key)
		return false
	}
	if err := json.Unmarshal(cached, dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Evicting unreadable cached value")
		if err := cache.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to evict cached value")
		}
		observability.RecordCacheMiss(ctx, metrics, key)
		return false
	}
	observability.RecordCacheHit(ctx, metrics, key)
	return true
}

// writeCached updates the cache asynchronously to avoid blocking the response
func writeCached(cache providers.CacheProvider, key string, value any, ttl int) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to marshal value for cache")
		return
	}
	go func() {
		if err := cache.Set(context.Background(), key, data, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to cache value")
		}
	}()
}

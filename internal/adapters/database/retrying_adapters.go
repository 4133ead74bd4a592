package database

import (
	"context"
	"time"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
)

// RetryingRecordAdapter applies the store call policy to patient records
type RetryingRecordAdapter struct {
	storeCaller
	adapter repositories.PatientRecordRepository
}

// NewRetryingRecordAdapter creates a new retrying patient record adapter
func NewRetryingRecordAdapter(adapter repositories.PatientRecordRepository, callTimeout time.Duration, attempts int, metrics *observability.Metrics) *RetryingRecordAdapter {
	return &RetryingRecordAdapter{
		storeCaller: newStoreCaller("record-store", callTimeout, attempts, metrics),
		adapter:     adapter,
	}
}

var _ repositories.PatientRecordRepository = (*RetryingRecordAdapter)(nil)

// Create stores a record, retrying transient failures
func (a *RetryingRecordAdapter) Create(ctx context.Context, record *entities.PatientRecord) error {
	return a.do(ctx, "record.create", func(ctx context.Context, attempt int) error {
		err := a.adapter.Create(ctx, record)
		if landedEarlier(attempt, err) {
			return nil
		}
		return err
	})
}

// GetByID retrieves a record, retrying transient failures
func (a *RetryingRecordAdapter) GetByID(ctx context.Context, id string) (*entities.PatientRecord, error) {
	var record *entities.PatientRecord
	err := a.do(ctx, "record.get", func(ctx context.Context, _ int) error {
		var err error
		record, err = a.adapter.GetByID(ctx, id)
		return err
	})
	return record, err
}

// List lists records, retrying transient failures
func (a *RetryingRecordAdapter) List(ctx context.Context, filter repositories.RecordFilter) ([]*entities.PatientRecord, error) {
	var records []*entities.PatientRecord
	err := a.do(ctx, "record.list", func(ctx context.Context, _ int) error {
		var err error
		records, err = a.adapter.List(ctx, filter)
		return err
	})
	return records, err
}

// Update rewrites a record. Repeating the same write is harmless.
func (a *RetryingRecordAdapter) Update(ctx context.Context, record *entities.PatientRecord) error {
	return a.do(ctx, "record.update", func(ctx context.Context, _ int) error {
		return a.adapter.Update(ctx, record)
	})
}

// RetryingWalkInAdapter applies the store call policy to walk-in entries
type RetryingWalkInAdapter struct {
	storeCaller
	adapter repositories.WalkInRepository
}

// NewRetryingWalkInAdapter creates a new retrying walk-in adapter
func NewRetryingWalkInAdapter(adapter repositories.WalkInRepository, callTimeout time.Duration, attempts int, metrics *observability.Metrics) *RetryingWalkInAdapter {
	return &RetryingWalkInAdapter{
		storeCaller: newStoreCaller("walk-in-store", callTimeout, attempts, metrics),
		adapter:     adapter,
	}
}

var _ repositories.WalkInRepository = (*RetryingWalkInAdapter)(nil)

// Create stores an arrival, retrying transient failures
func (a *RetryingWalkInAdapter) Create(ctx context.Context, entry *entities.WalkInEntry) error {
	return a.do(ctx, "walk_in.create", func(ctx context.Context, attempt int) error {
		err := a.adapter.Create(ctx, entry)
		if landedEarlier(attempt, err) {
			return nil
		}
		return err
	})
}

// ListByStatus lists entries in status, retrying transient failures
func (a *RetryingWalkInAdapter) ListByStatus(ctx context.Context, status entities.WalkInStatus) ([]*entities.WalkInEntry, error) {
	var entries []*entities.WalkInEntry
	err := a.do(ctx, "walk_in.list", func(ctx context.Context, _ int) error {
		var err error
		entries, err = a.adapter.ListByStatus(ctx, status)
		return err
	})
	return entries, err
}

// UpdateStatus sets an entry's status. Setting the same status twice is harmless.
func (a *RetryingWalkInAdapter) UpdateStatus(ctx context.Context, id string, status entities.WalkInStatus) error {
	return a.do(ctx, "walk_in.update_status", func(ctx context.Context, _ int) error {
		return a.adapter.UpdateStatus(ctx, id, status)
	})
}

// RetryingUserAdapter applies the store call policy to user lookups
type RetryingUserAdapter struct {
	storeCaller
	adapter repositories.UserRepository
}

// NewRetryingUserAdapter creates a new retrying user adapter
func NewRetryingUserAdapter(adapter repositories.UserRepository, callTimeout time.Duration, attempts int, metrics *observability.Metrics) *RetryingUserAdapter {
	return &RetryingUserAdapter{
		storeCaller: newStoreCaller("user-store", callTimeout, attempts, metrics),
		adapter:     adapter,
	}
}

var _ repositories.UserRepository = (*RetryingUserAdapter)(nil)

// GetByID retrieves a user, retrying transient failures
func (a *RetryingUserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	var user *entities.User
	err := a.do(ctx, "user.get", func(ctx context.Context, _ int) error {
		var err error
		user, err = a.adapter.GetByID(ctx, id)
		return err
	})
	return user, err
}

// ListByRoles lists users holding any of roles, retrying transient failures
func (a *RetryingUserAdapter) ListByRoles(ctx context.Context, roles ...entities.Role) ([]*entities.User, error) {
	var users []*entities.User
	err := a.do(ctx, "user.list", func(ctx context.Context, _ int) error {
		var err error
		users, err = a.adapter.ListByRoles(ctx, roles...)
		return err
	})
	return users, err
}

// RetryingServiceCatalog applies the store call policy to the service catalog
type RetryingServiceCatalog struct {
	storeCaller
	catalog repositories.ServiceCatalog
}

// NewRetryingServiceCatalog creates a new retrying service catalog
func NewRetryingServiceCatalog(catalog repositories.ServiceCatalog, callTimeout time.Duration, attempts int, metrics *observability.Metrics) *RetryingServiceCatalog {
	return &RetryingServiceCatalog{
		storeCaller: newStoreCaller("service-catalog", callTimeout, attempts, metrics),
		catalog:     catalog,
	}
}

var _ repositories.ServiceCatalog = (*RetryingServiceCatalog)(nil)

// ListServices lists every service, retrying transient failures
func (c *RetryingServiceCatalog) ListServices(ctx context.Context) ([]*entities.Service, error) {
	var services []*entities.Service
	err := c.do(ctx, "service.list", func(ctx context.Context, _ int) error {
		var err error
		services, err = c.catalog.ListServices(ctx)
		return err
	})
	return services, err
}

// GetServiceByName retrieves a service, retrying transient failures
func (c *RetryingServiceCatalog) GetServiceByName(ctx context.Context, name string) (*entities.Service, error) {
	var service *entities.Service
	err := c.do(ctx, "service.get", func(ctx context.Context, _ int) error {
		var err error
		service, err = c.catalog.GetServiceByName(ctx, name)
		return err
	})
	return service, err
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

var userColumns = []any{"id", "name", "email", "phone", "address", "role", "created_at"}

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) *UserAdapter {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var _ repositories.UserRepository = (*UserAdapter)(nil)

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).
		From("users").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user, err := scanUser(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return user, nil
}

// ListByRoles retrieves users holding any of roles
func (a *UserAdapter) ListByRoles(ctx context.Context, roles ...entities.Role) ([]*entities.User, error) {
	values := make([]string, len(roles))
	for i, r := range roles {
		values[i] = string(r)
	}

	query, args, err := a.db.Select(userColumns...).
		From("users").
		Where(goqu.C("role").In(values)).
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list users", err)
	}
	defer rows.Close()

	users := make([]*entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate users", err)
	}
	return users, nil
}

// Upsert inserts or refreshes a user. Used by the seed command.
func (a *UserAdapter) Upsert(ctx context.Context, user *entities.User) error {
	query, args, err := a.db.Insert("users").Rows(goqu.Record{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"phone":      user.Phone,
		"address":    user.Address,
		"role":       user.Role,
		"created_at": user.CreatedAt,
	}).OnConflict(goqu.DoUpdate("id", goqu.Record{
		"name":    user.Name,
		"email":   user.Email,
		"phone":   user.Phone,
		"address": user.Address,
	})).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert user", err)
	}
	return nil
}

func scanUser(row rowScanner) (*entities.User, error) {
	user := &entities.User{}
	var address sql.NullString
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&address,
		&user.Role,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	user.Address = address.String
	return user, nil
}

// ServiceCatalogAdapter implements the ServiceCatalog interface
type ServiceCatalogAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewServiceCatalogAdapter creates a new service catalog adapter
func NewServiceCatalogAdapter(client *postgres.Client) *ServiceCatalogAdapter {
	return &ServiceCatalogAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var _ repositories.ServiceCatalog = (*ServiceCatalogAdapter)(nil)

// ListServices returns every service ordered by id
func (a *ServiceCatalogAdapter) ListServices(ctx context.Context) ([]*entities.Service, error) {
	query, args, err := a.db.Select("id", "name", "price", "duration_minutes").
		From("services").
		Order(goqu.C("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list services", err)
	}
	defer rows.Close()

	services := make([]*entities.Service, 0)
	for rows.Next() {
		svc := &entities.Service{}
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Price, &svc.DurationMinutes); err != nil {
			return nil, apperrors.NewInternalError("failed to scan service", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate services", err)
	}
	return services, nil
}

// GetServiceByName retrieves a service by name, ignoring case
func (a *ServiceCatalogAdapter) GetServiceByName(ctx context.Context, name string) (*entities.Service, error) {
	query, args, err := a.db.Select("id", "name", "price", "duration_minutes").
		From("services").
		Where(goqu.L("LOWER(name)").Eq(goqu.L("LOWER(?)", name))).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	svc := &entities.Service{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&svc.ID, &svc.Name, &svc.Price, &svc.DurationMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service %q not found", name))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get service", err)
	}
	return svc, nil
}

// Upsert inserts or refreshes a service. Used by the seed command.
func (a *ServiceCatalogAdapter) Upsert(ctx context.Context, svc *entities.Service) error {
	query, args, err := a.db.Insert("services").Rows(goqu.Record{
		"id":               svc.ID,
		"name":             svc.Name,
		"price":            svc.Price,
		"duration_minutes": svc.DurationMinutes,
	}).OnConflict(goqu.DoUpdate("id", goqu.Record{
		"name":             svc.Name,
		"price":            svc.Price,
		"duration_minutes": svc.DurationMinutes,
	})).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert service", err)
	}
	return nil
}

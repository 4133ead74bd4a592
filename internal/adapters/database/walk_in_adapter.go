package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// WalkInAdapter implements the WalkInRepository interface
type WalkInAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewWalkInAdapter creates a new walk-in adapter
func NewWalkInAdapter(client *postgres.Client) *WalkInAdapter {
	return &WalkInAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var _ repositories.WalkInRepository = (*WalkInAdapter)(nil)

// Create creates a new walk-in entry
func (a *WalkInAdapter) Create(ctx context.Context, entry *entities.WalkInEntry) error {
	query, args, err := a.db.Insert("walk_ins").Rows(goqu.Record{
		"id":         entry.ID,
		"first_name": entry.FirstName,
		"last_name":  entry.LastName,
		"email":      entry.Email,
		"phone":      entry.Phone,
		"service":    entry.Service,
		"dentist_id": entry.DentistID,
		"priority":   entry.Priority,
		"arrived_at": entry.ArrivedAt,
		"status":     entry.Status,
		"notes":      entry.Notes,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("walk-in %s already exists", entry.ID))
		}
		return apperrors.NewInternalError("failed to create walk-in", err)
	}
	return nil
}

// ListByStatus retrieves entries in status by arrival
func (a *WalkInAdapter) ListByStatus(ctx context.Context, status entities.WalkInStatus) ([]*entities.WalkInEntry, error) {
	query, args, err := a.db.Select(
		"id", "first_name", "last_name", "email", "phone", "service",
		"dentist_id", "priority", "arrived_at", "status", "notes",
	).From("walk_ins").
		Where(goqu.Ex{"status": status}).
		Order(goqu.C("arrived_at").Asc(), goqu.C("seq").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list walk-ins", err)
	}
	defer rows.Close()

	entries := make([]*entities.WalkInEntry, 0)
	for rows.Next() {
		entry := &entities.WalkInEntry{}
		var email, notes sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.FirstName,
			&entry.LastName,
			&email,
			&entry.Phone,
			&entry.Service,
			&entry.DentistID,
			&entry.Priority,
			&entry.ArrivedAt,
			&entry.Status,
			&notes,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan walk-in", err)
		}
		entry.Email = email.String
		entry.Notes = notes.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate walk-ins", err)
	}
	return entries, nil
}

// UpdateStatus changes the status of an entry
func (a *WalkInAdapter) UpdateStatus(ctx context.Context, id string, status entities.WalkInStatus) error {
	query, args, err := a.db.Update("walk_ins").
		Set(goqu.Record{"status": status}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update walk-in", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("walk-in %s not found", id))
	}
	return nil
}

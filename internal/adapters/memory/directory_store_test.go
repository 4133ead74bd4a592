package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

func TestUserStore_ListByRoles(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore(
		&entities.User{ID: "1", Role: entities.RoleDentist},
		&entities.User{ID: "2", Role: entities.RolePatient},
		&entities.User{ID: "3", Role: entities.RoleAdmin},
		&entities.User{ID: "4", Role: entities.RoleStaff},
	)

	got, err := s.ListByRoles(ctx, entities.RoleDentist, entities.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	_, err = s.GetByID(ctx, "99")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestServiceCatalog_GetServiceByName(t *testing.T) {
	ctx := context.Background()
	c := NewServiceCatalog(&entities.Service{ID: "1", Name: "Teeth Cleaning", Price: 120})

	svc, err := c.GetServiceByName(ctx, "teeth cleaning")
	require.NoError(t, err)
	assert.Equal(t, "1", svc.ID)

	_, err = c.GetServiceByName(ctx, "Braces")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestWalkInStore_ListByStatus(t *testing.T) {
	ctx := context.Background()
	s := NewWalkInStore()
	require.NoError(t, s.Create(ctx, &entities.WalkInEntry{ID: "w1", Status: entities.WalkInStatusWaiting}))
	require.NoError(t, s.Create(ctx, &entities.WalkInEntry{ID: "w2", Status: entities.WalkInStatusWaiting}))
	require.NoError(t, s.UpdateStatus(ctx, "w1", entities.WalkInStatusInService))

	waiting, err := s.ListByStatus(ctx, entities.WalkInStatusWaiting)
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, "w2", waiting[0].ID)

	err = s.UpdateStatus(ctx, "nope", entities.WalkInStatusDone)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

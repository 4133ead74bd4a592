package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/dentalclinic/internal/adapters/identity"
	"github.com/zatekoja/dentalclinic/internal/api/handlers"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
)

type sessionBody struct {
	User     *entities.User     `json:"user"`
	Loading  bool               `json:"loading"`
	Sections []entities.Section `json:"sections"`
	Landing  entities.Section   `json:"landing"`
}

func TestSessionHandler_GetSession(t *testing.T) {
	c := newClinic(t)
	handler := handlers.NewSessionHandler(identity.ContextIdentity{}, c.gate)

	get := func(r *http.Request) sessionBody {
		w := httptest.NewRecorder()
		handler.GetSession(w, r)
		require.Equal(t, http.StatusOK, w.Code)
		var body sessionBody
		decode(t, w, &body)
		return body
	}

	t.Run("anonymous visitor", func(t *testing.T) {
		body := get(httptest.NewRequest(http.MethodGet, "/api/session", nil))
		assert.Nil(t, body.User)
		assert.Empty(t, body.Sections)
		assert.Equal(t, entities.SectionHome, body.Landing)
	})

	t.Run("patient", func(t *testing.T) {
		body := get(as(httptest.NewRequest(http.MethodGet, "/api/session", nil), c.user(t, "5")))
		require.NotNil(t, body.User)
		assert.Equal(t, "5", body.User.ID)
		assert.Equal(t, entities.SectionDashboard, body.Landing)
		assert.Equal(t, []entities.Section{
			entities.SectionDashboard,
			entities.SectionBookAppointment,
			entities.SectionAppointments,
			entities.SectionMyProfile,
		}, body.Sections)
	})

	t.Run("dentist", func(t *testing.T) {
		body := get(as(httptest.NewRequest(http.MethodGet, "/api/session", nil), c.user(t, "1")))
		assert.Contains(t, body.Sections, entities.SectionPatients)
		assert.Contains(t, body.Sections, entities.SectionWalkIn)
		assert.NotContains(t, body.Sections, entities.SectionMyProfile)
	})

	t.Run("loading", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		req = req.WithContext(identity.WithSession(req.Context(), entities.Session{Loading: true}))
		body := get(req)
		assert.True(t, body.Loading)
		assert.Equal(t, entities.SectionLoading, body.Landing)
	})
}

func TestSessionHandler_ResolveSection(t *testing.T) {
	c := newClinic(t)
	handler := handlers.NewSessionHandler(identity.ContextIdentity{}, c.gate)

	tests := []struct {
		name      string
		user      *entities.User
		requested string
		section   entities.Section
		redirect  bool
	}{
		{"staff opens walk-in", c.user(t, "3"), "walk-in", entities.SectionWalkIn, false},
		{"legacy walk-in alias", c.user(t, "3"), "walk-in-patient", entities.SectionWalkIn, false},
		{"staff denied patients", c.user(t, "3"), "patients", entities.SectionDashboard, true},
		{"patient denied walk-in", c.user(t, "5"), "walk-in", entities.SectionDashboard, true},
		{"unknown section", c.user(t, "4"), "billing", entities.SectionDashboard, true},
		{"anonymous visitor", nil, "appointments", entities.SectionHome, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/sections/"+tt.requested, nil)
			req.SetPathValue("section", tt.requested)
			w := httptest.NewRecorder()

			handler.ResolveSection(w, as(req, tt.user))

			require.Equal(t, http.StatusOK, w.Code)
			var body struct {
				Section  entities.Section `json:"section"`
				Redirect bool             `json:"redirect"`
			}
			decode(t, w, &body)
			assert.Equal(t, tt.section, body.Section)
			assert.Equal(t, tt.redirect, body.Redirect)
		})
	}
}

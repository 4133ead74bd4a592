package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/dentalclinic/internal/adapters/identity"
	"github.com/zatekoja/dentalclinic/internal/adapters/memory"
	"github.com/zatekoja/dentalclinic/internal/adapters/seed"
	"github.com/zatekoja/dentalclinic/internal/api/handlers"
	"github.com/zatekoja/dentalclinic/internal/api/middleware"
	"github.com/zatekoja/dentalclinic/internal/application/services"
)

func newTestServer(t *testing.T) (http.Handler, *identity.JWTVerifier) {
	t.Helper()

	users := memory.NewUserStore(seed.Users()...)
	catalog := memory.NewServiceCatalog(seed.Services()...)
	appointments := memory.NewAppointmentStore()
	records := memory.NewRecordStore()
	require.NoError(t, seed.Load(context.Background(), seed.Stores{
		Appointments: appointments,
		Records:      records,
	}, time.Now()))

	gate := services.NewAccessGate()
	machine := services.NewStatusMachine(appointments, gate, nil, nil)
	h := Handlers{
		Session:     handlers.NewSessionHandler(identity.ContextIdentity{}, gate),
		Directory:   handlers.NewDirectoryHandler(services.NewDirectoryService(users, catalog)),
		Appointment: handlers.NewAppointmentHandler(services.NewAppointmentService(appointments, users, catalog, machine, gate, nil)),
		WalkIn:      handlers.NewWalkInHandler(services.NewWalkInQueue(memory.NewWalkInStore(), users, nil), gate),
		Record:      handlers.NewRecordHandler(services.NewRecordService(records, appointments, users, gate)),
		Dashboard:   handlers.NewDashboardHandler(services.NewDashboardService(appointments, records, gate)),
	}

	verifier := identity.NewJWTVerifier("router-secret", "dental-clinic", users)
	limiter := middleware.NewRateLimiter(0.001, 1)
	return NewRouter(h, verifier, limiter, []string{"*"}, nil).SetupRoutes(), verifier
}

func TestRouter_Health(t *testing.T) {
	server, _ := newTestServer(t)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRouter_Preflight(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/appointments", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Authentication(t *testing.T) {
	server, verifier := newTestServer(t)

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("anonymous session", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user":null`)
	})

	t.Run("signed in staff", func(t *testing.T) {
		token, err := verifier.Issue("3", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"anonymous_bookings":1`)
	})

	t.Run("anonymous dashboard", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRouter_PublicBookingIsRateLimited(t *testing.T) {
	server, _ := newTestServer(t)

	book := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/public/appointments", strings.NewReader(`{}`))
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusBadRequest, book())
	assert.Equal(t, http.StatusTooManyRequests, book())

	// the signed-in booking route has no limiter
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(`{}`))
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	server, _ := newTestServer(t)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/facilities", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

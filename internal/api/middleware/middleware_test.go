package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/dentalclinic/internal/adapters/identity"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

type stubAuth struct {
	user *entities.User
	err  error
}

func (s stubAuth) Authenticate(ctx context.Context, header string) (*entities.User, error) {
	return s.user, s.err
}

func sessionRecorder(got *entities.Session) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = identity.SessionFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestIdentityMiddleware(t *testing.T) {
	staff := &entities.User{ID: "3", Role: entities.RoleStaff}

	t.Run("signed in", func(t *testing.T) {
		var got entities.Session
		h := IdentityMiddleware(stubAuth{user: staff})(sessionRecorder(&got))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Same(t, staff, got.User)
		assert.False(t, got.Loading)
	})

	t.Run("rejected token", func(t *testing.T) {
		var got entities.Session
		h := IdentityMiddleware(stubAuth{err: apperrors.NewUnauthorizedError("invalid or expired token")})(sessionRecorder(&got))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("lookup failure leaves session loading", func(t *testing.T) {
		var got entities.Session
		h := IdentityMiddleware(stubAuth{err: apperrors.NewInternalError("store unavailable", nil)})(sessionRecorder(&got))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Nil(t, got.User)
		assert.True(t, got.Loading)
	})
}

func TestRateLimiter_PerClientBudget(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) }
	h := rl.Limit(ok)

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/public/appointments", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, call("10.0.0.1:5000"))
	assert.Equal(t, http.StatusCreated, call("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5002"))
	assert.Equal(t, http.StatusCreated, call("10.0.0.2:5000"))
}

func TestRateLimiter_SweepEvictsIdle(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.get("10.0.0.1")
	now = now.Add(limiterIdleTTL + time.Second)
	rl.get("10.0.0.2")
	rl.sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	require.Len(t, rl.clients, 1)
	assert.Contains(t, rl.clients, "10.0.0.2")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := CORSMiddleware([]string{"https://clinic.example"})(next)

	req := httptest.NewRequest(http.MethodOptions, "/api/appointments", nil)
	req.Header.Set("Origin", "https://clinic.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://clinic.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

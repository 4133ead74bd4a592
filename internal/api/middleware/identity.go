package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/zatekoja/dentalclinic/internal/adapters/identity"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// Authenticator resolves the user behind an Authorization header
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*entities.User, error)
}

// IdentityMiddleware places the caller's session on the request context.
// Rejected tokens get 401. When the user lookup fails for another reason the
// session is marked as still loading so section resolution can wait.
func IdentityMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.Authenticate(r.Context(), r.Header.Get("Authorization"))

			var session entities.Session
			switch {
			case err == nil:
				session.User = user
			case apperrors.IsType(err, apperrors.ErrorTypeUnauthorized):
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("WWW-Authenticate", `Bearer realm="dental-clinic"`)
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": apperrors.MessageOf(err)})
				return
			default:
				logger := observability.LoggerFromContext(r.Context())
				logger.Warn().Err(err).Msg("Session lookup failed")
				session.Loading = true
			}

			next.ServeHTTP(w, r.WithContext(identity.WithSession(r.Context(), session)))
		})
	}
}

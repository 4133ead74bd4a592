// Package identity turns bearer tokens issued by the clinic's identity
// provider into sessions. No credentials are handled here.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/providers"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// ErrBadToken is returned for tokens that fail verification
var ErrBadToken = errors.New("invalid token")

// Claims carried by clinic access tokens
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HS256 access tokens and resolves their user
type JWTVerifier struct {
	secret []byte
	issuer string
	users  repositories.UserRepository
}

// NewJWTVerifier creates a new verifier
func NewJWTVerifier(secret, issuer string, users repositories.UserRepository) *JWTVerifier {
	return &JWTVerifier{
		secret: []byte(secret),
		issuer: issuer,
		users:  users,
	}
}

// Issue signs a token for uid. Used by local tooling to mint test sessions.
func (v *JWTVerifier) Issue(uid string, ttl time.Duration) (string, error) {
	if len(v.secret) == 0 {
		return "", errors.New("JWT secret is not configured")
	}
	now := time.Now()
	c := Claims{
		UserID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(v.secret)
}

// Parse verifies raw and returns its claims
func (v *JWTVerifier) Parse(raw string) (*Claims, error) {
	if len(v.secret) == 0 {
		return nil, ErrBadToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadToken, err)
	}

	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || c.UserID == "" {
		return nil, ErrBadToken
	}
	return c, nil
}

// Authenticate resolves the user behind an Authorization header value.
// An empty header is an anonymous visitor and yields a nil user.
func (v *JWTVerifier) Authenticate(ctx context.Context, header string) (*entities.User, error) {
	if header == "" {
		return nil, nil
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, apperrors.NewUnauthorizedError("malformed authorization header")
	}

	claims, err := v.Parse(raw)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid or expired token")
	}

	user, err := v.users.GetByID(ctx, claims.UserID)
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, apperrors.NewUnauthorizedError("unknown user")
	}
	if err != nil {
		return nil, err
	}
	if !user.Role.IsValid() {
		return nil, apperrors.NewUnauthorizedError("user has no valid role")
	}
	return user, nil
}

type sessionKey struct{}

// WithSession stores session on ctx
func WithSession(ctx context.Context, session entities.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session stored on ctx, or an anonymous one
func SessionFromContext(ctx context.Context) entities.Session {
	session, _ := ctx.Value(sessionKey{}).(entities.Session)
	return session
}

// UserFromContext returns the signed-in user, or nil
func UserFromContext(ctx context.Context) *entities.User {
	return SessionFromContext(ctx).User
}

// ContextIdentity serves sessions placed on the request context by the
// identity middleware.
type ContextIdentity struct{}

var _ providers.IdentityProvider = ContextIdentity{}

// Session returns the current visitor
func (ContextIdentity) Session(ctx context.Context) (entities.Session, error) {
	return SessionFromContext(ctx), nil
}

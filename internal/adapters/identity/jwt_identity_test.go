package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/dentalclinic/internal/adapters/memory"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

func newVerifier() *JWTVerifier {
	users := memory.NewUserStore(
		&entities.User{ID: "5", Name: "John Doe", Role: entities.RolePatient},
		&entities.User{ID: "3", Name: "Emily Rodriguez", Role: entities.RoleStaff},
	)
	return NewJWTVerifier("test-secret", "dental-clinic", users)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	v := newVerifier()
	token, err := v.Issue("5", time.Hour)
	require.NoError(t, err)

	user, err := v.Authenticate(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", user.Name)
	assert.Equal(t, entities.RolePatient, user.Role)
}

func TestAuthenticate_EmptyHeaderIsAnonymous(t *testing.T) {
	user, err := newVerifier().Authenticate(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestAuthenticate_Rejections(t *testing.T) {
	v := newVerifier()

	expired, err := v.Issue("5", -time.Minute)
	require.NoError(t, err)

	unknown, err := v.Issue("99", time.Hour)
	require.NoError(t, err)

	otherIssuer, err := NewJWTVerifier("test-secret", "someone-else", nil).Issue("5", time.Hour)
	require.NoError(t, err)

	wrongSecret, err := NewJWTVerifier("another-secret", "dental-clinic", nil).Issue("5", time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "5"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing bearer prefix", "Token abc"},
		{"garbage", "Bearer not-a-jwt"},
		{"expired", "Bearer " + expired},
		{"unknown user", "Bearer " + unknown},
		{"other issuer", "Bearer " + otherIssuer},
		{"wrong secret", "Bearer " + wrongSecret},
		{"alg none", "Bearer " + none},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Authenticate(context.Background(), tt.header)
			assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(err))
		})
	}
}

func TestContextIdentity(t *testing.T) {
	session, err := ContextIdentity{}.Session(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session.User)

	user := &entities.User{ID: "3", Role: entities.RoleStaff}
	ctx := WithSession(context.Background(), entities.Session{User: user})

	session, err = ContextIdentity{}.Session(ctx)
	require.NoError(t, err)
	assert.Same(t, user, session.User)
	assert.Same(t, user, UserFromContext(ctx))
}

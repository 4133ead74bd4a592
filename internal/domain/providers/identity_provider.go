package providers

import (
	"context"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
)

// IdentityProvider resolves who is acting on the current request.
// Credential checks happen upstream; the engine only reads the outcome.
type IdentityProvider interface {
	// Session returns the current visitor. An anonymous visitor has a nil User.
	Session(ctx context.Context) (entities.Session, error)
}

package ports

import (
	"context"

	"github.com/layer-3/catalog/core"
)

// CredentialStore verifies passwords and resolves the current role of a user
type CredentialStore interface {
	Authenticate(ctx context.Context, username string, password string) (core.Role, error)
	Role(ctx context.Context, username string) (core.Role, error)
}

package tokenizer

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/layer-3/catalog/core"
)

var (
	errMissingSubject = errors.New("token has no subject")
	errMissingID      = errors.New("token has no id")
	errUnknownKind    = errors.New("token has an unknown kind")
	errUnknownRole    = errors.New("access token has an unknown role")
)

// TokenClaims combines standard claims with the catalog specific ones
type TokenClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
	Kind string `json:"kind"`
}

// Validate runs after the registered claims are verified.
// Any error here is reported by the parser as jwt.ErrTokenInvalidClaims.
func (c TokenClaims) Validate() error {
	if c.Subject == "" {
		return errMissingSubject
	}
	if c.ID == "" {
		return errMissingID
	}

	kind := core.TokenKind(c.Kind)
	if !kind.Valid() {
		return errUnknownKind
	}
	if kind == core.TokenKindAccess && !core.Role(c.Role).Valid() {
		return errUnknownRole
	}

	return nil
}

package core

import (
	"context"
	"time"
)

// Role is the authorization role carried by a credential and its access tokens
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// TokenKind distinguishes access tokens from refresh tokens
type TokenKind string

const (
	TokenKindAccess  TokenKind = "ACCESS"
	TokenKindRefresh TokenKind = "REFRESH"
)

// Valid reports whether k is one of the known token kinds
func (k TokenKind) Valid() bool {
	return k == TokenKindAccess || k == TokenKindRefresh
}

// Credential is an entry of the credential table
type Credential struct {
	Username   string // Login name, also the token subject
	SecretHash string // PHC-encoded argon2id hash
	Role       Role   // Role granted to access tokens
}

// Claims is the claim set carried by a signed token
type Claims struct {
	Subject   string    // Username the token was issued to
	Role      Role      // Empty for refresh tokens
	TokenID   string    // Unique token identifier (jti), the revocation key
	Issuer    string    // Token issuer
	Audience  string    // Intended audience
	IssuedAt  time.Time // When the token was issued
	ExpiresAt time.Time // When the token stops being valid
	Kind      TokenKind // ACCESS or REFRESH
}

// TokenPair is the result of a login or refresh
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration // Lifetime of the access token
}

type claimsKey struct{}

// WithClaims returns a copy of ctx carrying the verified claims
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the verified claims stored by the authorization middleware
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}

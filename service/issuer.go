package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/layer-3/catalog/core"
	"github.com/layer-3/catalog/ports"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenIssuer builds claim sets for access and refresh tokens and signs them
type TokenIssuer struct {
	codec      ports.TokenCodec
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer creates an issuer. Zero TTLs fall back to the defaults.
func NewTokenIssuer(codec ports.TokenCodec, issuer, audience string, accessTTL, refreshTTL time.Duration, now func() time.Time) *TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	if now == nil {
		now = time.Now
	}

	return &TokenIssuer{
		codec:      codec,
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        now,
	}
}

// IssueAccessToken signs a fresh access token for username with role
func (i *TokenIssuer) IssueAccessToken(username string, role core.Role) (string, error) {
	if username == "" || !role.Valid() {
		return "", fmt.Errorf("issue access token: %w", core.ErrInvalidArgument)
	}
	return i.issue(username, role, core.TokenKindAccess, i.accessTTL)
}

// IssueRefreshToken signs a fresh refresh token for username
func (i *TokenIssuer) IssueRefreshToken(username string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("issue refresh token: %w", core.ErrInvalidArgument)
	}
	return i.issue(username, "", core.TokenKindRefresh, i.refreshTTL)
}

func (i *TokenIssuer) issue(username string, role core.Role, kind core.TokenKind, ttl time.Duration) (string, error) {
	// Tokens carry whole seconds
	now := i.now().UTC().Truncate(time.Second)

	claims := &core.Claims{
		Subject:   username,
		Role:      role,
		TokenID:   uuid.New().String(),
		Issuer:    i.issuer,
		Audience:  i.audience,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
		Kind:      kind,
	}

	token, err := i.codec.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("failed to create %s token: %w", kind, err)
	}
	return token, nil
}

// AccessTTL is the lifetime of issued access tokens
func (i *TokenIssuer) AccessTTL() time.Duration {
	return i.accessTTL
}

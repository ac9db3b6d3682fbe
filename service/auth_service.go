package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/layer-3/catalog/core"
	"github.com/layer-3/catalog/metrics"
	"github.com/layer-3/catalog/ports"
)

// Config holds the token settings of the AuthService
type Config struct {
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// RotateRefreshTokens revokes a refresh token once it has been used
	RotateRefreshTokens bool
	// Now overrides the clock, nil means time.Now
	Now func() time.Time
}

// Dependencies are the adapters the AuthService talks to
type Dependencies struct {
	Codec       ports.TokenCodec
	Revocations ports.RevocationStore
	Credentials ports.CredentialStore
	Events      ports.EventPublisher
	Metrics     *metrics.Collector
	Logger      *zap.Logger
}

// AuthService handles authentication business logic
type AuthService struct {
	codec       ports.TokenCodec
	store       ports.RevocationStore
	credentials ports.CredentialStore
	eventPub    ports.EventPublisher
	metrics     *metrics.Collector
	logger      *zap.Logger

	issuer        *TokenIssuer
	issuerName    string
	audience      string
	rotateRefresh bool
}

// NewAuthService creates a new authentication service
func NewAuthService(deps Dependencies, cfg Config) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AuthService{
		codec:         deps.Codec,
		store:         deps.Revocations,
		credentials:   deps.Credentials,
		eventPub:      deps.Events,
		metrics:       deps.Metrics,
		logger:        logger.Named("auth"),
		issuer:        NewTokenIssuer(deps.Codec, cfg.Issuer, cfg.Audience, cfg.AccessTTL, cfg.RefreshTTL, cfg.Now),
		issuerName:    cfg.Issuer,
		audience:      cfg.Audience,
		rotateRefresh: cfg.RotateRefreshTokens,
	}
}

// Login verifies the credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, username, password string) (*core.TokenPair, error) {
	role, err := s.credentials.Authenticate(ctx, username, password)
	if err != nil {
		s.metrics.ObserveLogin(false)
		if errors.Is(err, core.ErrInvalidCredentials) {
			s.logger.Info("login rejected", zap.String("username", username))
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}

	pair, err := s.issuePair(username, role)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveLogin(true)
	s.logger.Info("login succeeded", zap.String("username", username), zap.String("role", string(role)))
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
// The role is read again from the credential store.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*core.TokenPair, error) {
	claims, err := s.codec.DecodeAndVerify(refreshToken, s.issuerName, s.audience)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	if claims.Kind != core.TokenKindRefresh {
		return nil, core.ErrWrongTokenKind
	}

	role, err := s.credentials.Role(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, core.ErrUnknownUser) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to resolve role: %w", err)
	}

	if s.rotateRefresh {
		// Claim both checks and revokes, so a token is redeemed at most once
		claimed, err := s.store.Claim(ctx, claims.TokenID, claims.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrRevocationUnavailable, err)
		}
		if !claimed {
			return nil, core.ErrTokenRevoked
		}
		s.announce(ctx, claims)
	} else {
		revoked, err := s.store.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrRevocationUnavailable, err)
		}
		if revoked {
			return nil, core.ErrTokenRevoked
		}
	}

	return s.issuePair(claims.Subject, role)
}

// Logout revokes the supplied tokens. Tokens that fail to decode are skipped,
// so the call always succeeds.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) {
	for _, token := range []string{accessToken, refreshToken} {
		if token == "" {
			continue
		}

		claims, err := s.codec.DecodeAndVerify(token, s.issuerName, s.audience)
		if err != nil {
			s.logger.Debug("logout skipped undecodable token", zap.Error(err))
			continue
		}

		if err := s.revoke(ctx, claims); err != nil {
			s.logger.Warn("logout failed to revoke token",
				zap.String("token_id", claims.TokenID),
				zap.Error(err),
			)
			continue
		}

		s.logger.Info("token revoked",
			zap.String("subject", claims.Subject),
			zap.String("token_id", claims.TokenID),
			zap.String("kind", string(claims.Kind)),
		)
	}
}

// Authenticate verifies an access token and checks it has not been revoked
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*core.Claims, error) {
	claims, err := s.codec.DecodeAndVerify(accessToken, s.issuerName, s.audience)
	if err != nil {
		return nil, err
	}

	if claims.Kind != core.TokenKindAccess {
		return nil, core.ErrWrongTokenKind
	}

	revoked, err := s.store.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrRevocationUnavailable, err)
	}
	if revoked {
		return nil, core.ErrTokenRevoked
	}

	return claims, nil
}

// AccessTTL is the lifetime of issued access tokens
func (s *AuthService) AccessTTL() time.Duration {
	return s.issuer.AccessTTL()
}

func (s *AuthService) issuePair(username string, role core.Role) (*core.TokenPair, error) {
	accessToken, err := s.issuer.IssueAccessToken(username, role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.issuer.IssueRefreshToken(username)
	if err != nil {
		return nil, err
	}

	return &core.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.issuer.AccessTTL(),
	}, nil
}

// revoke records the revocation locally and tells peer instances about it.
// A failed publish is logged, the local revocation still stands.
func (s *AuthService) revoke(ctx context.Context, claims *core.Claims) error {
	if err := s.store.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return err
	}
	s.announce(ctx, claims)
	return nil
}

// announce counts a revocation that is already stored and publishes it
func (s *AuthService) announce(ctx context.Context, claims *core.Claims) {
	s.metrics.ObserveRevocation()

	if s.eventPub == nil {
		return
	}
	if err := s.eventPub.PublishRevocation(ctx, claims.Subject, claims.TokenID, claims.ExpiresAt); err != nil {
		s.logger.Warn("failed to publish revocation event",
			zap.String("token_id", claims.TokenID),
			zap.Error(err),
		)
	}
}

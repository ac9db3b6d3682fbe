package tokenizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/layer-3/catalog/core"
)

// JWTTokenizer implements ports.TokenCodec with HMAC-SHA256 signed JWTs
type JWTTokenizer struct {
	secret []byte
	now    func() time.Time
}

// Option configures a JWTTokenizer
type Option func(*JWTTokenizer)

// WithClock replaces the clock used to check token expiry
func WithClock(now func() time.Time) Option {
	return func(j *JWTTokenizer) {
		j.now = now
	}
}

// NewJWTTokenizer creates a new JWT tokenizer signing with the given secret
func NewJWTTokenizer(secret []byte, opts ...Option) *JWTTokenizer {
	j := &JWTTokenizer{
		secret: secret,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Encode signs the claim set into a compact JWT
func (j *JWTTokenizer) Encode(claims *core.Claims) (string, error) {
	if claims == nil {
		return "", fmt.Errorf("encode token: %w", core.ErrInvalidArgument)
	}

	tokenClaims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			ID:        claims.TokenID,
			Issuer:    claims.Issuer,
			Audience:  jwt.ClaimStrings{claims.Audience},
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
		Role: string(claims.Role),
		Kind: string(claims.Kind),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims)

	signedToken, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// DecodeAndVerify parses the token and checks signature, expiry, issuer and audience.
// Failures are reported as one of the core token errors.
func (j *JWTTokenizer) DecodeAndVerify(tokenStr string, issuer string, audience string) (*core.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", classify(err))
	}

	if !token.Valid {
		return nil, core.ErrMalformedToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok {
		return nil, core.ErrMalformedToken
	}

	result := &core.Claims{
		Subject:   claims.Subject,
		Role:      core.Role(claims.Role),
		TokenID:   claims.ID,
		Issuer:    claims.Issuer,
		Audience:  audience,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
		Kind:      core.TokenKind(claims.Kind),
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time.UTC()
	}

	return result, nil
}

// classify maps parser errors onto the core taxonomy.
// Expiry is checked first so an expired token reports expiry even when
// other claim checks fail too.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return core.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return core.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return core.ErrIssuerMismatch
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return core.ErrAudienceMismatch
	default:
		return core.ErrMalformedToken
	}
}

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/catalog/adapters/tokenizer"
	"github.com/layer-3/catalog/core"
)

func TestTokenIssuer(t *testing.T) {
	clock := newFakeClock()
	codec := tokenizer.NewJWTTokenizer(testSecret, tokenizer.WithClock(clock.Now))
	issuer := NewTokenIssuer(codec, testIssuer, testAudience, 0, 0, clock.Now)

	t.Run("access token", func(t *testing.T) {
		token, err := issuer.IssueAccessToken("admin", core.RoleAdmin)
		require.NoError(t, err)

		claims, err := codec.DecodeAndVerify(token, testIssuer, testAudience)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Subject)
		assert.Equal(t, core.RoleAdmin, claims.Role)
		assert.Equal(t, core.TokenKindAccess, claims.Kind)
		assert.Equal(t, clock.Now(), claims.IssuedAt)
		assert.Equal(t, 15*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt))
		assert.NotEmpty(t, claims.TokenID)
	})

	t.Run("refresh token", func(t *testing.T) {
		token, err := issuer.IssueRefreshToken("usuario")
		require.NoError(t, err)

		claims, err := codec.DecodeAndVerify(token, testIssuer, testAudience)
		require.NoError(t, err)
		assert.Equal(t, core.TokenKindRefresh, claims.Kind)
		assert.Empty(t, claims.Role)
		assert.Equal(t, 7*24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt))
	})

	t.Run("unique ids", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 50; i++ {
			token, err := issuer.IssueAccessToken("admin", core.RoleAdmin)
			require.NoError(t, err)
			claims, err := codec.DecodeAndVerify(token, testIssuer, testAudience)
			require.NoError(t, err)
			_, dup := seen[claims.TokenID]
			require.False(t, dup)
			seen[claims.TokenID] = struct{}{}
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := issuer.IssueAccessToken("", core.RoleAdmin)
		require.ErrorIs(t, err, core.ErrInvalidArgument)
		_, err = issuer.IssueAccessToken("admin", "ROOT")
		require.ErrorIs(t, err, core.ErrInvalidArgument)
		_, err = issuer.IssueRefreshToken("")
		require.ErrorIs(t, err, core.ErrInvalidArgument)
	})
}

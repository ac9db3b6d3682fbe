package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/layer-3/catalog/core"
)

// failure describes how an error is reported to the client
type failure struct {
	status  int
	message string
	outcome string // metrics label
}

// classifyError maps domain errors to responses. Internal error text never
// reaches the client.
func classifyError(err error) failure {
	switch {
	case errors.Is(err, core.ErrMissingToken):
		return failure{http.StatusUnauthorized, "no token", "missing"}
	case errors.Is(err, core.ErrTokenExpired):
		return failure{http.StatusUnauthorized, "token expired", "expired"}
	case errors.Is(err, core.ErrInvalidSignature):
		return failure{http.StatusUnauthorized, "invalid token signature", "invalid_signature"}
	case errors.Is(err, core.ErrIssuerMismatch):
		return failure{http.StatusUnauthorized, "token issuer mismatch", "issuer_mismatch"}
	case errors.Is(err, core.ErrAudienceMismatch):
		return failure{http.StatusUnauthorized, "token audience mismatch", "audience_mismatch"}
	case errors.Is(err, core.ErrInvalidToken):
		return failure{http.StatusUnauthorized, "malformed token", "malformed"}
	case errors.Is(err, core.ErrWrongTokenKind):
		return failure{http.StatusUnauthorized, "wrong token kind", "wrong_kind"}
	case errors.Is(err, core.ErrTokenRevoked):
		return failure{http.StatusUnauthorized, "token revoked", "revoked"}
	case errors.Is(err, core.ErrInvalidCredentials):
		return failure{http.StatusUnauthorized, "invalid credentials", "invalid_credentials"}
	case errors.Is(err, core.ErrInsufficientRole):
		return failure{http.StatusForbidden, "access denied", "forbidden"}
	case errors.Is(err, core.ErrProductNotFound):
		return failure{http.StatusNotFound, "product not found", "not_found"}
	case errors.Is(err, core.ErrRevocationUnavailable):
		return failure{http.StatusServiceUnavailable, "authorization temporarily unavailable", "unavailable"}
	default:
		return failure{http.StatusInternalServerError, "internal server error", "error"}
	}
}

func abortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

func abortWithError(c *gin.Context, err error) {
	f := classifyError(err)
	abortWithMessage(c, f.status, f.message)
}

// noCache marks responses carrying tokens as uncacheable
func noCache(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

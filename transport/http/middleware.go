package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/layer-3/catalog/core"
	"github.com/layer-3/catalog/metrics"
)

const claimsKey = "claims"

// Authenticator verifies access tokens
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*core.Claims, error)
}

// AuthMiddleware creates middleware that validates access tokens and enforces the route policy
func AuthMiddleware(auth Authenticator, policy *RoutePolicy, logger *zap.Logger, collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString(requestIDKey)

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			reject(c, logger, collector, requestID, core.ErrMissingToken)
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			reject(c, logger, collector, requestID, err)
			return
		}

		required := policy.RequiredRoles(c.Request.Method, c.FullPath())
		if !roleAllowed(required, claims.Role) {
			logger.Warn("insufficient permissions",
				zap.String("request_id", requestID),
				zap.String("subject", claims.Subject),
				zap.String("role", string(claims.Role)),
				zap.String("route", c.FullPath()),
			)
			collector.ObserveDecision("forbidden")
			abortWithMessage(c, http.StatusForbidden, fmt.Sprintf(
				"access denied: requires one of [%s], token role is %s", joinRoles(required), claims.Role))
			return
		}

		c.Set(claimsKey, claims)
		c.Request = c.Request.WithContext(core.WithClaims(c.Request.Context(), claims))
		collector.ObserveDecision("allowed")

		c.Next()
	}
}

func reject(c *gin.Context, logger *zap.Logger, collector *metrics.Collector, requestID string, err error) {
	f := classifyError(err)
	if f.status == http.StatusServiceUnavailable {
		logger.Error("authorization check failed", zap.String("request_id", requestID), zap.Error(err))
	} else {
		logger.Warn("request rejected",
			zap.String("request_id", requestID),
			zap.String("reason", f.outcome),
			zap.String("path", c.Request.URL.Path),
		)
	}
	collector.ObserveDecision(f.outcome)
	abortWithMessage(c, f.status, f.message)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentClaims returns the claims stored by AuthMiddleware
func CurrentClaims(c *gin.Context) (*core.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*core.Claims)
	return claims, ok
}

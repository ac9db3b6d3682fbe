package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/layer-3/catalog/core"
	"github.com/layer-3/catalog/service"
)

// AuthHandlers contains HTTP handlers for auth endpoints
type AuthHandlers struct {
	authService *service.AuthService
	logger      *zap.Logger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
	}
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

func newTokenResponse(pair *core.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(pair.ExpiresIn.Seconds()),
		TokenType:    "Bearer",
	}
}

// Login handles the login request
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		Username string `json:"usuario" binding:"required"`
		Password string `json:"senha" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "usuario and senha are required")
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.logFailure(c, "login failed", err)
		abortWithError(c, err)
		return
	}

	noCache(c)
	c.JSON(http.StatusOK, newTokenResponse(pair))
}

// Refresh handles token refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "refreshToken is required")
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.logFailure(c, "refresh failed", err)
		abortWithError(c, err)
		return
	}

	noCache(c)
	c.JSON(http.StatusOK, newTokenResponse(pair))
}

// Logout revokes the given tokens. It succeeds even when they are already invalid.
func (h *AuthHandlers) Logout(c *gin.Context) {
	var req struct {
		AccessToken  string `json:"accessToken" binding:"required"`
		RefreshToken string `json:"refreshToken"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "accessToken is required")
		return
	}

	h.authService.Logout(c.Request.Context(), req.AccessToken, req.RefreshToken)

	c.JSON(http.StatusOK, gin.H{
		"message": "logged out",
		"success": true,
	})
}

// Me returns information about the authenticated user
func (h *AuthHandlers) Me(c *gin.Context) {
	claims, ok := CurrentClaims(c)
	if !ok {
		abortWithMessage(c, http.StatusInternalServerError, "claims not found in context")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"usuario":   claims.Subject,
		"role":      claims.Role,
		"expiresAt": claims.ExpiresAt,
	})
}

func (h *AuthHandlers) logFailure(c *gin.Context, msg string, err error) {
	f := classifyError(err)
	fields := []zap.Field{
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.String("reason", f.outcome),
	}
	if f.status >= http.StatusInternalServerError {
		h.logger.Error(msg, append(fields, zap.Error(err))...)
		return
	}
	h.logger.Info(msg, fields...)
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/layer-3/catalog/metrics"
	"github.com/layer-3/catalog/ports"
	"github.com/layer-3/catalog/service"
)

// RouterDeps holds everything SetupRouter wires into the engine
type RouterDeps struct {
	AuthService *service.AuthService
	Products    ports.ProductRepository
	Policy      *RoutePolicy // nil means CatalogPolicy
	Logger      *zap.Logger
	Metrics     *metrics.Collector
	// MetricsHandler serves /metrics when set
	MetricsHandler http.Handler
	// LoginLimiter guards the credential endpoints when set
	LoginLimiter *RateLimiter
	// TrustedProxies may set X-Forwarded-For, nil trusts none
	TrustedProxies []string
}

// SetupRouter sets up the Gin router
func SetupRouter(deps RouterDeps) (*gin.Engine, error) {
	registerValidators()

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := deps.Policy
	if policy == nil {
		policy = CatalogPolicy()
	}

	router := gin.New()
	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		return nil, err
	}
	router.Use(
		RequestID(),
		Recovery(logger),
		RequestLogger(logger.Named("http")),
		Metrics(deps.Metrics),
		SecurityHeaders(),
	)
	router.NoRoute(func(c *gin.Context) {
		abortWithMessage(c, http.StatusNotFound, "not found")
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	authHandlers := NewAuthHandlers(deps.AuthService, logger.Named("auth_handlers"))
	productHandlers := NewProductHandlers(deps.Products)

	// Auth routes
	limit := func(c *gin.Context) { c.Next() }
	if deps.LoginLimiter != nil {
		limit = deps.LoginLimiter.Middleware()
	}

	auth := router.Group("/auth")
	{
		auth.POST("/login", limit, authHandlers.Login)
		auth.POST("/refresh", limit, authHandlers.Refresh)
		auth.POST("/logout", authHandlers.Logout)
	}

	// Protected API routes
	api := router.Group("/api")
	api.Use(AuthMiddleware(deps.AuthService, policy, logger.Named("authz"), deps.Metrics))
	{
		api.GET("/me", authHandlers.Me)

		products := api.Group("/produtos")
		products.GET("", productHandlers.List)
		products.POST("", productHandlers.Create)
		products.GET("/:id", productHandlers.Get)
		products.HEAD("/:id", productHandlers.Exists)
		products.PUT("/:id", productHandlers.Update)
		products.DELETE("/:id", productHandlers.Delete)
	}

	return router, nil
}

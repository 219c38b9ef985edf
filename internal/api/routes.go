package api

import (
	"github.com/labstack/echo/v4"

	"copysmith-backend/internal/auth"
	"copysmith-backend/internal/database"
	"copysmith-backend/internal/workflow"
)

var (
	authService *auth.Service
	apps        *workflow.Registry
	auditRepo   *database.AuditRepo
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api *echo.Group, authSvc *auth.Service, registry *workflow.Registry) {
	authService = authSvc
	apps = registry
	auditRepo = database.NewAuditRepo()

	// Health check (public)
	api.GET("/health", healthCheck)

	// Auth routes (public - no auth required for signup/login)
	authGroup := api.Group("/auth")
	authGroup.POST("/signup", signupHandler, auth.LoginRateLimiter.Middleware())
	authGroup.POST("/login", loginHandler, auth.LoginRateLimiter.Middleware())
	authGroup.POST("/logout", logoutHandler)
	authGroup.POST("/refresh", refreshTokenHandler)
	authGroup.GET("/me", getCurrentUser)

	// Protected auth routes
	authProtected := authGroup.Group("")
	authProtected.Use(auth.RequireAuth(authSvc))
	authProtected.GET("/sessions", getUserSessions)
	authProtected.DELETE("/sessions/:id", revokeSession)

	// Generation workflow routes
	protected := api.Group("")
	protected.Use(auth.RequireAuth(authSvc))
	protected.POST("/generate", generateHandler)
	protected.GET("/descriptions", listDescriptionsHandler)
	protected.DELETE("/descriptions/:id", deleteDescriptionHandler)
	protected.POST("/copy", copyHandler)
	protected.GET("/view", getViewHandler)
	protected.PUT("/view", setViewHandler)
}

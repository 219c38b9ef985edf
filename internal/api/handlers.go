package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"copysmith-backend/internal/auth"
	"copysmith-backend/internal/models"
)

// Health check
func healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// getUserFromContext returns the authenticated user stored by RequireAuth
func getUserFromContext(c echo.Context) *models.User {
	user, ok := c.Get(auth.ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

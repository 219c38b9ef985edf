package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"copysmith-backend/internal/auth"
	"copysmith-backend/internal/database"
)

// signupHandler handles POST /api/auth/signup
func signupHandler(c echo.Context) error {
	var req auth.Credentials
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "email and password are required",
		})
	}

	user, err := authService.SignUp(req, c.RealIP())
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			return c.JSON(http.StatusConflict, map[string]string{
				"error": "email is already registered",
			})
		case errors.Is(err, auth.ErrSignupsDisabled):
			return c.JSON(http.StatusForbidden, map[string]string{
				"error": "signups are disabled",
			})
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "email and password are required",
			})
		default:
			c.Logger().Error("signup error: ", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "signup failed",
			})
		}
	}

	// No session is created; the user signs in afterwards
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"user":    user,
		"message": "sign up successful, you can now log in",
	})
}

// loginHandler handles POST /api/auth/login
func loginHandler(c echo.Context) error {
	var req auth.Credentials
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "email and password are required",
		})
	}

	resp, err := authService.SignIn(req, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "invalid email or password",
			})
		case errors.Is(err, auth.ErrUserDisabled):
			return c.JSON(http.StatusForbidden, map[string]string{
				"error": "user account is disabled",
			})
		default:
			c.Logger().Error("login error: ", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "authentication failed",
			})
		}
	}

	auth.LoginRateLimiter.RecordSuccess(c.RealIP())

	// Set token in cookie (HttpOnly for security)
	cookie := &http.Cookie{
		Name:     "session_token",
		Value:    resp.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Request().TLS != nil, // Secure if HTTPS
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(time.Until(resp.ExpiresAt).Seconds()),
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":       resp.User,
		"token":      resp.Token,
		"expires_at": resp.ExpiresAt,
	})
}

// logoutHandler handles POST /api/auth/logout
func logoutHandler(c echo.Context) error {
	token := auth.TokenFromRequest(c)
	if token == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "no session token",
		})
	}

	if err := authService.SignOut(token); err != nil {
		if errors.Is(err, database.ErrSessionNotFound) || errors.Is(err, database.ErrSessionExpired) {
			// Session already gone, that's fine
		} else {
			c.Logger().Error("logout error: ", err)
		}
	}

	// Clear cookie
	cookie := &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// refreshTokenHandler handles POST /api/auth/refresh
func refreshTokenHandler(c echo.Context) error {
	token := auth.TokenFromRequest(c)
	if token == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "no session token",
		})
	}

	session, err := authService.RefreshToken(token)
	if err != nil {
		if errors.Is(err, database.ErrSessionNotFound) || errors.Is(err, database.ErrSessionExpired) {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "session expired or invalid",
			})
		}
		c.Logger().Error("refresh token error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to refresh session",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"expires_at": session.ExpiresAt,
	})
}

// getCurrentUser handles GET /api/auth/me
func getCurrentUser(c echo.Context) error {
	token := auth.TokenFromRequest(c)
	if token == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "not authenticated",
		})
	}

	user, session, err := authService.ValidateToken(token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "session expired or invalid",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":    user,
		"session": session,
	})
}

// getUserSessions handles GET /api/auth/sessions
func getUserSessions(c echo.Context) error {
	user := getUserFromContext(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "not authenticated",
		})
	}

	sessions, err := authService.GetUserSessions(user.ID)
	if err != nil {
		c.Logger().Error("get sessions error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to get sessions",
		})
	}

	return c.JSON(http.StatusOK, sessions)
}

// revokeSession handles DELETE /api/auth/sessions/:id
func revokeSession(c echo.Context) error {
	user := getUserFromContext(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "not authenticated",
		})
	}

	sessionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid session ID",
		})
	}

	// Verify the session belongs to this user
	sessions, _ := authService.GetUserSessions(user.ID)
	found := false
	for _, s := range sessions {
		if s.ID == sessionID {
			found = true
			break
		}
	}
	if !found {
		return c.JSON(http.StatusForbidden, map[string]string{
			"error": "cannot revoke another user's session",
		})
	}

	if err := authService.RevokeSession(sessionID); err != nil {
		c.Logger().Error("revoke session error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to revoke session",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "session revoked",
	})
}

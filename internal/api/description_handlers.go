package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"copysmith-backend/internal/database"
	"copysmith-backend/internal/models"
	"copysmith-backend/internal/workflow"
)

// generateHandler handles POST /api/generate
func generateHandler(c echo.Context) error {
	user := getUserFromContext(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "not authenticated",
		})
	}

	var input models.ProductInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	app := apps.For(user.Principal())
	result, err := app.Generate(c.Request().Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrMissingFields):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "product name and features are required",
			})
		case errors.Is(err, workflow.ErrInvalidTone):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "unsupported tone",
			})
		case errors.Is(err, workflow.ErrBusy):
			return c.JSON(http.StatusConflict, map[string]string{
				"error": "a generation is already in progress",
			})
		case errors.Is(err, workflow.ErrStaleSession):
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "session changed while generating",
			})
		default:
			c.Logger().Error("generate error: ", err)
			return c.JSON(http.StatusBadGateway, map[string]string{
				"error": "failed to generate description",
			})
		}
	}

	auditRepo.Log(user.ID, user.Email, models.ActionGenerate, input.Name, nil, c.RealIP())

	return c.JSON(http.StatusOK, map[string]interface{}{
		"description": result,
		"history":     app.History().Items(),
	})
}

// listDescriptionsHandler handles GET /api/descriptions
func listDescriptionsHandler(c echo.Context) error {
	user := getUserFromContext(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "not authenticated",
		})
	}

	// A failed fetch is logged by the store and the previous cache is
	// served instead of a blocking error.
	app := apps.For(user.Principal())
	app.History().Fetch()

	return c.JSON(http.StatusOK, app.History().Items())
}

// deleteDescriptionHandler handles DELETE /api/descriptions/:id
func deleteDescriptionHandler(c echo.Context) error {
	user := getUserFromContext(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "not authenticated",
		})
	}

	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "description ID is required",
		})
	}

	app := apps.For(user.Principal())
	if err := app.History().DeleteItem(id); err != nil {
		if errors.Is(err, database.ErrDescriptionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "description not found",
			})
		}
		c.Logger().Error("delete description error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to delete description",
		})
	}

	auditRepo.Log(user.ID, user.Email, models.ActionDeleteDescription, id, nil, c.RealIP())

	return c.JSON(http.StatusOK, app.History().Items())
}

// copyHandler handles POST /api/copy
func copyHandler(c echo.Context) error {
	user := getUserFromContext(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "not authenticated",
		})
	}

	var req struct {
		SlotID string `json:"slot_id"`
	}
	if err := c.Bind(&req); err != nil || req.SlotID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "slot_id is required",
		})
	}

	app := apps.For(user.Principal())
	app.MarkCopied(req.SlotID)

	return c.JSON(http.StatusOK, map[string]string{
		"copied": req.SlotID,
	})
}

// getViewHandler handles GET /api/view
func getViewHandler(c echo.Context) error {
	user := getUserFromContext(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "not authenticated",
		})
	}

	app := apps.For(user.Principal())

	return c.JSON(http.StatusOK, map[string]interface{}{
		"view":           app.View(),
		"copied":         app.CopiedSlot(),
		"generating":     app.Generating(),
		"last_generated": app.LastGenerated(),
	})
}

// setViewHandler handles PUT /api/view
func setViewHandler(c echo.Context) error {
	user := getUserFromContext(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "not authenticated",
		})
	}

	var req struct {
		View workflow.View `json:"view"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	app := apps.For(user.Principal())
	if err := app.Navigate(req.View); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "unknown view",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"view": app.View(),
	})
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nucash/nucash_backend/internal/apperrors"
	portssvc "github.com/nucash/nucash_backend/internal/core/ports/services"
	"github.com/nucash/nucash_backend/internal/dto"
	"github.com/nucash/nucash_backend/internal/middleware"
)

// fareHandler handles fare administration endpoints.
type fareHandler struct {
	fareService portssvc.FareSvcFacade
}

// newFareHandler creates a new fareHandler.
func newFareHandler(fareService portssvc.FareSvcFacade) *fareHandler {
	return &fareHandler{fareService: fareService}
}

// registerFareRoutes registers fare administration routes.
func registerFareRoutes(rg *gin.RouterGroup, fareService portssvc.FareSvcFacade) {
	h := newFareHandler(fareService)
	fares := rg.Group("/fares")
	{
		fares.GET("/settings", h.getSettings)
		fares.PUT("/settings", h.updateSettings)
		fares.GET("/routes/:routeID", h.getRoute)
		fares.PUT("/routes/:routeID", h.upsertRoute)
	}
}

// getSettings godoc
// @Summary Get the global fare settings
// @Tags fares
// @Produce  json
// @Success 200 {object} domain.FareSettings
// @Router /fares/settings [get]
func (h *fareHandler) getSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	settings, err := h.fareService.GetSettings(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get fare settings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve fare settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// updateSettings godoc
// @Summary Update the global fare settings
// @Description Applies a partial update to the current fare and/or the negative balance limit
// @Tags fares
// @Accept  json
// @Produce  json
// @Param   request body dto.UpdateFareSettingsRequest true "Settings patch"
// @Success 200 {object} domain.FareSettings
// @Failure 400 {object} map[string]string "Invalid values"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /fares/settings [put]
func (h *fareHandler) updateSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateFareSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for fare settings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	settings, err := h.fareService.UpdateSettings(c.Request.Context(), req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to update fare settings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update fare settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// getRoute godoc
// @Summary Get a shuttle route and its fare
// @Tags fares
// @Produce  json
// @Param   routeID path string true "Route ID"
// @Success 200 {object} domain.ShuttleRoute
// @Failure 404 {object} map[string]string "Route not found"
// @Router /fares/routes/{routeID} [get]
func (h *fareHandler) getRoute(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	routeID := c.Param("routeID")

	route, err := h.fareService.GetRoute(c.Request.Context(), routeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
			return
		}
		logger.Error("Failed to get route", slog.String("route_id", routeID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve route"})
		return
	}

	c.JSON(http.StatusOK, route)
}

// upsertRoute godoc
// @Summary Create or update a shuttle route fare
// @Tags fares
// @Accept  json
// @Produce  json
// @Param   routeID path string true "Route ID"
// @Param   request body dto.UpsertRouteRequest true "Route details"
// @Success 200 {object} domain.ShuttleRoute
// @Failure 400 {object} map[string]string "Invalid fare"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /fares/routes/{routeID} [put]
func (h *fareHandler) upsertRoute(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	routeID := c.Param("routeID")

	var req dto.UpsertRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for route upsert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	route, err := h.fareService.UpsertRoute(c.Request.Context(), routeID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to upsert route", slog.String("route_id", routeID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save route"})
		return
	}

	c.JSON(http.StatusOK, route)
}

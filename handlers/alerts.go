package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"sargassum-ops-api/repository"
	"sargassum-ops-api/services"
)

type AlertsHandler struct {
	store   repository.Store
	queries *services.RiskQueryService
}

func NewAlertsHandler(store repository.Store, queries *services.RiskQueryService) *AlertsHandler {
	return &AlertsHandler{store: store, queries: queries}
}

// List serves GET /api/alerts.
func (h *AlertsHandler) List(c *gin.Context) {
	limit := 0
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	activeOnly := true
	if a := c.Query("active_only"); a != "" {
		parsed, err := strconv.ParseBool(a)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "active_only must be a boolean"})
			return
		}
		activeOnly = parsed
	}

	alerts, err := h.queries.RecentAlerts(c.Request.Context(), limit, activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

// Resolve serves PUT /api/alerts/:id/resolve, the operational action
// that deactivates an alert. Ingestion never resolves alerts itself.
func (h *AlertsHandler) Resolve(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	if err := h.store.ResolveAlert(c.Request.Context(), uint(id), time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active alert with that id"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve alert"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "resolved", "id": id})
}

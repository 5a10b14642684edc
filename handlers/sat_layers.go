package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sargassum-ops-api/models"
)

type SatLayersHandler struct {
	db *gorm.DB
}

func NewSatLayersHandler(db *gorm.DB) *SatLayersHandler {
	return &SatLayersHandler{db: db}
}

func (h *SatLayersHandler) List(c *gin.Context) {
	p := ParseListParams(c)

	query := h.db.Order("date DESC").Offset(p.Skip).Limit(p.Limit)
	if source := c.Query("source"); source != "" {
		query = query.Where("source = ?", source)
	}

	var layers []models.SatLayer
	if err := query.Find(&layers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": layers})
}

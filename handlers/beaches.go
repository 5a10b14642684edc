package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sargassum-ops-api/models"
	"sargassum-ops-api/services"
)

type BeachesHandler struct {
	db    *gorm.DB
	cache *services.CacheService
}

func NewBeachesHandler(db *gorm.DB, cache *services.CacheService) *BeachesHandler {
	return &BeachesHandler{db: db, cache: cache}
}

type CreateBeachRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	Latitude          float64 `json:"latitude" binding:"required"`
	Longitude         float64 `json:"longitude" binding:"required"`
	Region            string  `json:"region"`
	Country           string  `json:"country"`
	TourismImportance int     `json:"tourism_importance"`
}

type UpdateBeachRequest struct {
	Name              *string  `json:"name"`
	Description       *string  `json:"description"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	Region            *string  `json:"region"`
	Country           *string  `json:"country"`
	TourismImportance *int     `json:"tourism_importance"`
}

func (h *BeachesHandler) List(c *gin.Context) {
	p := ParseListParams(c)
	cacheKey := fmt.Sprintf("beaches:%d:%d", p.Skip, p.Limit)

	var cached struct {
		Data []models.Beach `json:"data"`
	}
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	var beaches []models.Beach
	if err := h.db.Order("id").Offset(p.Skip).Limit(p.Limit).Find(&beaches).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	resp := gin.H{"data": beaches}
	go h.cache.Set(context.Background(), cacheKey, resp, 30*time.Second)

	c.JSON(http.StatusOK, resp)
}

func (h *BeachesHandler) Get(c *gin.Context) {
	var beach models.Beach
	if err := h.db.First(&beach, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "beach not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, beach)
}

func (h *BeachesHandler) Create(c *gin.Context) {
	var req CreateBeachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	beach := models.Beach{
		Name:              req.Name,
		Description:       req.Description,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		Region:            req.Region,
		Country:           req.Country,
		TourismImportance: req.TourismImportance,
	}
	if err := h.db.Create(&beach).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create beach"})
		return
	}

	c.JSON(http.StatusCreated, beach)
}

func (h *BeachesHandler) Update(c *gin.Context) {
	var beach models.Beach
	if err := h.db.First(&beach, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "beach not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	var req UpdateBeachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if req.Region != nil {
		updates["region"] = *req.Region
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.TourismImportance != nil {
		updates["tourism_importance"] = *req.TourismImportance
	}

	if len(updates) > 0 {
		if err := h.db.Model(&beach).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update beach"})
			return
		}
	}

	c.JSON(http.StatusOK, beach)
}

func (h *BeachesHandler) Delete(c *gin.Context) {
	result := h.db.Delete(&models.Beach{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete beach"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "beach not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

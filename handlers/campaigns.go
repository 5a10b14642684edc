package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sargassum-ops-api/models"
)

type CampaignsHandler struct {
	db *gorm.DB
}

func NewCampaignsHandler(db *gorm.DB) *CampaignsHandler {
	return &CampaignsHandler{db: db}
}

type CreateCampaignRequest struct {
	Name             string     `json:"name" binding:"required"`
	Description      string     `json:"description"`
	Status           string     `json:"status" binding:"omitempty,oneof=planned active completed cancelled"`
	BeachID          *uint      `json:"beach_id"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	CoordinatorID    *uint      `json:"coordinator_id"`
	VolunteersNeeded int        `json:"volunteers_needed"`
}

type UpdateCampaignRequest struct {
	Name                 *string    `json:"name"`
	Description          *string    `json:"description"`
	Status               *string    `json:"status" binding:"omitempty,oneof=planned active completed cancelled"`
	BeachID              *uint      `json:"beach_id"`
	StartDate            *time.Time `json:"start_date"`
	EndDate              *time.Time `json:"end_date"`
	CoordinatorID        *uint      `json:"coordinator_id"`
	VolunteersNeeded     *int       `json:"volunteers_needed"`
	VolunteersRegistered *int       `json:"volunteers_registered"`
}

func (h *CampaignsHandler) List(c *gin.Context) {
	p := ParseListParams(c)

	query := h.db.Order("id").Offset(p.Skip).Limit(p.Limit)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if beachID := c.Query("beach_id"); beachID != "" {
		query = query.Where("beach_id = ?", beachID)
	}

	var campaigns []models.Campaign
	if err := query.Find(&campaigns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": campaigns})
}

func (h *CampaignsHandler) Get(c *gin.Context) {
	var campaign models.Campaign
	if err := h.db.First(&campaign, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, campaign)
}

func (h *CampaignsHandler) Create(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign := models.Campaign{
		Name:             req.Name,
		Description:      req.Description,
		Status:           req.Status,
		BeachID:          req.BeachID,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		CoordinatorID:    req.CoordinatorID,
		VolunteersNeeded: req.VolunteersNeeded,
	}
	if campaign.Status == "" {
		campaign.Status = models.CampaignStatusPlanned
	}
	if err := h.db.Create(&campaign).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create campaign"})
		return
	}

	c.JSON(http.StatusCreated, campaign)
}

func (h *CampaignsHandler) Update(c *gin.Context) {
	var campaign models.Campaign
	if err := h.db.First(&campaign, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	var req UpdateCampaignRequest
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
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.BeachID != nil {
		updates["beach_id"] = *req.BeachID
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if req.CoordinatorID != nil {
		updates["coordinator_id"] = *req.CoordinatorID
	}
	if req.VolunteersNeeded != nil {
		updates["volunteers_needed"] = *req.VolunteersNeeded
	}
	if req.VolunteersRegistered != nil {
		updates["volunteers_registered"] = *req.VolunteersRegistered
	}

	if len(updates) > 0 {
		if err := h.db.Model(&campaign).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update campaign"})
			return
		}
	}

	c.JSON(http.StatusOK, campaign)
}

func (h *CampaignsHandler) Delete(c *gin.Context) {
	result := h.db.Delete(&models.Campaign{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete campaign"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

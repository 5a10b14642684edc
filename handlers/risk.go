package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"sargassum-ops-api/services"
)

const dateLayout = "2006-01-02"

type RiskHandler struct {
	ingestion *services.IngestionService
	queries   *services.RiskQueryService
	cache     *services.CacheService
	clock     services.Clock
	// maxBackfillDays bounds the simulate-ingestion endpoint.
	maxBackfillDays int
}

func NewRiskHandler(
	ingestion *services.IngestionService,
	queries *services.RiskQueryService,
	cache *services.CacheService,
	clock services.Clock,
	maxBackfillDays int,
) *RiskHandler {
	return &RiskHandler{
		ingestion:       ingestion,
		queries:         queries,
		cache:           cache,
		clock:           clock,
		maxBackfillDays: maxBackfillDays,
	}
}

// GetBeachHistory serves GET /api/risk/beach/:beach_id. Defaults to the
// trailing 14 days when no range is given.
func (h *RiskHandler) GetBeachHistory(c *gin.Context) {
	beachID, err := strconv.ParseUint(c.Param("beach_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid beach id"})
		return
	}

	end, ok := h.parseDateQuery(c, "end_date", h.clock.Today())
	if !ok {
		return
	}
	start, ok := h.parseDateQuery(c, "start_date", end.AddDate(0, 0, -14))
	if !ok {
		return
	}

	points, err := h.queries.RiskTimeseries(c.Request.Context(), uint(beachID), start, end)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"beach_id": beachID,
		"data":     points,
	})
}

// GetHighRisk serves GET /api/risk/high.
func (h *RiskHandler) GetHighRisk(c *gin.Context) {
	date, ok := h.targetDateQuery(c)
	if !ok {
		return
	}

	minLevel := 2
	if m := c.Query("min_risk_level"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 0 || parsed > 3 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_risk_level must be in 0..3"})
			return
		}
		minLevel = parsed
	}

	cacheKey := fmt.Sprintf("risk:high:%s:%d", date.Format(dateLayout), minLevel)
	var cached services.HighRiskResult
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Date != "" {
		c.JSON(http.StatusOK, cached)
		return
	}

	result, err := h.queries.HighRiskBeaches(c.Request.Context(), date, minLevel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	go h.cache.Set(context.Background(), cacheKey, result, 60*time.Second)

	c.JSON(http.StatusOK, result)
}

// GetSummary serves GET /api/risk/summary.
func (h *RiskHandler) GetSummary(c *gin.Context) {
	date, ok := h.targetDateQuery(c)
	if !ok {
		return
	}

	cacheKey := "risk:summary:" + date.Format(dateLayout)
	var cached services.RiskSummary
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Date != "" {
		c.JSON(http.StatusOK, cached)
		return
	}

	summary, err := h.queries.RiskSummary(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	go h.cache.Set(context.Background(), cacheKey, summary, 60*time.Second)

	c.JSON(http.StatusOK, summary)
}

// UpdateToday serves POST /api/risk/update-today.
func (h *RiskHandler) UpdateToday(c *gin.Context) {
	result, err := h.ingestion.UpdateForDate(c.Request.Context(), h.clock.Today())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ingestion failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          "success",
		"date":            result.Date,
		"beaches_updated": result.BeachesUpdated,
		"alerts_created":  result.AlertsCreated,
		"failed":          result.Failed,
	})
}

// SimulateIngestion serves POST /api/risk/simulate-ingestion. It
// backfills synthetic risk data for the past N days.
func (h *RiskHandler) SimulateIngestion(c *gin.Context) {
	days := 14
	if d := c.Query("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
			return
		}
		days = parsed
	}
	if days > h.maxBackfillDays {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("days must be at most %d", h.maxBackfillDays),
		})
		return
	}

	result, err := h.ingestion.Backfill(c.Request.Context(), days)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDays) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ingestion failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":                "success",
		"message":               fmt.Sprintf("Simulated %d days of risk data", days),
		"days_processed":        result.DaysProcessed,
		"beaches_created":       result.BeachesCreated,
		"total_records_created": result.TotalRecordsCreated,
		"total_alerts_created":  result.TotalAlertsCreated,
	})
}

// targetDateQuery reads the date filter for the high-risk and summary
// endpoints. target_date is accepted as an alias so clients written
// against the earlier API keep their filter.
func (h *RiskHandler) targetDateQuery(c *gin.Context) (time.Time, bool) {
	name := "date"
	if c.Query(name) == "" && c.Query("target_date") != "" {
		name = "target_date"
	}
	return h.parseDateQuery(c, name, h.clock.Today())
}

// parseDateQuery reads a YYYY-MM-DD query param, falling back to def.
// On a malformed value it writes a 400 and returns ok=false.
func (h *RiskHandler) parseDateQuery(c *gin.Context, name string, def time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("%s must be formatted as YYYY-MM-DD", name),
		})
		return time.Time{}, false
	}
	return parsed, true
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sargassum-ops-api/models"
	"sargassum-ops-api/repository"
)

// AlertsChannel is the redis pub/sub channel new alerts are published
// on; the websocket handler subscribes to it.
const AlertsChannel = "sargassum:alerts"

var ErrInvalidDays = errors.New("days must be at least 1")

// sampleBeaches seeds an empty database so ingestion and the map have
// something to work with on a fresh install.
var sampleBeaches = []models.Beach{
	{Name: "Kingstown Beach", Region: "St. Vincent", Latitude: 13.1561, Longitude: -61.2278, TourismImportance: 4},
	{Name: "Villa Beach", Region: "St. Vincent", Latitude: 13.1474, Longitude: -61.1982, TourismImportance: 5},
	{Name: "Indian Bay", Region: "St. Vincent", Latitude: 13.1444, Longitude: -61.1936, TourismImportance: 4},
	{Name: "Young Island", Region: "St. Vincent", Latitude: 13.1330, Longitude: -61.1950, TourismImportance: 5},
	{Name: "Brighton Beach", Region: "St. Vincent", Latitude: 13.1611, Longitude: -61.2447, TourismImportance: 3},
	{Name: "Questelles Beach", Region: "St. Vincent", Latitude: 13.1841, Longitude: -61.2569, TourismImportance: 2},
	{Name: "Layou Beach", Region: "St. Vincent", Latitude: 13.2089, Longitude: -61.2636, TourismImportance: 3},
	{Name: "Barrouallie Beach", Region: "St. Vincent", Latitude: 13.2366, Longitude: -61.2656, TourismImportance: 2},
	{Name: "Princess Margaret Beach", Region: "Bequia", Latitude: 13.0036, Longitude: -61.2419, TourismImportance: 5},
	{Name: "Lower Bay Beach", Region: "Bequia", Latitude: 13.0005, Longitude: -61.2364, TourismImportance: 4},
}

// IngestionService drives classification, storage and alerting across
// the beach set for a date, and across a date range for backfill.
type IngestionService struct {
	store  repository.Store
	source RiskSource
	clock  Clock
	cache  *CacheService
}

func NewIngestionService(store repository.Store, source RiskSource, clock Clock, cache *CacheService) *IngestionService {
	return &IngestionService{
		store:  store,
		source: source,
		clock:  clock,
		cache:  cache,
	}
}

// BeachFailure records a beach whose per-beach transaction failed during
// an ingestion run. The rest of the run proceeds; callers can retry just
// the failed subset.
type BeachFailure struct {
	BeachID uint   `json:"beach_id"`
	Error   string `json:"error"`
}

type IngestionResult struct {
	Date           string         `json:"date"`
	BeachesUpdated int            `json:"beaches_updated"`
	AlertsCreated  int            `json:"alerts_created"`
	Failed         []BeachFailure `json:"failed,omitempty"`
}

type BackfillResult struct {
	DaysProcessed       int `json:"days_processed"`
	BeachesCreated      int `json:"beaches_created"`
	TotalRecordsCreated int `json:"total_records_created"`
	TotalAlertsCreated  int `json:"total_alerts_created"`
}

// UpdateForDate assesses every beach for the given date, upserts one
// daily risk row per beach, and opens HIGH_RISK alerts for level-3
// beaches that have none active. Each beach runs in its own transaction
// so one failure never poisons the rest.
func (s *IngestionService) UpdateForDate(ctx context.Context, date time.Time) (*IngestionResult, error) {
	day := repository.DateOnly(date)

	beaches, err := s.store.ListBeaches(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing beaches: %w", err)
	}

	result := &IngestionResult{Date: day.Format("2006-01-02")}

	for _, beach := range beaches {
		assessment := s.source.Assess(beach.ID, day)

		var created *models.Alert
		err := s.store.Transaction(ctx, func(tx repository.Store) error {
			risk := &models.BeachDailyRisk{
				BeachID:    beach.ID,
				Date:       day,
				RiskLevel:  assessment.RiskLevel,
				RawValue:   assessment.RawValue,
				Confidence: assessment.Confidence,
				Source:     assessment.Source,
			}
			if err := tx.UpsertDailyRisk(ctx, risk); err != nil {
				return err
			}

			if assessment.RiskLevel < models.RiskLevelHigh {
				return nil
			}

			alert := &models.Alert{
				BeachID:   beach.ID,
				AlertType: models.AlertTypeHighRisk,
				Severity:  3,
				Message: fmt.Sprintf("High sargassum risk detected at %s on %s",
					beach.Name, day.Format("2006-01-02")),
				IsActive: true,
			}
			ok, err := tx.CreateAlertIfAbsent(ctx, alert)
			if err != nil {
				return err
			}
			if ok {
				created = alert
			}
			return nil
		})
		if err != nil {
			slog.Error("beach ingestion failed", "beach_id", beach.ID, "date", result.Date, "error", err)
			result.Failed = append(result.Failed, BeachFailure{BeachID: beach.ID, Error: err.Error()})
			continue
		}

		result.BeachesUpdated++
		if created != nil {
			result.AlertsCreated++
			s.publishAlert(ctx, created, beach.Name)
		}
	}

	slog.Info("risk ingestion complete",
		"date", result.Date,
		"beaches_updated", result.BeachesUpdated,
		"alerts_created", result.AlertsCreated,
		"failed", len(result.Failed))

	return result, nil
}

// Backfill runs UpdateForDate for today and the days-1 preceding dates.
// Today is fixed once on entry so a run straddling midnight stays on one
// window. It also seeds the sample beach set when the table is empty.
func (s *IngestionService) Backfill(ctx context.Context, days int) (*BackfillResult, error) {
	if days < 1 {
		return nil, ErrInvalidDays
	}

	seeded, err := s.SeedBeachesIfEmpty(ctx)
	if err != nil {
		return nil, fmt.Errorf("seeding beaches: %w", err)
	}

	today := s.clock.Today()
	result := &BackfillResult{BeachesCreated: seeded}

	for i := 0; i < days; i++ {
		target := today.AddDate(0, 0, -i)
		dayResult, err := s.UpdateForDate(ctx, target)
		if err != nil {
			return nil, err
		}
		result.DaysProcessed++
		result.TotalRecordsCreated += dayResult.BeachesUpdated
		result.TotalAlertsCreated += dayResult.AlertsCreated
	}

	return result, nil
}

// SeedBeachesIfEmpty inserts the sample beaches when none exist and
// returns how many were created.
func (s *IngestionService) SeedBeachesIfEmpty(ctx context.Context) (int, error) {
	count, err := s.store.CountBeaches(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	for _, b := range sampleBeaches {
		beach := b
		if err := s.store.CreateBeach(ctx, &beach); err != nil {
			return created, err
		}
		created++
	}
	slog.Info("seeded sample beaches", "count", created)
	return created, nil
}

func (s *IngestionService) publishAlert(ctx context.Context, alert *models.Alert, beachName string) {
	if s.cache == nil {
		return
	}
	payload := map[string]interface{}{
		"id":         alert.ID,
		"beach_id":   alert.BeachID,
		"beach_name": beachName,
		"alert_type": alert.AlertType,
		"severity":   alert.Severity,
		"message":    alert.Message,
	}
	if err := s.cache.Publish(ctx, AlertsChannel, payload); err != nil {
		slog.Warn("alert publish failed", "alert_id", alert.ID, "error", err)
	}
}

package services

import (
	"context"
	"testing"
	"time"

	"sargassum-ops-api/models"
	"sargassum-ops-api/repository"
)

type fixedClock struct {
	today time.Time
}

func (c fixedClock) Today() time.Time { return c.today }

func newTestIngestion(store repository.Store, draw float64, today time.Time) *IngestionService {
	source := NewSyntheticSource(&fixedRand{vals: []float64{draw, 0.5}})
	return NewIngestionService(store, source, fixedClock{today: today}, NewDisabledCacheService())
}

func seedBeach(t *testing.T, store repository.Store, id uint, name string) {
	t.Helper()
	beach := &models.Beach{ID: id, Name: name, Latitude: 13.1, Longitude: -61.2}
	if err := store.CreateBeach(context.Background(), beach); err != nil {
		t.Fatalf("CreateBeach failed: %v", err)
	}
}

func TestUpdateForDateHighRiskCreatesOneAlert(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	seedBeach(t, store, 7, "Villa Beach")

	// 7 mod 3 != 0 and January carries no seasonal bias, so the raw
	// value is exactly the 0.9 base draw.
	svc := newTestIngestion(store, 0.9, janDate())

	result, err := svc.UpdateForDate(ctx, janDate())
	if err != nil {
		t.Fatalf("UpdateForDate failed: %v", err)
	}
	if result.BeachesUpdated != 1 {
		t.Errorf("BeachesUpdated = %d, want 1", result.BeachesUpdated)
	}
	if result.AlertsCreated != 1 {
		t.Errorf("AlertsCreated = %d, want 1", result.AlertsCreated)
	}
	if len(result.Failed) != 0 {
		t.Errorf("Failed = %v, want none", result.Failed)
	}

	rows, err := store.RiskTimeseries(ctx, 7, janDate(), janDate())
	if err != nil {
		t.Fatalf("RiskTimeseries failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("risk rows = %d, want 1", len(rows))
	}
	if rows[0].RawValue != 0.9 {
		t.Errorf("RawValue = %v, want 0.9", rows[0].RawValue)
	}
	if rows[0].RiskLevel != models.RiskLevelHigh {
		t.Errorf("RiskLevel = %d, want %d", rows[0].RiskLevel, models.RiskLevelHigh)
	}

	alerts, err := store.RecentAlerts(ctx, 10, true)
	if err != nil {
		t.Fatalf("RecentAlerts failed: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(alerts))
	}
	if alerts[0].AlertType != models.AlertTypeHighRisk {
		t.Errorf("AlertType = %q, want %q", alerts[0].AlertType, models.AlertTypeHighRisk)
	}
	if alerts[0].Severity != 3 {
		t.Errorf("Severity = %d, want 3", alerts[0].Severity)
	}
}

func TestUpdateForDateIsMechanicallyIdempotent(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	seedBeach(t, store, 7, "Villa Beach")

	svc := newTestIngestion(store, 0.9, janDate())

	if _, err := svc.UpdateForDate(ctx, janDate()); err != nil {
		t.Fatalf("first UpdateForDate failed: %v", err)
	}
	second, err := svc.UpdateForDate(ctx, janDate())
	if err != nil {
		t.Fatalf("second UpdateForDate failed: %v", err)
	}

	// Still exactly one risk row for the (beach, date) pair.
	rows, _ := store.RiskTimeseries(ctx, 7, janDate(), janDate())
	if len(rows) != 1 {
		t.Errorf("risk rows after rerun = %d, want 1", len(rows))
	}

	// The already-active alert suppresses a duplicate.
	if second.AlertsCreated != 0 {
		t.Errorf("AlertsCreated on rerun = %d, want 0", second.AlertsCreated)
	}
	alerts, _ := store.RecentAlerts(ctx, 10, true)
	if len(alerts) != 1 {
		t.Errorf("alerts after rerun = %d, want 1", len(alerts))
	}
}

func TestUpdateForDateLowRiskNeverTouchesAlerts(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	seedBeach(t, store, 7, "Villa Beach")

	svc := newTestIngestion(store, 0.3, janDate())

	result, err := svc.UpdateForDate(ctx, janDate())
	if err != nil {
		t.Fatalf("UpdateForDate failed: %v", err)
	}
	if result.AlertsCreated != 0 {
		t.Errorf("AlertsCreated = %d, want 0", result.AlertsCreated)
	}
	alerts, _ := store.RecentAlerts(ctx, 10, false)
	if len(alerts) != 0 {
		t.Errorf("alerts = %d, want 0", len(alerts))
	}
}

func TestBackfillCoversExactWindow(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	seedBeach(t, store, 1, "Kingstown Beach")
	seedBeach(t, store, 2, "Indian Bay")

	today := time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC)
	svc := newTestIngestion(store, 0.1, today)

	result, err := svc.Backfill(ctx, 14)
	if err != nil {
		t.Fatalf("Backfill failed: %v", err)
	}
	if result.DaysProcessed != 14 {
		t.Errorf("DaysProcessed = %d, want 14", result.DaysProcessed)
	}
	if result.TotalRecordsCreated != 28 {
		t.Errorf("TotalRecordsCreated = %d, want 28", result.TotalRecordsCreated)
	}
	if result.BeachesCreated != 0 {
		t.Errorf("BeachesCreated = %d, want 0 with seeded beaches", result.BeachesCreated)
	}

	// Exactly one row per day for today-13 .. today, nothing outside.
	rows, err := store.RiskTimeseries(ctx, 1, today.AddDate(0, 0, -30), today)
	if err != nil {
		t.Fatalf("RiskTimeseries failed: %v", err)
	}
	if len(rows) != 14 {
		t.Fatalf("rows = %d, want 14", len(rows))
	}
	for i, r := range rows {
		want := today.AddDate(0, 0, -(13 - i))
		if !r.Date.Equal(want) {
			t.Errorf("row %d date = %v, want %v", i, r.Date, want)
		}
	}
}

func TestBackfillSeedsEmptyBeachSet(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	today := time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC)
	svc := newTestIngestion(store, 0.1, today)

	result, err := svc.Backfill(ctx, 2)
	if err != nil {
		t.Fatalf("Backfill failed: %v", err)
	}
	if result.BeachesCreated != 10 {
		t.Errorf("BeachesCreated = %d, want 10", result.BeachesCreated)
	}
	if result.TotalRecordsCreated != 20 {
		t.Errorf("TotalRecordsCreated = %d, want 20", result.TotalRecordsCreated)
	}

	// Re-seeding is a no-op.
	created, err := svc.SeedBeachesIfEmpty(ctx)
	if err != nil {
		t.Fatalf("SeedBeachesIfEmpty failed: %v", err)
	}
	if created != 0 {
		t.Errorf("second seed created = %d, want 0", created)
	}
}

func TestBackfillRejectsInvalidDays(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestIngestion(store, 0.1, janDate())

	for _, days := range []int{0, -1} {
		if _, err := svc.Backfill(context.Background(), days); err != ErrInvalidDays {
			t.Errorf("Backfill(%d) error = %v, want ErrInvalidDays", days, err)
		}
	}
}

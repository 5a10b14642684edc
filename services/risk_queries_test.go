package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"sargassum-ops-api/models"
	"sargassum-ops-api/repository"
)

func newTestQueries(store repository.Store, today time.Time) *RiskQueryService {
	return NewRiskQueryService(store, fixedClock{today: today})
}

func putRisk(t *testing.T, store repository.Store, beachID uint, date time.Time, level int) {
	t.Helper()
	err := store.UpsertDailyRisk(context.Background(), &models.BeachDailyRisk{
		BeachID:   beachID,
		Date:      date,
		RiskLevel: level,
		Source:    SyntheticSourceTag,
	})
	if err != nil {
		t.Fatalf("UpsertDailyRisk failed: %v", err)
	}
}

func TestRiskSummaryCountsLevels(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	day := janDate()

	putRisk(t, store, 1, day, models.RiskLevelLow)
	putRisk(t, store, 2, day, models.RiskLevelMedium)
	putRisk(t, store, 3, day, models.RiskLevelHigh)
	// A row on another day must not leak into the summary.
	putRisk(t, store, 1, day.AddDate(0, 0, -1), models.RiskLevelHigh)

	summary, err := newTestQueries(store, day).RiskSummary(ctx, day)
	if err != nil {
		t.Fatalf("RiskSummary failed: %v", err)
	}

	if summary.TotalBeaches != 3 {
		t.Errorf("TotalBeaches = %d, want 3", summary.TotalBeaches)
	}
	if summary.HighRisk != 1 || summary.MediumRisk != 1 || summary.LowRisk != 1 || summary.NoRisk != 0 {
		t.Errorf("counts = high %d, medium %d, low %d, none %d; want 1/1/1/0",
			summary.HighRisk, summary.MediumRisk, summary.LowRisk, summary.NoRisk)
	}
	if summary.Date != day.Format("2006-01-02") {
		t.Errorf("Date = %q, want %q", summary.Date, day.Format("2006-01-02"))
	}
}

func TestRiskSummaryDefaultsToToday(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	today := janDate()
	putRisk(t, store, 1, today, models.RiskLevelMedium)

	summary, err := newTestQueries(store, today).RiskSummary(ctx, time.Time{})
	if err != nil {
		t.Fatalf("RiskSummary failed: %v", err)
	}
	if summary.TotalBeaches != 1 || summary.MediumRisk != 1 {
		t.Errorf("summary = %+v, want today's single medium row", summary)
	}
}

func TestRiskSummaryScopesActiveAlertsToDate(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	day := janDate()

	// One active alert created on the queried date, one long before it,
	// one resolved. Only the first counts.
	_, err := store.CreateAlertIfAbsent(ctx, &models.Alert{
		BeachID: 1, AlertType: models.AlertTypeHighRisk, Severity: 3,
		IsActive: true, CreatedAt: day.Add(6 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateAlertIfAbsent failed: %v", err)
	}
	_, err = store.CreateAlertIfAbsent(ctx, &models.Alert{
		BeachID: 2, AlertType: models.AlertTypeHighRisk, Severity: 3,
		IsActive: true, CreatedAt: day.AddDate(0, -1, 0),
	})
	if err != nil {
		t.Fatalf("CreateAlertIfAbsent failed: %v", err)
	}
	stale, err := store.RecentAlerts(ctx, 10, true)
	if err != nil || len(stale) != 2 {
		t.Fatalf("expected 2 active alerts, got %d (err %v)", len(stale), err)
	}

	summary, err := newTestQueries(store, day).RiskSummary(ctx, day)
	if err != nil {
		t.Fatalf("RiskSummary failed: %v", err)
	}
	if summary.ActiveAlerts != 1 {
		t.Errorf("ActiveAlerts = %d, want 1 (scoped to the queried date)", summary.ActiveAlerts)
	}
}

func TestRiskTimeseriesOrderAndBounds(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	day := janDate()

	// Inserted out of order, with rows outside the window.
	putRisk(t, store, 1, day.AddDate(0, 0, 2), models.RiskLevelHigh)
	putRisk(t, store, 1, day, models.RiskLevelNone)
	putRisk(t, store, 1, day.AddDate(0, 0, 1), models.RiskLevelLow)
	putRisk(t, store, 1, day.AddDate(0, 0, -1), models.RiskLevelHigh)
	putRisk(t, store, 1, day.AddDate(0, 0, 3), models.RiskLevelHigh)
	putRisk(t, store, 2, day, models.RiskLevelHigh)

	points, err := newTestQueries(store, day).RiskTimeseries(ctx, 1, day, day.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("RiskTimeseries failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("points = %d, want 3", len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i].Date < points[i-1].Date {
			t.Errorf("dates out of order: %q before %q", points[i-1].Date, points[i].Date)
		}
	}
	if points[0].Date != day.Format("2006-01-02") {
		t.Errorf("first date = %q, want %q", points[0].Date, day.Format("2006-01-02"))
	}
}

func TestRiskTimeseriesRejectsInvertedRange(t *testing.T) {
	store := repository.NewMemoryStore()
	day := janDate()

	_, err := newTestQueries(store, day).RiskTimeseries(context.Background(), 1, day, day.AddDate(0, 0, -1))
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("error = %v, want ErrInvalidRange", err)
	}
}

func TestHighRiskBeachesFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	day := janDate()

	for i, level := range []int{models.RiskLevelNone, models.RiskLevelLow, models.RiskLevelMedium, models.RiskLevelHigh} {
		putRisk(t, store, uint(i+1), day, level)
	}

	result, err := newTestQueries(store, day).HighRiskBeaches(ctx, day, 2)
	if err != nil {
		t.Fatalf("HighRiskBeaches failed: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("Count = %d, want 2", result.Count)
	}
	if result.Beaches[0].RiskLevel != models.RiskLevelHigh ||
		result.Beaches[1].RiskLevel != models.RiskLevelMedium {
		t.Errorf("order = [%d, %d], want high first",
			result.Beaches[0].RiskLevel, result.Beaches[1].RiskLevel)
	}
}

func TestRecentAlertsLimitAndActiveFilter(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	base := janDate()

	for i := 0; i < 5; i++ {
		_, err := store.CreateAlertIfAbsent(ctx, &models.Alert{
			BeachID:   uint(i + 1),
			AlertType: models.AlertTypeHighRisk,
			Severity:  3,
			IsActive:  true,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("CreateAlertIfAbsent failed: %v", err)
		}
	}
	if err := store.ResolveAlert(ctx, 1, base.Add(24*time.Hour)); err != nil {
		t.Fatalf("ResolveAlert failed: %v", err)
	}

	queries := newTestQueries(store, base)

	active, err := queries.RecentAlerts(ctx, 0, true)
	if err != nil {
		t.Fatalf("RecentAlerts failed: %v", err)
	}
	if len(active) != 4 {
		t.Errorf("active alerts = %d, want 4", len(active))
	}
	for i := 1; i < len(active); i++ {
		if active[i].CreatedAt.After(active[i-1].CreatedAt) {
			t.Errorf("alerts not newest-first at index %d", i)
		}
	}

	all, err := queries.RecentAlerts(ctx, 3, false)
	if err != nil {
		t.Fatalf("RecentAlerts failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("limited alerts = %d, want 3", len(all))
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sargassum-ops-api/repository"
)

var ErrInvalidRange = errors.New("end date is before start date")

const (
	defaultAlertLimit = 20
	maxAlertLimit     = 100
)

// RiskQueryService is the read-only reporting layer over stored risk and
// alert rows. It never writes.
type RiskQueryService struct {
	store repository.Store
	clock Clock
}

func NewRiskQueryService(store repository.Store, clock Clock) *RiskQueryService {
	return &RiskQueryService{store: store, clock: clock}
}

type HighRiskResult struct {
	Date         string                     `json:"date"`
	MinRiskLevel int                        `json:"min_risk_level"`
	Count        int                        `json:"count"`
	Beaches      []repository.HighRiskBeach `json:"beaches"`
}

type RiskPoint struct {
	Date      string `json:"date"`
	RiskLevel int    `json:"risk_level"`
	Source    string `json:"source,omitempty"`
}

type RiskSummary struct {
	Date         string `json:"date"`
	TotalBeaches int    `json:"total_beaches"`
	HighRisk     int    `json:"high_risk"`
	MediumRisk   int    `json:"medium_risk"`
	LowRisk      int    `json:"low_risk"`
	NoRisk       int    `json:"no_risk"`
	ActiveAlerts int64  `json:"active_alerts"`
}

// HighRiskBeaches lists beaches at or above minLevel for the date,
// highest level first. A zero date defaults to today.
func (s *RiskQueryService) HighRiskBeaches(ctx context.Context, date time.Time, minLevel int) (*HighRiskResult, error) {
	if date.IsZero() {
		date = s.clock.Today()
	}
	day := repository.DateOnly(date)

	beaches, err := s.store.HighRiskForDate(ctx, day, minLevel)
	if err != nil {
		return nil, fmt.Errorf("querying high risk beaches: %w", err)
	}

	return &HighRiskResult{
		Date:         day.Format("2006-01-02"),
		MinRiskLevel: minLevel,
		Count:        len(beaches),
		Beaches:      beaches,
	}, nil
}

// RiskTimeseries returns the beach's daily risk rows for [start, end],
// both ends inclusive, oldest first.
func (s *RiskQueryService) RiskTimeseries(ctx context.Context, beachID uint, start, end time.Time) ([]RiskPoint, error) {
	first, last := repository.DateOnly(start), repository.DateOnly(end)
	if last.Before(first) {
		return nil, ErrInvalidRange
	}

	rows, err := s.store.RiskTimeseries(ctx, beachID, first, last)
	if err != nil {
		return nil, fmt.Errorf("querying risk timeseries: %w", err)
	}

	points := make([]RiskPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, RiskPoint{
			Date:      r.Date.Format("2006-01-02"),
			RiskLevel: r.RiskLevel,
			Source:    r.Source,
		})
	}
	return points, nil
}

// RecentAlerts returns alerts newest first, optionally active only.
// Limit defaults to 20 and is capped at 100.
func (s *RiskQueryService) RecentAlerts(ctx context.Context, limit int, activeOnly bool) ([]repository.AlertWithBeach, error) {
	if limit <= 0 {
		limit = defaultAlertLimit
	}
	if limit > maxAlertLimit {
		limit = maxAlertLimit
	}

	alerts, err := s.store.RecentAlerts(ctx, limit, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("querying recent alerts: %w", err)
	}
	if alerts == nil {
		alerts = []repository.AlertWithBeach{}
	}
	return alerts, nil
}

// RiskSummary counts the date's risk rows by level, plus active alerts
// created on or after that date. A zero date defaults to today.
func (s *RiskQueryService) RiskSummary(ctx context.Context, date time.Time) (*RiskSummary, error) {
	if date.IsZero() {
		date = s.clock.Today()
	}
	day := repository.DateOnly(date)

	counts, err := s.store.CountRisksByLevel(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("counting risk levels: %w", err)
	}

	activeAlerts, err := s.store.CountActiveAlertsSince(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("counting active alerts: %w", err)
	}

	return &RiskSummary{
		Date:         day.Format("2006-01-02"),
		TotalBeaches: counts.Total,
		HighRisk:     counts.High,
		MediumRisk:   counts.Medium,
		LowRisk:      counts.Low,
		NoRisk:       counts.None,
		ActiveAlerts: activeAlerts,
	}, nil
}

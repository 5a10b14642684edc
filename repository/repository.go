package repository

import (
	"context"
	"errors"
	"time"

	"sargassum-ops-api/models"
)

var ErrNotFound = errors.New("record not found")

// HighRiskBeach is a daily risk row joined to its beach name.
type HighRiskBeach struct {
	BeachID    uint      `json:"beach_id"`
	BeachName  string    `json:"beach_name"`
	RiskLevel  int       `json:"risk_level"`
	Date       time.Time `json:"-"`
	Source     string    `json:"source,omitempty"`
	RawValue   float64   `json:"raw_value"`
	Confidence float64   `json:"confidence"`
}

// AlertWithBeach is an alert row joined to its beach name.
type AlertWithBeach struct {
	ID         uint       `json:"id"`
	BeachID    uint       `json:"beach_id"`
	BeachName  string     `json:"beach_name"`
	AlertType  string     `json:"alert_type"`
	Severity   int        `json:"severity"`
	Message    string     `json:"message,omitempty"`
	IsActive   bool       `json:"is_active"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// RiskLevelCounts breaks down the daily risk rows for one date by level.
type RiskLevelCounts struct {
	Total  int
	High   int
	Medium int
	Low    int
	None   int
}

// Store is the persistence boundary of the risk pipeline and its query
// layer. The gorm implementation backs production; the memory
// implementation backs tests.
type Store interface {
	ListBeaches(ctx context.Context) ([]models.Beach, error)
	CountBeaches(ctx context.Context) (int64, error)
	CreateBeach(ctx context.Context, beach *models.Beach) error

	// UpsertDailyRisk guarantees exactly one row per (beach, date)
	// afterwards. On conflict only the assessment fields are rewritten;
	// id and created_at stay as first written.
	UpsertDailyRisk(ctx context.Context, risk *models.BeachDailyRisk) error
	HighRiskForDate(ctx context.Context, date time.Time, minLevel int) ([]HighRiskBeach, error)
	RiskTimeseries(ctx context.Context, beachID uint, start, end time.Time) ([]models.BeachDailyRisk, error)
	CountRisksByLevel(ctx context.Context, date time.Time) (RiskLevelCounts, error)

	// CreateAlertIfAbsent inserts the alert unless an active alert of the
	// same (beach, type) already exists. Returns whether a row was
	// created. Losing a concurrent race to the partial unique index is
	// reported as not created, not as an error.
	CreateAlertIfAbsent(ctx context.Context, alert *models.Alert) (bool, error)
	RecentAlerts(ctx context.Context, limit int, activeOnly bool) ([]AlertWithBeach, error)
	CountActiveAlertsSince(ctx context.Context, since time.Time) (int64, error)
	ResolveAlert(ctx context.Context, id uint, at time.Time) error

	// Transaction runs fn against a store bound to a single transaction.
	Transaction(ctx context.Context, fn func(Store) error) error
}

// DateOnly truncates t to a UTC calendar date, the key granularity of
// daily risk rows.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

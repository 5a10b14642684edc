package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sargassum-ops-api/models"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates the schema. AutoMigrate handles the tables and the
// composite unique index on beach_daily_risks; the active-alert
// uniqueness is a partial index gorm tags cannot express, so it is raw
// SQL. It serializes concurrent check-then-insert alert creation.
func (s *GormStore) Migrate() error {
	if err := s.db.AutoMigrate(
		&models.User{},
		&models.Beach{},
		&models.Campaign{},
		&models.Task{},
		&models.SatLayer{},
		&models.BeachDailyRisk{},
		&models.Alert{},
	); err != nil {
		return err
	}
	return s.db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_alerts_active_per_type
		 ON alerts (beach_id, alert_type) WHERE is_active`,
	).Error
}

func (s *GormStore) ListBeaches(ctx context.Context) ([]models.Beach, error) {
	var beaches []models.Beach
	if err := s.db.WithContext(ctx).Order("id").Find(&beaches).Error; err != nil {
		return nil, err
	}
	return beaches, nil
}

func (s *GormStore) CountBeaches(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Beach{}).Count(&count).Error
	return count, err
}

func (s *GormStore) CreateBeach(ctx context.Context, beach *models.Beach) error {
	return s.db.WithContext(ctx).Create(beach).Error
}

func (s *GormStore) UpsertDailyRisk(ctx context.Context, risk *models.BeachDailyRisk) error {
	risk.Date = DateOnly(risk.Date)
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "beach_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"risk_level", "raw_value", "confidence", "source",
		}),
	}).Create(risk).Error
}

func (s *GormStore) HighRiskForDate(ctx context.Context, date time.Time, minLevel int) ([]HighRiskBeach, error) {
	var rows []HighRiskBeach
	err := s.db.WithContext(ctx).
		Table("beach_daily_risks").
		Select(`beach_daily_risks.beach_id, beaches.name AS beach_name,
			beach_daily_risks.risk_level, beach_daily_risks.date,
			beach_daily_risks.source, beach_daily_risks.raw_value,
			beach_daily_risks.confidence`).
		Joins("JOIN beaches ON beaches.id = beach_daily_risks.beach_id").
		Where("beach_daily_risks.date = ? AND beach_daily_risks.risk_level >= ?",
			DateOnly(date), minLevel).
		Order("beach_daily_risks.risk_level DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) RiskTimeseries(ctx context.Context, beachID uint, start, end time.Time) ([]models.BeachDailyRisk, error) {
	var rows []models.BeachDailyRisk
	err := s.db.WithContext(ctx).
		Where("beach_id = ? AND date >= ? AND date <= ?",
			beachID, DateOnly(start), DateOnly(end)).
		Order("date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) CountRisksByLevel(ctx context.Context, date time.Time) (RiskLevelCounts, error) {
	var rows []models.BeachDailyRisk
	err := s.db.WithContext(ctx).
		Where("date = ?", DateOnly(date)).
		Find(&rows).Error
	if err != nil {
		return RiskLevelCounts{}, err
	}

	counts := RiskLevelCounts{Total: len(rows)}
	for _, r := range rows {
		switch r.RiskLevel {
		case models.RiskLevelHigh:
			counts.High++
		case models.RiskLevelMedium:
			counts.Medium++
		case models.RiskLevelLow:
			counts.Low++
		default:
			counts.None++
		}
	}
	return counts, nil
}

func (s *GormStore) CreateAlertIfAbsent(ctx context.Context, alert *models.Alert) (bool, error) {
	var existing models.Alert
	err := s.db.WithContext(ctx).
		Where("beach_id = ? AND alert_type = ? AND is_active = ?",
			alert.BeachID, alert.AlertType, true).
		First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		// A concurrent ingestion run inserted between the check and the
		// create; the partial unique index rejected ours.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *GormStore) RecentAlerts(ctx context.Context, limit int, activeOnly bool) ([]AlertWithBeach, error) {
	query := s.db.WithContext(ctx).
		Table("alerts").
		Select(`alerts.id, alerts.beach_id, beaches.name AS beach_name,
			alerts.alert_type, alerts.severity, alerts.message,
			alerts.is_active, alerts.resolved_at, alerts.created_at`).
		Joins("JOIN beaches ON beaches.id = alerts.beach_id")

	if activeOnly {
		query = query.Where("alerts.is_active = ?", true)
	}

	var rows []AlertWithBeach
	err := query.Order("alerts.created_at DESC").Limit(limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) CountActiveAlertsSince(ctx context.Context, since time.Time) (int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Alert{}).Where("is_active = ?", true)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (s *GormStore) ResolveAlert(ctx context.Context, id uint, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{"is_active": false, "resolved_at": at})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

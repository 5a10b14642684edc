package models

import "time"

// Risk levels are ordinal: 0 none, 1 low, 2 medium, 3 high.
const (
	RiskLevelNone   = 0
	RiskLevelLow    = 1
	RiskLevelMedium = 2
	RiskLevelHigh   = 3
)

// BeachDailyRisk holds one risk assessment per beach per calendar day.
// The composite unique index makes recomputation an update, never a
// second row.
type BeachDailyRisk struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	BeachID    uint      `gorm:"column:beach_id;not null;uniqueIndex:idx_beach_date" json:"beach_id"`
	Date       time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_beach_date" json:"date"`
	RiskLevel  int       `gorm:"column:risk_level;not null;default:0" json:"risk_level"`
	Source     string    `gorm:"column:source" json:"source,omitempty"`
	RawValue   float64   `gorm:"column:raw_value" json:"raw_value"`
	Confidence float64   `gorm:"column:confidence" json:"confidence"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (BeachDailyRisk) TableName() string { return "beach_daily_risks" }

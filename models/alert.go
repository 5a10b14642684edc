package models

import "time"

const AlertTypeHighRisk = "HIGH_RISK"

// Alert is an open or resolved notification tied to a beach. A partial
// unique index on (beach_id, alert_type) where is_active enforces at most
// one active alert of a type per beach; see repository.GormStore.Migrate.
type Alert struct {
	ID         uint       `gorm:"column:id;primaryKey" json:"id"`
	BeachID    uint       `gorm:"column:beach_id;not null;index" json:"beach_id"`
	AlertType  string     `gorm:"column:alert_type;not null" json:"alert_type"`
	Severity   int        `gorm:"column:severity;not null;default:1" json:"severity"`
	Message    string     `gorm:"column:message" json:"message,omitempty"`
	IsActive   bool       `gorm:"column:is_active;default:true" json:"is_active"`
	ResolvedAt *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;index" json:"created_at"`
}

func (Alert) TableName() string { return "alerts" }

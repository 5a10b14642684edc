package models

import "time"

const (
	CampaignStatusPlanned   = "planned"
	CampaignStatusActive    = "active"
	CampaignStatusCompleted = "completed"
	CampaignStatusCancelled = "cancelled"
)

type Campaign struct {
	ID                   uint       `gorm:"column:id;primaryKey" json:"id"`
	Name                 string     `gorm:"column:name;not null;index" json:"name"`
	Description          string     `gorm:"column:description" json:"description,omitempty"`
	Status               string     `gorm:"column:status;default:planned" json:"status"`
	BeachID              *uint      `gorm:"column:beach_id;index" json:"beach_id,omitempty"`
	StartDate            *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate              *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	CoordinatorID        *uint      `gorm:"column:coordinator_id" json:"coordinator_id,omitempty"`
	VolunteersNeeded     int        `gorm:"column:volunteers_needed;default:0" json:"volunteers_needed"`
	VolunteersRegistered int        `gorm:"column:volunteers_registered;default:0" json:"volunteers_registered"`
	CreatedAt            time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Campaign) TableName() string { return "campaigns" }

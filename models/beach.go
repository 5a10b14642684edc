package models

import "time"

type Beach struct {
	ID                uint       `gorm:"column:id;primaryKey" json:"id"`
	Name              string     `gorm:"column:name;not null;index" json:"name"`
	Description       string     `gorm:"column:description" json:"description,omitempty"`
	Latitude          float64    `gorm:"column:latitude;not null" json:"latitude"`
	Longitude         float64    `gorm:"column:longitude;not null" json:"longitude"`
	Region            string     `gorm:"column:region" json:"region,omitempty"`
	Country           string     `gorm:"column:country;default:Saint Vincent and the Grenadines" json:"country"`
	TourismImportance int        `gorm:"column:tourism_importance;default:1" json:"tourism_importance"`
	LastSurveyDate    *time.Time `gorm:"column:last_survey_date" json:"last_survey_date,omitempty"`
	CreatedAt         time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Beach) TableName() string { return "beaches" }

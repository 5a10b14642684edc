package models

import "time"

// SatLayer catalogs an available satellite data product, e.g. a NOAA_SIR
// risk raster for a given day. Rows are registered out of band; the API
// only lists them.
type SatLayer struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	Source      string    `gorm:"column:source;not null;index" json:"source"`
	Date        time.Time `gorm:"column:date;type:date;not null;index" json:"date"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	DataType    string    `gorm:"column:data_type" json:"data_type,omitempty"`
	URLOrPath   string    `gorm:"column:url_or_path" json:"url_or_path,omitempty"`
	Metadata    string    `gorm:"column:metadata_json" json:"metadata_json,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (SatLayer) TableName() string { return "sat_layers" }

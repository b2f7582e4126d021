package models

import "time"

// ImportRun marks a dataset as imported. A row exists only for imports that
// committed; it is written in the same transaction as the imported data.
type ImportRun struct {
	CompletedAt    time.Time `gorm:"column:completed_at;not null" json:"completed_at"`
	Dataset        string    `gorm:"column:dataset;primaryKey;type:varchar(100)" json:"dataset"`
	RowCount       int       `gorm:"column:row_count;not null;default:0" json:"row_count"`
	VendorsCreated int       `gorm:"column:vendors_created;not null;default:0" json:"vendors_created"`
	CitiesCreated  int       `gorm:"column:cities_created;not null;default:0" json:"cities_created"`
	ReportsCreated int       `gorm:"column:reports_created;not null;default:0" json:"reports_created"`
}

// TableName specifies the table name for GORM.
func (ImportRun) TableName() string {
	return "import_runs"
}

package models

// City is a locally numbered city referenced by annual reports. Names are
// unique case-insensitively.
type City struct {
	Name    string `gorm:"column:city_name;type:varchar(200);not null" json:"name"`
	ID      int64  `gorm:"column:city_id;primaryKey;autoIncrement" json:"id"`
	Version int    `gorm:"column:version;not null;default:1" json:"version"`
}

// TableName specifies the table name for GORM.
func (City) TableName() string {
	return "cities"
}

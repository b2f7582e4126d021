package models

// Vendor is keyed by the external vendor code.
type Vendor struct {
	Code    VendorCode `gorm:"column:vendor_code;primaryKey;type:varchar(50)" json:"code"`
	Name    string     `gorm:"column:vendor_name;type:varchar(300);not null" json:"name"`
	Address string     `gorm:"column:address;type:varchar(300);not null;default:''" json:"address"`
	City    string     `gorm:"column:city;type:varchar(200);not null;default:''" json:"city"`
	Zip     string     `gorm:"column:zip;type:varchar(20);not null;default:''" json:"zip"`
	Country string     `gorm:"column:country;type:varchar(100);not null;default:''" json:"country"`
	Version int        `gorm:"column:version;not null;default:1" json:"version"`
}

// TableName specifies the table name for GORM.
func (Vendor) TableName() string {
	return "vendors"
}

// DisplayName returns the vendor name, falling back to the code when the
// name is unknown.
func (v Vendor) DisplayName() string {
	if v.Name == "" {
		return string(v.Code)
	}
	return v.Name
}

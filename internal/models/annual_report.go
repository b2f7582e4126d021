package models

import (
	"github.com/shopspring/decimal"
)

// AnnualReport is the total sales for one (city, vendor, year) triple.
// City and Vendor are populated only by eager-loading reads.
type AnnualReport struct {
	SaleAmount decimal.Decimal `gorm:"column:sale_amount;type:numeric(18,2);not null" json:"sale_amount"`
	City       *City           `gorm:"foreignKey:CityID;references:ID;constraint:OnDelete:CASCADE" json:"city,omitempty"`
	Vendor     *Vendor         `gorm:"foreignKey:VendorCode;references:Code;constraint:OnDelete:CASCADE" json:"vendor,omitempty"`
	VendorCode VendorCode      `gorm:"column:vendor_code;type:varchar(50);not null;index" json:"vendor_code"`
	ID         int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CityID     int64           `gorm:"column:city_id;not null;index" json:"city_id"`
	Year       int             `gorm:"column:year;not null" json:"year"`
	Version    int             `gorm:"column:version;not null;default:1" json:"version"`
}

// TableName specifies the table name for GORM.
func (AnnualReport) TableName() string {
	return "annual_reports"
}

// AnnualSaleAmount has the same shape as AnnualReport but lives in its own
// table and is only ever entered by users.
type AnnualSaleAmount AnnualReport

// TableName specifies the table name for GORM.
func (AnnualSaleAmount) TableName() string {
	return "annual_sale_amounts"
}

// Integer digits each numeric column can hold: numeric(18,2) keeps 16 and
// numeric(18,4) keeps 14.
const (
	CurrencyIntegerDigits = 16
	QuantityIntegerDigits = 14
)

// RoundCurrency rounds an amount to cents.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RoundQuantity rounds to the four places stored for quantities and unit
// prices.
func RoundQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(4)
}

// FitsIntegerDigits reports whether d has at most n digits before the
// decimal point. It never rescales d, so it is safe on extreme exponents.
func FitsIntegerDigits(d decimal.Decimal, n int) bool {
	if d.IsZero() {
		return true
	}
	return d.NumDigits()+int(d.Exponent()) <= n
}

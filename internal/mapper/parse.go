package mapper

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/procurement/internal/models"
	"github.com/stwalsh4118/procurement/internal/socrata"
)

// dateLayouts are tried in order. The first is the Socrata floating timestamp.
var dateLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"01/02/2006",
}

var amountReplacer = strings.NewReplacer("$", "", ",", "")

// maxAmountScale bounds the fractional digits ParseAmount accepts. Rounding a
// value with a larger negative exponent allocates a power of ten that size.
const maxAmountScale = 30

// ParseAmount reads a non-negative decimal from a loosely typed column.
// Absent, unparsable and negative values are reported as null, as are values
// too large for a numeric(18,4) column or with more than 30 decimal places.
func ParseAmount(f socrata.Field) decimal.NullDecimal {
	s := amountReplacer.Replace(f.Trimmed())
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.NullDecimal{}
	}
	if d.Exponent() < -maxAmountScale || !models.FitsIntegerDigits(d, models.QuantityIntegerDigits) {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func roundNull(n decimal.NullDecimal, round func(decimal.Decimal) decimal.Decimal) decimal.NullDecimal {
	if !n.Valid {
		return n
	}
	return decimal.NewNullDecimal(round(n.Decimal))
}

// ParseDate reads a calendar date. ok is false when the column is absent or
// matches none of the accepted layouts.
func ParseDate(f socrata.Field) (t time.Time, ok bool) {
	s := f.Trimmed()
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

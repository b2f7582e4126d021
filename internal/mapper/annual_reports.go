package mapper

import (
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/procurement/internal/models"
	"github.com/stwalsh4118/procurement/internal/socrata"
)

// AnnualAggregate is a derived annual sales total that has not been matched
// to local records yet. City holds only the trimmed name.
type AnnualAggregate struct {
	SaleAmount decimal.Decimal
	VendorCode models.VendorCode
	// VendorName is the first non-empty vendor name seen for VendorCode
	// anywhere in the input, or "" when none was.
	VendorName string
	City       models.City
	Year       int
}

type aggregateKey struct {
	vendor models.VendorCode
	city   string
	year   int
}

// AnnualReports sums line contributions per (vendor code, city, award year).
// Rows without a vendor code, a city or a parsable award date are left out.
// Aggregates are returned in the order their key is first seen.
func AnnualReports(rows []socrata.Row, opts ...Option) []AnnualAggregate {
	o := newOptions(opts)

	names := vendorNames(rows)
	aggregates := make([]AnnualAggregate, 0)
	index := make(map[aggregateKey]int)

	for i, row := range rows {
		skip := Skip{Index: i, PurchaseOrder: row.PurchaseOrder.Trimmed()}

		vendor := models.VendorCode(row.VendorCode.Trimmed())
		if vendor == "" {
			skip.Reason = ReasonMissingVendor
			o.onSkip(skip)
			continue
		}
		city := models.NormalizeCityName(row.City.String())
		if city == "" {
			skip.Reason = ReasonMissingCity
			o.onSkip(skip)
			continue
		}
		awarded, ok := ParseDate(row.AwardDate)
		if !ok {
			skip.Reason = ReasonMissingAwardDate
			o.onSkip(skip)
			continue
		}

		key := aggregateKey{vendor: vendor, city: city, year: awarded.Year()}
		pos, ok := index[key]
		if !ok {
			pos = len(aggregates)
			index[key] = pos
			aggregates = append(aggregates, AnnualAggregate{
				VendorCode: vendor,
				VendorName: names[vendor],
				City:       models.City{Name: city},
				Year:       key.year,
				SaleAmount: decimal.Zero,
			})
		}
		sum := aggregates[pos].SaleAmount.Add(LineContribution(row))
		if !models.FitsIntegerDigits(sum, models.CurrencyIntegerDigits) {
			skip.Reason = ReasonAmountOverflow
			o.onSkip(skip)
			continue
		}
		aggregates[pos].SaleAmount = sum
	}

	return aggregates
}

// LineContribution is the amount a row adds to its annual total: the line
// total when known, otherwise unit price times quantity when both are known,
// otherwise zero. The result is rounded to cents. A product too large to
// store counts as zero.
func LineContribution(row socrata.Row) decimal.Decimal {
	if total := ParseAmount(row.LineItemTotalAmount); total.Valid {
		return models.RoundCurrency(total.Decimal)
	}

	price := ParseAmount(row.UnitPrice)
	qty := ParseAmount(row.QuantityOrdered)
	if price.Valid && qty.Valid {
		product := models.RoundCurrency(price.Decimal.Mul(qty.Decimal))
		if models.FitsIntegerDigits(product, models.CurrencyIntegerDigits) {
			return product
		}
	}
	return decimal.Zero
}

func vendorNames(rows []socrata.Row) map[models.VendorCode]string {
	names := make(map[models.VendorCode]string)
	for _, row := range rows {
		code := models.VendorCode(row.VendorCode.Trimmed())
		if code == "" {
			continue
		}
		if _, ok := names[code]; ok {
			continue
		}
		if name := row.Vendor.Trimmed(); name != "" {
			names[code] = name
		}
	}
	return names
}

// Package mapper turns flat open-data rows into purchase orders and annual
// sales aggregates. It performs no I/O.
package mapper

import (
	"github.com/stwalsh4118/procurement/internal/models"
	"github.com/stwalsh4118/procurement/internal/socrata"
)

// Skip reasons reported through OnSkip.
const (
	ReasonMissingPurchaseOrder = "missing purchase order number"
	ReasonMissingCommodity     = "missing commodity id"
	ReasonDuplicateCommodity   = "duplicate commodity id in purchase order"
	ReasonMissingVendor        = "missing vendor code"
	ReasonMissingCity          = "missing city"
	ReasonMissingAwardDate     = "missing or unparsable award date"
	ReasonAmountOverflow       = "annual total exceeds storable amount"
)

// Skip describes a row left out of the output.
type Skip struct {
	PurchaseOrder string
	Reason        string
	Index         int
}

// Option configures a mapping call.
type Option func(*options)

type options struct {
	onSkip func(Skip)
}

// OnSkip registers fn to be called for every dropped row.
func OnSkip(fn func(Skip)) Option {
	return func(o *options) {
		o.onSkip = fn
	}
}

func newOptions(opts []Option) *options {
	o := &options{onSkip: func(Skip) {}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// PurchaseOrders groups rows by purchase order number. Groups appear in the
// order their number is first seen and take header fields from their first
// row. Each row with a commodity id becomes one line; rows without one are
// dropped, so an order may end up with no lines. Only the first line per
// commodity is kept.
func PurchaseOrders(rows []socrata.Row, opts ...Option) []models.PurchaseOrder {
	o := newOptions(opts)

	orders := make([]models.PurchaseOrder, 0)
	index := make(map[models.PurchaseOrderNumber]int)
	seen := make(map[models.PurchaseOrderNumber]map[models.CommodityID]struct{})

	for i, row := range rows {
		number := models.PurchaseOrderNumber(row.PurchaseOrder.Trimmed())
		if number == "" {
			o.onSkip(Skip{Index: i, Reason: ReasonMissingPurchaseOrder})
			continue
		}

		pos, ok := index[number]
		if !ok {
			pos = len(orders)
			index[number] = pos
			seen[number] = make(map[models.CommodityID]struct{})
			orders = append(orders, header(number, row))
		}

		commodity := models.CommodityID(row.CommodityID.Trimmed())
		if commodity == "" {
			o.onSkip(Skip{Index: i, PurchaseOrder: string(number), Reason: ReasonMissingCommodity})
			continue
		}
		if _, dup := seen[number][commodity]; dup {
			o.onSkip(Skip{Index: i, PurchaseOrder: string(number), Reason: ReasonDuplicateCommodity})
			continue
		}
		seen[number][commodity] = struct{}{}

		orders[pos].Lines = append(orders[pos].Lines, line(number, commodity, row))
	}

	return orders
}

// PurchaseOrder maps the rows of a single order. It returns nil when no row
// carries a purchase order number.
func PurchaseOrder(rows []socrata.Row, opts ...Option) *models.PurchaseOrder {
	orders := PurchaseOrders(rows, opts...)
	if len(orders) == 0 {
		return nil
	}
	return &orders[0]
}

func header(number models.PurchaseOrderNumber, row socrata.Row) models.PurchaseOrder {
	po := models.PurchaseOrder{
		Number: number,
		Lines:  []models.PurchaseOrderLine{},
	}

	if code := models.VendorCode(row.VendorCode.Trimmed()); code != "" {
		po.VendorCode = &code
		po.Vendor = &models.Vendor{
			Code:    code,
			Name:    row.Vendor.Trimmed(),
			Address: row.Address.Trimmed(),
			City:    models.NormalizeCityName(row.City.String()),
			Zip:     row.Zip.Trimmed(),
			Country: row.Country.Trimmed(),
		}
	}

	if code := models.AgreementCode(row.MasterAgreement.Trimmed()); code != "" {
		po.AgreementCode = &code
		po.Agreement = &models.MasterAgreement{
			Code:         code,
			ContractName: row.ContractName.Trimmed(),
		}
		if awarded, ok := ParseDate(row.AwardDate); ok {
			po.Agreement.AwardDate = &awarded
		}
	}

	return po
}

func line(number models.PurchaseOrderNumber, commodity models.CommodityID, row socrata.Row) models.PurchaseOrderLine {
	return models.PurchaseOrderLine{
		PurchaseOrderNumber: number,
		CommodityID:         commodity,
		Commodity: &models.Commodity{
			ID:          commodity,
			Description: row.CommodityDescription.Trimmed(),
		},
		Description:              row.LineItemDescription.Trimmed(),
		QuantityOrdered:          roundNull(ParseAmount(row.QuantityOrdered), models.RoundQuantity),
		UnitOfMeasureCode:        row.UnitOfMeasureCode.Trimmed(),
		UnitOfMeasureDescription: row.UnitOfMeasureDescription.Trimmed(),
		UnitPrice:                roundNull(ParseAmount(row.UnitPrice), models.RoundQuantity),
		LineTotal:                roundNull(ParseAmount(row.LineItemTotalAmount), models.RoundCurrency),
	}
}

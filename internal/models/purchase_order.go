package models

import (
	"github.com/shopspring/decimal"
)

// PurchaseOrder is an order header with its ordered line items.
type PurchaseOrder struct {
	VendorCode    *VendorCode         `gorm:"column:vendor_code;type:varchar(50);index" json:"vendor_code,omitempty"`
	AgreementCode *AgreementCode      `gorm:"column:master_agreement;type:varchar(100);index" json:"master_agreement,omitempty"`
	Vendor        *Vendor             `gorm:"foreignKey:VendorCode;references:Code" json:"vendor,omitempty"`
	Agreement     *MasterAgreement    `gorm:"foreignKey:AgreementCode;references:Code" json:"agreement,omitempty"`
	Number        PurchaseOrderNumber `gorm:"column:purchase_order;primaryKey;type:varchar(50)" json:"purchase_order"`
	Lines         []PurchaseOrderLine `gorm:"foreignKey:PurchaseOrderNumber;references:Number;constraint:OnDelete:CASCADE" json:"lines"`
}

// TableName specifies the table name for GORM.
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// Total sums the known line totals. Lines with an unknown total are ignored.
func (po PurchaseOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range po.Lines {
		if line.LineTotal.Valid {
			total = total.Add(line.LineTotal.Decimal)
		}
	}
	return RoundCurrency(total)
}

// PurchaseOrderLine is keyed by (purchase order, commodity). Numeric fields
// are null when the source value was absent or unparsable.
type PurchaseOrderLine struct {
	QuantityOrdered          decimal.NullDecimal `gorm:"column:quantity_ordered;type:numeric(18,4)" json:"quantity_ordered"`
	UnitPrice                decimal.NullDecimal `gorm:"column:unit_price;type:numeric(18,4)" json:"unit_price"`
	LineTotal                decimal.NullDecimal `gorm:"column:line_item_total_amount;type:numeric(18,2)" json:"line_item_total_amount"`
	Commodity                *Commodity          `gorm:"foreignKey:CommodityID;references:ID" json:"commodity,omitempty"`
	PurchaseOrderNumber      PurchaseOrderNumber `gorm:"column:purchase_order;primaryKey;type:varchar(50)" json:"purchase_order"`
	CommodityID              CommodityID         `gorm:"column:commodity_id;primaryKey;type:varchar(50)" json:"commodity_id"`
	Description              string              `gorm:"column:line_item_description;type:text;not null;default:''" json:"description"`
	UnitOfMeasureCode        string              `gorm:"column:unit_of_measure_code;type:varchar(50);not null;default:''" json:"unit_of_measure_code"`
	UnitOfMeasureDescription string              `gorm:"column:unit_of_measure_description;type:varchar(200);not null;default:''" json:"unit_of_measure_description"`
}

// TableName specifies the table name for GORM.
func (PurchaseOrderLine) TableName() string {
	return "purchase_order_lines"
}

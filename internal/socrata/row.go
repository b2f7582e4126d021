package socrata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Field is a loosely typed column value. Socrata serves most columns as JSON
// strings, but numbers and booleans also occur. The raw text is kept and
// interpretation is left to the caller.
type Field struct {
	text  string
	valid bool
}

// F builds a present field holding s.
func F(s string) Field {
	return Field{text: s, valid: true}
}

// UnmarshalJSON accepts a string, number, boolean or null.
func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = Field{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = F(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*f = F(fmt.Sprintf("%t", b))
	case '{', '[':
		return fmt.Errorf("unsupported column value %s", data)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = F(n.String())
	}
	return nil
}

// MarshalJSON writes the field back as a string or null.
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.text)
}

// String returns the raw text, or "" when the column was absent or null.
func (f Field) String() string {
	return f.text
}

// Trimmed returns the raw text without surrounding whitespace.
func (f Field) Trimmed() string {
	return strings.TrimSpace(f.text)
}

// Valid reports whether the column was present and non-null.
func (f Field) Valid() bool {
	return f.valid
}

// Empty reports whether the column is absent, null or blank.
func (f Field) Empty() bool {
	return f.Trimmed() == ""
}

// Row is one purchase-order line joined with its order header, exactly as
// the dataset publishes it.
type Row struct {
	PurchaseOrder            Field `json:"purchase_order"`
	VendorCode               Field `json:"vendor_code"`
	Vendor                   Field `json:"vendor"`
	Address                  Field `json:"address"`
	City                     Field `json:"city"`
	Zip                      Field `json:"zip"`
	Country                  Field `json:"country"`
	MasterAgreement          Field `json:"master_agreement"`
	ContractName             Field `json:"contract_name"`
	AwardDate                Field `json:"award_date"`
	CommodityID              Field `json:"commodity_id"`
	CommodityDescription     Field `json:"commodity_description"`
	LineItemDescription      Field `json:"line_item_description"`
	QuantityOrdered          Field `json:"quantity_ordered"`
	UnitOfMeasureCode        Field `json:"unit_of_measure_code"`
	UnitOfMeasureDescription Field `json:"unit_of_measure_description"`
	UnitPrice                Field `json:"unit_price"`
	LineItemTotalAmount      Field `json:"line_item_total_amount"`
}

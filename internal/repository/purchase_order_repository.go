package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/procurement/internal/database"
	"github.com/stwalsh4118/procurement/internal/models"
)

// PurchaseOrderRepository persists purchase orders as a unit.
type PurchaseOrderRepository interface {
	// Save writes the order, its vendor, agreement and commodities, and
	// replaces its lines, all in one transaction. Existing vendors are left
	// untouched; agreements and commodities take the incoming values.
	Save(ctx context.Context, po *models.PurchaseOrder) error

	// FindByNumber returns nil, nil when the order has not been saved.
	FindByNumber(ctx context.Context, number models.PurchaseOrderNumber) (*models.PurchaseOrder, error)
}

type purchaseOrderRepository struct {
	db *database.Database
}

// NewPurchaseOrderRepository creates a new instance of PurchaseOrderRepository.
func NewPurchaseOrderRepository(db *database.Database) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Save(ctx context.Context, po *models.PurchaseOrder) error {
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if po.Vendor != nil {
			v := po.Vendor
			if _, err := tx.Exec(ctx, `
				INSERT INTO vendors (vendor_code, vendor_name, address, city, zip, country, version)
				VALUES ($1, $2, $3, $4, $5, $6, 1)
				ON CONFLICT (vendor_code) DO NOTHING`,
				string(v.Code), v.DisplayName(), v.Address, v.City, v.Zip, v.Country,
			); err != nil {
				return fmt.Errorf("upsert vendor: %w", classify(err))
			}
		}

		if po.Agreement != nil {
			a := po.Agreement
			if _, err := tx.Exec(ctx, `
				INSERT INTO master_agreements (master_agreement, contract_name, award_date)
				VALUES ($1, $2, $3)
				ON CONFLICT (master_agreement) DO UPDATE
				SET contract_name = EXCLUDED.contract_name,
				    award_date = COALESCE(EXCLUDED.award_date, master_agreements.award_date)`,
				string(a.Code), a.ContractName, a.AwardDate,
			); err != nil {
				return fmt.Errorf("upsert master agreement: %w", classify(err))
			}
		}

		var vendorCode, agreementCode *string
		if po.VendorCode != nil {
			s := string(*po.VendorCode)
			vendorCode = &s
		}
		if po.AgreementCode != nil {
			s := string(*po.AgreementCode)
			agreementCode = &s
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO purchase_orders (purchase_order, vendor_code, master_agreement)
			VALUES ($1, $2, $3)
			ON CONFLICT (purchase_order) DO UPDATE
			SET vendor_code = EXCLUDED.vendor_code, master_agreement = EXCLUDED.master_agreement`,
			string(po.Number), vendorCode, agreementCode,
		); err != nil {
			return fmt.Errorf("upsert purchase order: %w", classify(err))
		}

		if _, err := tx.Exec(ctx, `DELETE FROM purchase_order_lines WHERE purchase_order = $1`, string(po.Number)); err != nil {
			return fmt.Errorf("clear purchase order lines: %w", err)
		}

		if len(po.Lines) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, line := range po.Lines {
			description := ""
			if line.Commodity != nil {
				description = line.Commodity.Description
			}
			batch.Queue(`
				INSERT INTO commodities (commodity_id, commodity_description)
				VALUES ($1, $2)
				ON CONFLICT (commodity_id) DO UPDATE
				SET commodity_description = EXCLUDED.commodity_description`,
				string(line.CommodityID), description)
		}
		for _, line := range po.Lines {
			batch.Queue(`
				INSERT INTO purchase_order_lines
					(purchase_order, commodity_id, line_item_description, quantity_ordered,
					 unit_of_measure_code, unit_of_measure_description, unit_price, line_item_total_amount)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				string(po.Number), string(line.CommodityID), line.Description, line.QuantityOrdered,
				line.UnitOfMeasureCode, line.UnitOfMeasureDescription, line.UnitPrice, line.LineTotal)
		}
		if _, err := execBatch(ctx, tx, batch); err != nil {
			return fmt.Errorf("insert purchase order lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save purchase order %q: %w", po.Number, err)
	}
	return nil
}

func (r *purchaseOrderRepository) FindByNumber(ctx context.Context, number models.PurchaseOrderNumber) (*models.PurchaseOrder, error) {
	var (
		po            = models.PurchaseOrder{Number: number}
		vendorCode    *string
		vendorName    *string
		vendorAddress *string
		vendorCity    *string
		vendorZip     *string
		vendorCountry *string
		vendorVersion *int
		agreementCode *string
		contractName  *string
		awardDate     *time.Time
	)

	err := r.db.Pool.QueryRow(ctx, `
		SELECT
			po.vendor_code, v.vendor_name, v.address, v.city, v.zip, v.country, v.version,
			po.master_agreement, a.contract_name, a.award_date
		FROM purchase_orders po
		LEFT JOIN vendors v ON v.vendor_code = po.vendor_code
		LEFT JOIN master_agreements a ON a.master_agreement = po.master_agreement
		WHERE po.purchase_order = $1`, string(number),
	).Scan(
		&vendorCode, &vendorName, &vendorAddress, &vendorCity, &vendorZip, &vendorCountry, &vendorVersion,
		&agreementCode, &contractName, &awardDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query purchase order %q: %w", number, err)
	}

	if vendorCode != nil {
		code := models.VendorCode(*vendorCode)
		po.VendorCode = &code
		if vendorName != nil {
			po.Vendor = &models.Vendor{
				Code:    code,
				Name:    *vendorName,
				Address: deref(vendorAddress),
				City:    deref(vendorCity),
				Zip:     deref(vendorZip),
				Country: deref(vendorCountry),
			}
			if vendorVersion != nil {
				po.Vendor.Version = *vendorVersion
			}
		}
	}
	if agreementCode != nil {
		code := models.AgreementCode(*agreementCode)
		po.AgreementCode = &code
		if contractName != nil {
			po.Agreement = &models.MasterAgreement{Code: code, ContractName: *contractName, AwardDate: awardDate}
		}
	}

	lines, err := r.lines(ctx, number)
	if err != nil {
		return nil, err
	}
	po.Lines = lines
	return &po, nil
}

func (r *purchaseOrderRepository) lines(ctx context.Context, number models.PurchaseOrderNumber) ([]models.PurchaseOrderLine, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT
			l.commodity_id, c.commodity_description, l.line_item_description, l.quantity_ordered,
			l.unit_of_measure_code, l.unit_of_measure_description, l.unit_price, l.line_item_total_amount
		FROM purchase_order_lines l
		LEFT JOIN commodities c ON c.commodity_id = l.commodity_id
		WHERE l.purchase_order = $1
		ORDER BY l.commodity_id`, string(number))
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of purchase order %q: %w", number, err)
	}
	defer rows.Close()

	lines := make([]models.PurchaseOrderLine, 0)
	for rows.Next() {
		var (
			line      = models.PurchaseOrderLine{PurchaseOrderNumber: number}
			commodity *string
		)
		if err := rows.Scan(
			&line.CommodityID, &commodity, &line.Description, &line.QuantityOrdered,
			&line.UnitOfMeasureCode, &line.UnitOfMeasureDescription, &line.UnitPrice, &line.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan purchase order line: %w", err)
		}
		if commodity != nil {
			line.Commodity = &models.Commodity{ID: line.CommodityID, Description: *commodity}
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

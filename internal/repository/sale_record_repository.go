package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/procurement/internal/database"
	"github.com/stwalsh4118/procurement/internal/models"
)

// Tables sharing the sale record shape.
const (
	AnnualReportsTable     = "annual_reports"
	AnnualSaleAmountsTable = "annual_sale_amounts"
)

// SaleRecordRepository defines data access for a table of
// (city, vendor, year, amount) records. Reads eager-load City and Vendor.
type SaleRecordRepository interface {
	// List returns all records, newest year first.
	List(ctx context.Context) ([]models.AnnualReport, error)

	// FindByID returns nil, nil when the record does not exist.
	FindByID(ctx context.Context, id int64) (*models.AnnualReport, error)

	// Create inserts the record and sets its ID and Version. A missing city
	// or vendor yields ErrForeignKeyViolation.
	Create(ctx context.Context, record *models.AnnualReport) error

	// Update is version-checked and returns ErrVersionMismatch when the
	// stored version differs or the row is gone.
	Update(ctx context.Context, record *models.AnnualReport) error

	Delete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type saleRecordRepository struct {
	db    *database.Database
	table string
}

// NewAnnualReportRepository returns a SaleRecordRepository over annual_reports.
func NewAnnualReportRepository(db *database.Database) SaleRecordRepository {
	return &saleRecordRepository{db: db, table: AnnualReportsTable}
}

// NewAnnualSaleAmountRepository returns a SaleRecordRepository over
// annual_sale_amounts.
func NewAnnualSaleAmountRepository(db *database.Database) SaleRecordRepository {
	return &saleRecordRepository{db: db, table: AnnualSaleAmountsTable}
}

func (r *saleRecordRepository) selectSQL() string {
	return fmt.Sprintf(`
		SELECT
			r.id, r.city_id, r.vendor_code, r.year, r.sale_amount, r.version,
			c.city_name, c.version,
			v.vendor_name, v.address, v.city, v.zip, v.country, v.version
		FROM %s r
		JOIN cities c ON c.city_id = r.city_id
		JOIN vendors v ON v.vendor_code = r.vendor_code`, r.table)
}

func scanSaleRecord(row pgx.Row) (*models.AnnualReport, error) {
	var (
		rec    models.AnnualReport
		city   models.City
		vendor models.Vendor
	)
	err := row.Scan(
		&rec.ID, &rec.CityID, &rec.VendorCode, &rec.Year, &rec.SaleAmount, &rec.Version,
		&city.Name, &city.Version,
		&vendor.Name, &vendor.Address, &vendor.City, &vendor.Zip, &vendor.Country, &vendor.Version,
	)
	if err != nil {
		return nil, err
	}
	city.ID = rec.CityID
	vendor.Code = rec.VendorCode
	rec.City = &city
	rec.Vendor = &vendor
	return &rec, nil
}

func (r *saleRecordRepository) List(ctx context.Context) ([]models.AnnualReport, error) {
	rows, err := r.db.Pool.Query(ctx, r.selectSQL()+` ORDER BY r.year DESC, r.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.table, err)
	}
	defer rows.Close()

	records := make([]models.AnnualReport, 0)
	for rows.Next() {
		rec, err := scanSaleRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", r.table, err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", r.table, err)
	}
	return records, nil
}

func (r *saleRecordRepository) FindByID(ctx context.Context, id int64) (*models.AnnualReport, error) {
	rec, err := scanSaleRecord(r.db.Pool.QueryRow(ctx, r.selectSQL()+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query %s %d: %w", r.table, id, err)
	}
	return rec, nil
}

func (r *saleRecordRepository) Create(ctx context.Context, record *models.AnnualReport) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (city_id, vendor_code, year, sale_amount, version)
		VALUES ($1, $2, $3, $4, 1)
		RETURNING id, version`, r.table)

	err := r.db.Pool.QueryRow(ctx, query,
		record.CityID, string(record.VendorCode), record.Year, record.SaleAmount,
	).Scan(&record.ID, &record.Version)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", r.table, classify(err))
	}
	return nil
}

func (r *saleRecordRepository) Update(ctx context.Context, record *models.AnnualReport) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET city_id = $1, vendor_code = $2, year = $3, sale_amount = $4, version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version`, r.table)

	err := r.db.Pool.QueryRow(ctx, query,
		record.CityID, string(record.VendorCode), record.Year, record.SaleAmount,
		record.ID, record.Version,
	).Scan(&record.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrVersionMismatch
		}
		return fmt.Errorf("failed to update %s %d: %w", r.table, record.ID, classify(err))
	}
	return nil
}

func (r *saleRecordRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s %d: %w", r.table, id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *saleRecordRepository) Exists(ctx context.Context, id int64) (bool, error) {
	found, err := exists(ctx, r.db.Pool,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, r.table), id)
	if err != nil {
		return false, fmt.Errorf("failed to check %s %d: %w", r.table, id, err)
	}
	return found, nil
}

func (r *saleRecordRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.Pool.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, r.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", r.table, err)
	}
	return n, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/procurement/internal/database"
	"github.com/stwalsh4118/procurement/internal/models"
)

// ImportTx is the data access available inside an import transaction.
type ImportTx interface {
	// Cities returns every stored city.
	Cities(ctx context.Context) ([]models.City, error)

	// Vendors returns every stored vendor.
	Vendors(ctx context.Context) ([]models.Vendor, error)

	InsertVendors(ctx context.Context, vendors []models.Vendor) error

	// InsertCities creates one city per name and returns them with their
	// generated IDs. Result order is unspecified.
	InsertCities(ctx context.Context, names []string) ([]models.City, error)

	// InsertAnnualReports returns the number of rows written.
	InsertAnnualReports(ctx context.Context, reports []models.AnnualReport) (int64, error)
}

// ImportFunc performs an import inside the transaction and records its
// counts on run.
type ImportFunc func(ctx context.Context, tx ImportTx, run *models.ImportRun) error

// ImportRepository tracks and executes one-time dataset imports.
type ImportRepository interface {
	// Completed reports whether dataset has a committed import marker.
	Completed(ctx context.Context, dataset string) (bool, error)

	CountAnnualReports(ctx context.Context) (int64, error)

	// Run claims dataset and calls fn in a single transaction. When another
	// import already holds the marker, fn is not called and claimed is
	// false. Any error from fn rolls back the claim along with its writes.
	Run(ctx context.Context, dataset string, fn ImportFunc) (claimed bool, err error)
}

type importRepository struct {
	db *database.Database
}

// NewImportRepository creates a new instance of ImportRepository.
func NewImportRepository(db *database.Database) ImportRepository {
	return &importRepository{db: db}
}

func (r *importRepository) Completed(ctx context.Context, dataset string) (bool, error) {
	found, err := exists(ctx, r.db.Pool, `SELECT EXISTS (SELECT 1 FROM import_runs WHERE dataset = $1)`, dataset)
	if err != nil {
		return false, fmt.Errorf("failed to check import marker for %q: %w", dataset, err)
	}
	return found, nil
}

func (r *importRepository) CountAnnualReports(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM annual_reports`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count annual reports: %w", err)
	}
	return n, nil
}

func (r *importRepository) Run(ctx context.Context, dataset string, fn ImportFunc) (bool, error) {
	claimed := false
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		// Blocks behind a concurrent uncommitted claim on the same dataset.
		tag, err := tx.Exec(ctx, `
			INSERT INTO import_runs (dataset, completed_at, row_count, vendors_created, cities_created, reports_created)
			VALUES ($1, now(), 0, 0, 0, 0)
			ON CONFLICT (dataset) DO NOTHING`, dataset)
		if err != nil {
			return fmt.Errorf("claim import marker: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		claimed = true

		run := &models.ImportRun{Dataset: dataset}
		if err := fn(ctx, &importTx{tx: tx}, run); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE import_runs
			SET completed_at = now(), row_count = $2, vendors_created = $3, cities_created = $4, reports_created = $5
			WHERE dataset = $1`,
			dataset, run.RowCount, run.VendorsCreated, run.CitiesCreated, run.ReportsCreated)
		if err != nil {
			return fmt.Errorf("record import marker: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("import of %q failed: %w", dataset, err)
	}
	return claimed, nil
}

type importTx struct {
	tx pgx.Tx
}

func (t *importTx) Cities(ctx context.Context) ([]models.City, error) {
	cities, err := queryCities(ctx, t.tx, citySelect)
	if err != nil {
		return nil, fmt.Errorf("load cities: %w", err)
	}
	return cities, nil
}

func (t *importTx) Vendors(ctx context.Context) ([]models.Vendor, error) {
	vendors, err := queryVendors(ctx, t.tx, vendorSelect)
	if err != nil {
		return nil, fmt.Errorf("load vendors: %w", err)
	}
	return vendors, nil
}

func (t *importTx) InsertVendors(ctx context.Context, vendors []models.Vendor) error {
	if len(vendors) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, v := range vendors {
		batch.Queue(`
			INSERT INTO vendors (vendor_code, vendor_name, address, city, zip, country, version)
			VALUES ($1, $2, $3, $4, $5, $6, 1)`,
			string(v.Code), v.Name, v.Address, v.City, v.Zip, v.Country)
	}
	if _, err := execBatch(ctx, t.tx, batch); err != nil {
		return fmt.Errorf("insert vendors: %w", err)
	}
	return nil
}

func (t *importTx) InsertCities(ctx context.Context, names []string) ([]models.City, error) {
	if len(names) == 0 {
		return []models.City{}, nil
	}
	cities, err := queryCities(ctx, t.tx, `
		INSERT INTO cities (city_name, version)
		SELECT name, 1 FROM unnest($1::text[]) AS name
		RETURNING city_id, city_name, version`, names)
	if err != nil {
		return nil, fmt.Errorf("insert cities: %w", classify(err))
	}
	return cities, nil
}

func (t *importTx) InsertAnnualReports(ctx context.Context, reports []models.AnnualReport) (int64, error) {
	if len(reports) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for _, rep := range reports {
		batch.Queue(`
			INSERT INTO annual_reports (city_id, vendor_code, year, sale_amount, version)
			VALUES ($1, $2, $3, $4, 1)`,
			rep.CityID, string(rep.VendorCode), rep.Year, rep.SaleAmount)
	}
	n, err := execBatch(ctx, t.tx, batch)
	if err != nil {
		return n, fmt.Errorf("insert annual reports: %w", err)
	}
	return n, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/procurement/internal/database"
	"github.com/stwalsh4118/procurement/internal/models"
)

// VendorRepository defines data access for vendors, keyed by vendor code.
type VendorRepository interface {
	// List returns all vendors ordered by name, then code.
	List(ctx context.Context) ([]models.Vendor, error)

	// FindByCode returns nil, nil when the vendor does not exist.
	FindByCode(ctx context.Context, code models.VendorCode) (*models.Vendor, error)

	// Create inserts the vendor. A taken code yields ErrUniqueViolation.
	Create(ctx context.Context, vendor *models.Vendor) error

	// Update is version-checked like CityRepository.Update.
	Update(ctx context.Context, vendor *models.Vendor) error

	Delete(ctx context.Context, code models.VendorCode) (bool, error)
	Exists(ctx context.Context, code models.VendorCode) (bool, error)
}

type vendorRepository struct {
	db *database.Database
}

// NewVendorRepository creates a new instance of VendorRepository.
func NewVendorRepository(db *database.Database) VendorRepository {
	return &vendorRepository{db: db}
}

const vendorSelect = `SELECT vendor_code, vendor_name, address, city, zip, country, version FROM vendors`

func (r *vendorRepository) List(ctx context.Context) ([]models.Vendor, error) {
	vendors, err := queryVendors(ctx, r.db.Pool, vendorSelect+` ORDER BY vendor_name, vendor_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	return vendors, nil
}

func (r *vendorRepository) FindByCode(ctx context.Context, code models.VendorCode) (*models.Vendor, error) {
	var v models.Vendor
	err := r.db.Pool.QueryRow(ctx, vendorSelect+` WHERE vendor_code = $1`, string(code)).
		Scan(&v.Code, &v.Name, &v.Address, &v.City, &v.Zip, &v.Country, &v.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query vendor %q: %w", code, err)
	}
	return &v, nil
}

func (r *vendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO vendors (vendor_code, vendor_name, address, city, zip, country, version)
		 VALUES ($1, $2, $3, $4, $5, $6, 1)
		 RETURNING version`,
		string(vendor.Code), vendor.Name, vendor.Address, vendor.City, vendor.Zip, vendor.Country,
	).Scan(&vendor.Version)
	if err != nil {
		return fmt.Errorf("failed to insert vendor %q: %w", vendor.Code, classify(err))
	}
	return nil
}

func (r *vendorRepository) Update(ctx context.Context, vendor *models.Vendor) error {
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE vendors
		 SET vendor_name = $1, address = $2, city = $3, zip = $4, country = $5, version = version + 1
		 WHERE vendor_code = $6 AND version = $7
		 RETURNING version`,
		vendor.Name, vendor.Address, vendor.City, vendor.Zip, vendor.Country,
		string(vendor.Code), vendor.Version,
	).Scan(&vendor.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrVersionMismatch
		}
		return fmt.Errorf("failed to update vendor %q: %w", vendor.Code, classify(err))
	}
	return nil
}

func (r *vendorRepository) Delete(ctx context.Context, code models.VendorCode) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM vendors WHERE vendor_code = $1`, string(code))
	if err != nil {
		return false, fmt.Errorf("failed to delete vendor %q: %w", code, classify(err))
	}
	return tag.RowsAffected() > 0, nil
}

func (r *vendorRepository) Exists(ctx context.Context, code models.VendorCode) (bool, error) {
	found, err := exists(ctx, r.db.Pool, `SELECT EXISTS (SELECT 1 FROM vendors WHERE vendor_code = $1)`, string(code))
	if err != nil {
		return false, fmt.Errorf("failed to check vendor %q: %w", code, err)
	}
	return found, nil
}

func queryVendors(ctx context.Context, q querier, query string, args ...any) ([]models.Vendor, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vendors := make([]models.Vendor, 0)
	for rows.Next() {
		var v models.Vendor
		if err := rows.Scan(&v.Code, &v.Name, &v.Address, &v.City, &v.Zip, &v.Country, &v.Version); err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

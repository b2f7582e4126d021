package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/procurement/internal/database"
	"github.com/stwalsh4118/procurement/internal/models"
)

// YearTotal is the summed sale amount for one year.
type YearTotal struct {
	Total decimal.Decimal
	Year  int
}

// VendorTotal is the summed sale amount for one vendor.
type VendorTotal struct {
	Total      decimal.Decimal
	VendorCode models.VendorCode
	VendorName string
}

// CityTotal is the summed sale amount for one city.
type CityTotal struct {
	Total    decimal.Decimal
	CityName string
	CityID   int64
}

// SalesSummaryRepository runs grouped sums over annual reports.
type SalesSummaryRepository interface {
	// ByYear is ordered by year ascending.
	ByYear(ctx context.Context) ([]YearTotal, error)

	// ByVendor is ordered by total descending, then vendor code.
	ByVendor(ctx context.Context) ([]VendorTotal, error)

	// ByCity is ordered by total descending, then city name.
	ByCity(ctx context.Context) ([]CityTotal, error)
}

type salesSummaryRepository struct {
	db *database.Database
}

// NewSalesSummaryRepository creates a new instance of SalesSummaryRepository.
func NewSalesSummaryRepository(db *database.Database) SalesSummaryRepository {
	return &salesSummaryRepository{db: db}
}

func (r *salesSummaryRepository) ByYear(ctx context.Context) ([]YearTotal, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT year, SUM(sale_amount)
		FROM annual_reports
		GROUP BY year
		ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("failed to sum sales by year: %w", err)
	}
	defer rows.Close()

	out := make([]YearTotal, 0)
	for rows.Next() {
		var t YearTotal
		if err := rows.Scan(&t.Year, &t.Total); err != nil {
			return nil, fmt.Errorf("failed to scan year total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *salesSummaryRepository) ByVendor(ctx context.Context) ([]VendorTotal, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT r.vendor_code, v.vendor_name, SUM(r.sale_amount) AS total
		FROM annual_reports r
		JOIN vendors v ON v.vendor_code = r.vendor_code
		GROUP BY r.vendor_code, v.vendor_name
		ORDER BY total DESC, r.vendor_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to sum sales by vendor: %w", err)
	}
	defer rows.Close()

	out := make([]VendorTotal, 0)
	for rows.Next() {
		var t VendorTotal
		if err := rows.Scan(&t.VendorCode, &t.VendorName, &t.Total); err != nil {
			return nil, fmt.Errorf("failed to scan vendor total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *salesSummaryRepository) ByCity(ctx context.Context) ([]CityTotal, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT c.city_id, c.city_name, SUM(r.sale_amount) AS total
		FROM annual_reports r
		JOIN cities c ON c.city_id = r.city_id
		GROUP BY c.city_id, c.city_name
		ORDER BY total DESC, c.city_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to sum sales by city: %w", err)
	}
	defer rows.Close()

	out := make([]CityTotal, 0)
	for rows.Next() {
		var t CityTotal
		if err := rows.Scan(&t.CityID, &t.CityName, &t.Total); err != nil {
			return nil, fmt.Errorf("failed to scan city total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

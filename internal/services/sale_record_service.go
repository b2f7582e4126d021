package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/procurement/internal/logger"
	"github.com/stwalsh4118/procurement/internal/models"
	"github.com/stwalsh4118/procurement/internal/repository"
)

// Year bounds accepted for sale records.
const (
	MinSaleYear = 1900
	MaxSaleYear = 2100
)

// SaleRecordInput is the user-editable part of a sale record.
type SaleRecordInput struct {
	SaleAmount decimal.Decimal
	VendorCode models.VendorCode
	CityID     int64
	Year       int
	// Version is the version the caller read; required for updates.
	Version int
}

// FormOptions lists the choices for a sale record's city and vendor.
type FormOptions struct {
	Cities  []models.City   `json:"cities"`
	Vendors []models.Vendor `json:"vendors"`
}

// SaleRecordService manages annual reports or annual sale amounts.
type SaleRecordService interface {
	// List returns all records with city and vendor loaded. For annual
	// reports it first runs the one-time open data import.
	List(ctx context.Context) ([]models.AnnualReport, error)

	Get(ctx context.Context, id int64) (*models.AnnualReport, error)
	Create(ctx context.Context, in SaleRecordInput) (*models.AnnualReport, error)

	// Update returns ErrConflict when the record changed since in.Version
	// was read, or ErrNotFound when it has been deleted.
	Update(ctx context.Context, id int64, in SaleRecordInput) (*models.AnnualReport, error)

	Delete(ctx context.Context, id int64) error
	FormOptions(ctx context.Context) (*FormOptions, error)
}

type saleRecordService struct {
	records  repository.SaleRecordRepository
	cities   repository.CityRepository
	vendors  repository.VendorRepository
	importer Importer
	log      *logger.Logger
}

// NewAnnualReportService returns a SaleRecordService whose List triggers the
// open data import on first use.
func NewAnnualReportService(records repository.SaleRecordRepository, cities repository.CityRepository,
	vendors repository.VendorRepository, importer Importer, log *logger.Logger) SaleRecordService {
	return &saleRecordService{
		records:  records,
		cities:   cities,
		vendors:  vendors,
		importer: importer,
		log:      log.WithComponent("annual_reports"),
	}
}

// NewAnnualSaleAmountService returns a SaleRecordService for user-entered
// annual sale amounts.
func NewAnnualSaleAmountService(records repository.SaleRecordRepository, cities repository.CityRepository,
	vendors repository.VendorRepository, log *logger.Logger) SaleRecordService {
	return &saleRecordService{
		records: records,
		cities:  cities,
		vendors: vendors,
		log:     log.WithComponent("annual_sale_amounts"),
	}
}

func (s *saleRecordService) List(ctx context.Context) ([]models.AnnualReport, error) {
	if s.importer != nil {
		if _, err := s.importer.EnsureImported(ctx); err != nil {
			return nil, err
		}
	}

	records, err := s.records.List(ctx)
	if err != nil {
		s.log.Error("Failed to list sale records", err, nil)
		return nil, fmt.Errorf("failed to list sale records: %w", err)
	}
	return records, nil
}

func (s *saleRecordService) Get(ctx context.Context, id int64) (*models.AnnualReport, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale record: %w", err)
	}
	if record == nil {
		return nil, ErrNotFound
	}
	return record, nil
}

func (s *saleRecordService) Create(ctx context.Context, in SaleRecordInput) (*models.AnnualReport, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	record := &models.AnnualReport{
		CityID:     in.CityID,
		VendorCode: in.VendorCode,
		Year:       in.Year,
		SaleAmount: in.SaleAmount,
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, translateWriteError(err)
	}

	s.log.Info("Sale record created", map[string]interface{}{
		"id":          record.ID,
		"city_id":     record.CityID,
		"vendor_code": record.VendorCode,
		"year":        record.Year,
	})
	return s.Get(ctx, record.ID)
}

func (s *saleRecordService) Update(ctx context.Context, id int64, in SaleRecordInput) (*models.AnnualReport, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	record := &models.AnnualReport{
		ID:         id,
		CityID:     in.CityID,
		VendorCode: in.VendorCode,
		Year:       in.Year,
		SaleAmount: in.SaleAmount,
		Version:    in.Version,
	}
	if err := s.records.Update(ctx, record); err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, resolveVersionMismatch(ctx, func(ctx context.Context) (bool, error) {
				return s.records.Exists(ctx, id)
			})
		}
		return nil, translateWriteError(err)
	}
	return s.Get(ctx, id)
}

func (s *saleRecordService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.records.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale record: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	s.log.Info("Sale record deleted", map[string]interface{}{"id": id})
	return nil
}

func (s *saleRecordService) FormOptions(ctx context.Context) (*FormOptions, error) {
	cities, err := s.cities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cities: %w", err)
	}
	vendors, err := s.vendors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendors: %w", err)
	}
	return &FormOptions{Cities: cities, Vendors: vendors}, nil
}

// validate checks ranges, rounds the amount to cents and confirms that the
// referenced city and vendor exist.
func (s *saleRecordService) validate(ctx context.Context, in *SaleRecordInput) error {
	if in.Year < MinSaleYear || in.Year > MaxSaleYear {
		return fmt.Errorf("%w: year must be between %d and %d, got %d", ErrInvalidInput, MinSaleYear, MaxSaleYear, in.Year)
	}
	if in.SaleAmount.IsNegative() {
		return fmt.Errorf("%w: sale amount must not be negative", ErrInvalidInput)
	}
	in.SaleAmount = models.RoundCurrency(in.SaleAmount)

	ok, err := s.cities.Exists(ctx, in.CityID)
	if err != nil {
		return fmt.Errorf("failed to check city: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: city %d", ErrInvalidReference, in.CityID)
	}

	ok, err = s.vendors.Exists(ctx, in.VendorCode)
	if err != nil {
		return fmt.Errorf("failed to check vendor: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: vendor %q", ErrInvalidReference, in.VendorCode)
	}
	return nil
}

// resolveVersionMismatch distinguishes a concurrent delete from a concurrent
// edit after an optimistic update matched no row.
func resolveVersionMismatch(ctx context.Context, exists func(context.Context) (bool, error)) error {
	ok, err := exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check record after version mismatch: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return ErrConflict
}

// translateWriteError maps constraint violations to service errors.
func translateWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return fmt.Errorf("%w: %w", ErrInvalidReference, err)
	case errors.Is(err, repository.ErrUniqueViolation):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	default:
		return err
	}
}

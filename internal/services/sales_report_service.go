package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/stwalsh4118/procurement/internal/export"
	"github.com/stwalsh4118/procurement/internal/repository"
)

// SalesReportService serves chart data over annual reports. Every call runs
// the one-time import first.
type SalesReportService interface {
	ByYear(ctx context.Context) ([]repository.YearTotal, error)
	ByVendor(ctx context.Context) ([]repository.VendorTotal, error)
	ByCity(ctx context.Context) ([]repository.CityTotal, error)

	// Workbook renders all three summaries as an XLSX workbook.
	Workbook(ctx context.Context) (*bytes.Buffer, error)
}

type salesReportService struct {
	repo     repository.SalesSummaryRepository
	importer Importer
}

// NewSalesReportService creates a new instance of SalesReportService.
func NewSalesReportService(repo repository.SalesSummaryRepository, importer Importer) SalesReportService {
	return &salesReportService{repo: repo, importer: importer}
}

func (s *salesReportService) ByYear(ctx context.Context) ([]repository.YearTotal, error) {
	if _, err := s.importer.EnsureImported(ctx); err != nil {
		return nil, err
	}
	out, err := s.repo.ByYear(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales by year: %w", err)
	}
	return out, nil
}

func (s *salesReportService) ByVendor(ctx context.Context) ([]repository.VendorTotal, error) {
	if _, err := s.importer.EnsureImported(ctx); err != nil {
		return nil, err
	}
	out, err := s.repo.ByVendor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales by vendor: %w", err)
	}
	return out, nil
}

func (s *salesReportService) ByCity(ctx context.Context) ([]repository.CityTotal, error) {
	if _, err := s.importer.EnsureImported(ctx); err != nil {
		return nil, err
	}
	out, err := s.repo.ByCity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales by city: %w", err)
	}
	return out, nil
}

func (s *salesReportService) Workbook(ctx context.Context) (*bytes.Buffer, error) {
	byYear, err := s.ByYear(ctx)
	if err != nil {
		return nil, err
	}
	byVendor, err := s.repo.ByVendor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales by vendor: %w", err)
	}
	byCity, err := s.repo.ByCity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales by city: %w", err)
	}

	buf, err := export.SalesWorkbook(byYear, byVendor, byCity)
	if err != nil {
		return nil, fmt.Errorf("failed to build sales workbook: %w", err)
	}
	return buf, nil
}

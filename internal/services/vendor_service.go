package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stwalsh4118/procurement/internal/logger"
	"github.com/stwalsh4118/procurement/internal/models"
	"github.com/stwalsh4118/procurement/internal/repository"
)

// VendorService manages vendors addressed by their external code.
type VendorService interface {
	List(ctx context.Context) ([]models.Vendor, error)
	Get(ctx context.Context, code models.VendorCode) (*models.Vendor, error)

	// Create stores a new vendor. The name defaults to the code.
	Create(ctx context.Context, vendor models.Vendor) (*models.Vendor, error)

	// Update overwrites the vendor's details; vendor.Version must be the
	// version last read.
	Update(ctx context.Context, code models.VendorCode, vendor models.Vendor) (*models.Vendor, error)

	Delete(ctx context.Context, code models.VendorCode) error
}

type vendorService struct {
	repo repository.VendorRepository
	log  *logger.Logger
}

// NewVendorService creates a new instance of VendorService.
func NewVendorService(repo repository.VendorRepository, log *logger.Logger) VendorService {
	return &vendorService{repo: repo, log: log.WithComponent("vendors")}
}

func (s *vendorService) List(ctx context.Context) ([]models.Vendor, error) {
	vendors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	return vendors, nil
}

func (s *vendorService) Get(ctx context.Context, code models.VendorCode) (*models.Vendor, error) {
	vendor, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	if vendor == nil {
		return nil, ErrNotFound
	}
	return vendor, nil
}

func (s *vendorService) Create(ctx context.Context, vendor models.Vendor) (*models.Vendor, error) {
	normalizeVendor(&vendor)
	if vendor.Code == "" {
		return nil, fmt.Errorf("%w: vendor code is required", ErrInvalidInput)
	}

	if err := s.repo.Create(ctx, &vendor); err != nil {
		return nil, translateWriteError(err)
	}
	s.log.Info("Vendor created", map[string]interface{}{"vendor_code": vendor.Code})
	return &vendor, nil
}

func (s *vendorService) Update(ctx context.Context, code models.VendorCode, vendor models.Vendor) (*models.Vendor, error) {
	vendor.Code = code
	normalizeVendor(&vendor)
	if vendor.Code == "" {
		return nil, fmt.Errorf("%w: vendor code is required", ErrInvalidInput)
	}

	if err := s.repo.Update(ctx, &vendor); err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, resolveVersionMismatch(ctx, func(ctx context.Context) (bool, error) {
				return s.repo.Exists(ctx, vendor.Code)
			})
		}
		return nil, translateWriteError(err)
	}
	return &vendor, nil
}

func (s *vendorService) Delete(ctx context.Context, code models.VendorCode) error {
	deleted, err := s.repo.Delete(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to delete vendor: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	s.log.Info("Vendor deleted", map[string]interface{}{"vendor_code": code})
	return nil
}

func normalizeVendor(v *models.Vendor) {
	v.Code = models.VendorCode(strings.TrimSpace(string(v.Code)))
	v.Name = strings.TrimSpace(v.Name)
	v.Address = strings.TrimSpace(v.Address)
	v.City = models.NormalizeCityName(v.City)
	v.Zip = strings.TrimSpace(v.Zip)
	v.Country = strings.TrimSpace(v.Country)
	v.Name = v.DisplayName()
}

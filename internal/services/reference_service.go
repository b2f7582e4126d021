package services

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/procurement/internal/models"
	"github.com/stwalsh4118/procurement/internal/repository"
)

// ReferenceService exposes stored commodities and master agreements.
type ReferenceService interface {
	Commodities(ctx context.Context) ([]models.Commodity, error)
	MasterAgreements(ctx context.Context) ([]models.MasterAgreement, error)
}

type referenceService struct {
	repo repository.ReferenceRepository
}

// NewReferenceService creates a new instance of ReferenceService.
func NewReferenceService(repo repository.ReferenceRepository) ReferenceService {
	return &referenceService{repo: repo}
}

func (s *referenceService) Commodities(ctx context.Context) ([]models.Commodity, error) {
	out, err := s.repo.ListCommodities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list commodities: %w", err)
	}
	return out, nil
}

func (s *referenceService) MasterAgreements(ctx context.Context) ([]models.MasterAgreement, error) {
	out, err := s.repo.ListMasterAgreements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list master agreements: %w", err)
	}
	return out, nil
}

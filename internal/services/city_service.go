package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stwalsh4118/procurement/internal/logger"
	"github.com/stwalsh4118/procurement/internal/models"
	"github.com/stwalsh4118/procurement/internal/repository"
)

// CityService manages cities. Names are trimmed and unique regardless of
// case.
type CityService interface {
	List(ctx context.Context) ([]models.City, error)
	Get(ctx context.Context, id int64) (*models.City, error)
	Create(ctx context.Context, name string) (*models.City, error)
	Update(ctx context.Context, id int64, name string, version int) (*models.City, error)
	Delete(ctx context.Context, id int64) error
}

type cityService struct {
	repo repository.CityRepository
	log  *logger.Logger
}

// NewCityService creates a new instance of CityService.
func NewCityService(repo repository.CityRepository, log *logger.Logger) CityService {
	return &cityService{repo: repo, log: log.WithComponent("cities")}
}

func (s *cityService) List(ctx context.Context) ([]models.City, error) {
	cities, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	return cities, nil
}

func (s *cityService) Get(ctx context.Context, id int64) (*models.City, error) {
	city, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get city: %w", err)
	}
	if city == nil {
		return nil, ErrNotFound
	}
	return city, nil
}

func (s *cityService) Create(ctx context.Context, name string) (*models.City, error) {
	name = models.NormalizeCityName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: city name is required", ErrInvalidInput)
	}

	city := &models.City{Name: name}
	if err := s.repo.Create(ctx, city); err != nil {
		return nil, translateWriteError(err)
	}
	s.log.Info("City created", map[string]interface{}{"city_id": city.ID, "name": city.Name})
	return city, nil
}

func (s *cityService) Update(ctx context.Context, id int64, name string, version int) (*models.City, error) {
	name = models.NormalizeCityName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: city name is required", ErrInvalidInput)
	}

	city := &models.City{ID: id, Name: name, Version: version}
	if err := s.repo.Update(ctx, city); err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, resolveVersionMismatch(ctx, func(ctx context.Context) (bool, error) {
				return s.repo.Exists(ctx, id)
			})
		}
		return nil, translateWriteError(err)
	}
	return city, nil
}

func (s *cityService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete city: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	s.log.Info("City deleted", map[string]interface{}{"city_id": id})
	return nil
}

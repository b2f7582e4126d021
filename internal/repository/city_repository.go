package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/procurement/internal/database"
	"github.com/stwalsh4118/procurement/internal/models"
)

// CityRepository defines data access for cities.
type CityRepository interface {
	// List returns all cities ordered by name.
	List(ctx context.Context) ([]models.City, error)

	// FindByID returns nil, nil when the city does not exist.
	FindByID(ctx context.Context, id int64) (*models.City, error)

	// Create inserts the city and sets its ID and Version.
	Create(ctx context.Context, city *models.City) error

	// Update writes the name when city.Version matches the stored version and
	// bumps the version. Returns ErrVersionMismatch otherwise.
	Update(ctx context.Context, city *models.City) error

	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)

	Exists(ctx context.Context, id int64) (bool, error)
}

type cityRepository struct {
	db *database.Database
}

// NewCityRepository creates a new instance of CityRepository.
func NewCityRepository(db *database.Database) CityRepository {
	return &cityRepository{db: db}
}

const citySelect = `SELECT city_id, city_name, version FROM cities`

func (r *cityRepository) List(ctx context.Context) ([]models.City, error) {
	cities, err := queryCities(ctx, r.db.Pool, citySelect+` ORDER BY city_name, city_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	return cities, nil
}

func (r *cityRepository) FindByID(ctx context.Context, id int64) (*models.City, error) {
	var city models.City
	err := r.db.Pool.QueryRow(ctx, citySelect+` WHERE city_id = $1`, id).
		Scan(&city.ID, &city.Name, &city.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query city %d: %w", id, err)
	}
	return &city, nil
}

func (r *cityRepository) Create(ctx context.Context, city *models.City) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO cities (city_name, version) VALUES ($1, 1) RETURNING city_id, version`,
		city.Name,
	).Scan(&city.ID, &city.Version)
	if err != nil {
		return fmt.Errorf("failed to insert city %q: %w", city.Name, classify(err))
	}
	return nil
}

func (r *cityRepository) Update(ctx context.Context, city *models.City) error {
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE cities SET city_name = $1, version = version + 1
		 WHERE city_id = $2 AND version = $3
		 RETURNING version`,
		city.Name, city.ID, city.Version,
	).Scan(&city.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrVersionMismatch
		}
		return fmt.Errorf("failed to update city %d: %w", city.ID, classify(err))
	}
	return nil
}

func (r *cityRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM cities WHERE city_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete city %d: %w", id, classify(err))
	}
	return tag.RowsAffected() > 0, nil
}

func (r *cityRepository) Exists(ctx context.Context, id int64) (bool, error) {
	found, err := exists(ctx, r.db.Pool, `SELECT EXISTS (SELECT 1 FROM cities WHERE city_id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check city %d: %w", id, err)
	}
	return found, nil
}

func queryCities(ctx context.Context, q querier, query string, args ...any) ([]models.City, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := make([]models.City, 0)
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.ID, &c.Name, &c.Version); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

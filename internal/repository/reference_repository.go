package repository

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/procurement/internal/database"
	"github.com/stwalsh4118/procurement/internal/models"
)

// ReferenceRepository reads commodities and master agreements, which are
// only ever written alongside a saved purchase order.
type ReferenceRepository interface {
	ListCommodities(ctx context.Context) ([]models.Commodity, error)
	ListMasterAgreements(ctx context.Context) ([]models.MasterAgreement, error)
}

type referenceRepository struct {
	db *database.Database
}

// NewReferenceRepository creates a new instance of ReferenceRepository.
func NewReferenceRepository(db *database.Database) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) ListCommodities(ctx context.Context) ([]models.Commodity, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT commodity_id, commodity_description FROM commodities ORDER BY commodity_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list commodities: %w", err)
	}
	defer rows.Close()

	out := make([]models.Commodity, 0)
	for rows.Next() {
		var c models.Commodity
		if err := rows.Scan(&c.ID, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan commodity: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *referenceRepository) ListMasterAgreements(ctx context.Context) ([]models.MasterAgreement, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT master_agreement, contract_name, award_date FROM master_agreements ORDER BY master_agreement`)
	if err != nil {
		return nil, fmt.Errorf("failed to list master agreements: %w", err)
	}
	defer rows.Close()

	out := make([]models.MasterAgreement, 0)
	for rows.Next() {
		var a models.MasterAgreement
		if err := rows.Scan(&a.Code, &a.ContractName, &a.AwardDate); err != nil {
			return nil, fmt.Errorf("failed to scan master agreement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

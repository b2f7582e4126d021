package cli

import (
	"bytes"
	"context"

	"github.com/stwalsh4118/procurement/internal/config"
	"github.com/stwalsh4118/procurement/internal/database"
	"github.com/stwalsh4118/procurement/internal/logger"
	"github.com/stwalsh4118/procurement/internal/repository"
	"github.com/stwalsh4118/procurement/internal/services"
	"github.com/stwalsh4118/procurement/internal/socrata"
)

// Backend is what the operator commands act on.
type Backend interface {
	Migrate(ctx context.Context) error
	EnsureImported(ctx context.Context) (services.ImportResult, error)
	Workbook(ctx context.Context) (*bytes.Buffer, error)
	Close()
}

// Opener connects a Backend for the given configuration.
type Opener func(ctx context.Context, cfg *config.Config, log *logger.Logger) (Backend, error)

type postgresBackend struct {
	db       *database.Database
	dsn      string
	log      *logger.Logger
	importer services.Importer
	reports  services.SalesReportService
}

// OpenPostgres connects to the configured database and wires the import and
// report services the same way the API server does.
func OpenPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (Backend, error) {
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	importer := services.NewImportService(
		repository.NewImportRepository(db),
		socrata.NewClient(cfg.Socrata),
		services.ImportSettings{Dataset: cfg.Socrata.DatasetID, RowLimit: cfg.Import.RowLimit},
		log,
	)

	return &postgresBackend{
		db:       db,
		dsn:      cfg.Database.URL,
		log:      log,
		importer: importer,
		reports:  services.NewSalesReportService(repository.NewSalesSummaryRepository(db), importer),
	}, nil
}

func (b *postgresBackend) Migrate(ctx context.Context) error {
	return database.Migrate(ctx, b.dsn, b.log)
}

func (b *postgresBackend) EnsureImported(ctx context.Context) (services.ImportResult, error) {
	return b.importer.EnsureImported(ctx)
}

func (b *postgresBackend) Workbook(ctx context.Context) (*bytes.Buffer, error) {
	return b.reports.Workbook(ctx)
}

func (b *postgresBackend) Close() {
	b.db.Close()
}

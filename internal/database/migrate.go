package database

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/procurement/internal/logger"
	"github.com/stwalsh4118/procurement/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// cityNameIndex enforces case-insensitive city name uniqueness. GORM tags
// cannot express an expression index, so it is created after AutoMigrate.
const cityNameIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_cities_city_name_lower ON cities (lower(city_name))`

// Migrate creates or upgrades the schema for every model. Tables are created
// in dependency order: referenced tables first.
func Migrate(ctx context.Context, dsn string, log *logger.Logger) error {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to open database for migration: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access migration connection: %w", err)
	}
	defer sqlDB.Close()

	db = db.WithContext(ctx)

	steps := []struct {
		name  string
		model interface{}
	}{
		{"cities", &models.City{}},
		{"vendors", &models.Vendor{}},
		{"master_agreements", &models.MasterAgreement{}},
		{"commodities", &models.Commodity{}},
		{"annual_reports", &models.AnnualReport{}},
		{"annual_sale_amounts", &models.AnnualSaleAmount{}},
		{"purchase_orders", &models.PurchaseOrder{}},
		{"purchase_order_lines", &models.PurchaseOrderLine{}},
		{"import_runs", &models.ImportRun{}},
	}

	for _, step := range steps {
		if err := db.AutoMigrate(step.model); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", step.name, err)
		}
		log.Debug("Table migrated", map[string]interface{}{"table": step.name})
	}

	if err := db.Exec(cityNameIndex).Error; err != nil {
		return fmt.Errorf("failed to create city name index: %w", err)
	}

	log.Info("Schema migration complete", map[string]interface{}{
		"tables": len(steps),
	})
	return nil
}

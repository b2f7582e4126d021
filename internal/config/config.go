package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Import row limit bounds. Socrata caps a single request at 50000 rows when an
// application token is supplied.
const (
	MinImportRowLimit = 1
	MaxImportRowLimit = 50000
)

// Purchase-order page size bounds.
const (
	MinPurchaseOrderPageSize = 1
	MaxPurchaseOrderPageSize = 1000
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Socrata  SocrataConfig
	Import   ImportConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	URL     string
	PoolMin int
	PoolMax int
}

// SocrataConfig holds the remote open-data API settings.
type SocrataConfig struct {
	BaseURI   string
	DatasetID string
	AppToken  string
	Timeout   time.Duration
}

// ImportConfig controls how much data is pulled from the remote API.
type ImportConfig struct {
	RowLimit              int
	PurchaseOrderPageSize int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// Load reads configuration from an optional .env file, an optional config file
// named by CONFIG_FILE, and environment variables. Environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("SOCRATA_TIMEOUT", "30s")
	v.SetDefault("IMPORT_ROW_LIMIT", 1000)
	v.SetDefault("PURCHASE_ORDER_PAGE_SIZE", 100)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetString("PORT"),
			Env:      v.GetString("ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			URL:     v.GetString("DATABASE_URL"),
			PoolMin: v.GetInt("DB_POOL_MIN"),
			PoolMax: v.GetInt("DB_POOL_MAX"),
		},
		Socrata: SocrataConfig{
			BaseURI:   strings.TrimRight(v.GetString("SOCRATA_BASE_URI"), "/"),
			DatasetID: v.GetString("SOCRATA_DATASET_ID"),
			AppToken:  v.GetString("SOCRATA_APP_TOKEN"),
			Timeout:   v.GetDuration("SOCRATA_TIMEOUT"),
		},
		Import: ImportConfig{
			RowLimit:              v.GetInt("IMPORT_ROW_LIMIT"),
			PurchaseOrderPageSize: v.GetInt("PURCHASE_ORDER_PAGE_SIZE"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}

	if err := c.Socrata.Validate(); err != nil {
		return err
	}

	if c.Import.RowLimit < MinImportRowLimit || c.Import.RowLimit > MaxImportRowLimit {
		return fmt.Errorf("IMPORT_ROW_LIMIT must be between %d and %d", MinImportRowLimit, MaxImportRowLimit)
	}
	if c.Import.PurchaseOrderPageSize < MinPurchaseOrderPageSize || c.Import.PurchaseOrderPageSize > MaxPurchaseOrderPageSize {
		return fmt.Errorf("PURCHASE_ORDER_PAGE_SIZE must be between %d and %d",
			MinPurchaseOrderPageSize, MaxPurchaseOrderPageSize)
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

// Validate checks the remote API section.
func (s SocrataConfig) Validate() error {
	if s.BaseURI == "" {
		return fmt.Errorf("SOCRATA_BASE_URI is required")
	}
	u, err := url.Parse(s.BaseURI)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("SOCRATA_BASE_URI must be an absolute http(s) URL")
	}
	if s.DatasetID == "" {
		return fmt.Errorf("SOCRATA_DATASET_ID is required")
	}
	if s.AppToken == "" {
		return fmt.Errorf("SOCRATA_APP_TOKEN is required")
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("SOCRATA_TIMEOUT must be positive")
	}
	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

package services

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/procurement/internal/logger"
	"github.com/stwalsh4118/procurement/internal/mapper"
	"github.com/stwalsh4118/procurement/internal/models"
	"github.com/stwalsh4118/procurement/internal/repository"
	"github.com/stwalsh4118/procurement/internal/socrata"
)

// Reasons an import was skipped.
const (
	SkipAlreadyImported  = "dataset already imported"
	SkipReportsPresent   = "annual reports already present"
	SkipClaimedElsewhere = "import claimed by a concurrent request"
	SkipEmptyDataset     = "remote dataset returned no rows"
)

// ImportResult summarizes one EnsureImported call.
type ImportResult struct {
	Dataset        string `json:"dataset"`
	SkipReason     string `json:"skip_reason,omitempty"`
	RowsFetched    int    `json:"rows_fetched"`
	VendorsCreated int    `json:"vendors_created"`
	CitiesCreated  int    `json:"cities_created"`
	ReportsCreated int    `json:"reports_created"`
	Skipped        bool   `json:"skipped"`
}

// Importer hydrates local annual reports from the open-data source.
type Importer interface {
	// EnsureImported imports the dataset unless an import already committed
	// or annual reports already exist. In those cases no remote request is
	// made. An empty fetch is reported as skipped and leaves no marker.
	// Failures wrap ErrImportFailed and leave no partial data behind.
	EnsureImported(ctx context.Context) (ImportResult, error)
}

// ImportSettings selects what EnsureImported pulls.
type ImportSettings struct {
	Dataset  string
	RowLimit int
}

type importService struct {
	repo     repository.ImportRepository
	source   socrata.Source
	settings ImportSettings
	log      *logger.Logger
}

// NewImportService creates a new Importer.
func NewImportService(repo repository.ImportRepository, source socrata.Source, settings ImportSettings, log *logger.Logger) Importer {
	return &importService{
		repo:     repo,
		source:   source,
		settings: settings,
		log:      log.WithComponent("import"),
	}
}

func (s *importService) EnsureImported(ctx context.Context) (ImportResult, error) {
	result := ImportResult{Dataset: s.settings.Dataset}

	done, err := s.repo.Completed(ctx, s.settings.Dataset)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}
	if done {
		return skipped(result, SkipAlreadyImported), nil
	}

	existing, err := s.repo.CountAnnualReports(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}
	if existing > 0 {
		return skipped(result, SkipReportsPresent), nil
	}

	s.log.Info("Starting open data import", map[string]interface{}{
		"dataset":   s.settings.Dataset,
		"row_limit": s.settings.RowLimit,
	})

	rows, err := s.source.FetchRows(ctx, s.settings.RowLimit, 0)
	if err != nil {
		s.log.Error("Failed to fetch open data rows", err, map[string]interface{}{
			"dataset": s.settings.Dataset,
		})
		return result, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}
	result.RowsFetched = len(rows)
	if len(rows) == 0 {
		// No marker, so the next call fetches again.
		s.log.Warn("Open data source returned no rows", map[string]interface{}{
			"dataset": s.settings.Dataset,
		})
		return skipped(result, SkipEmptyDataset), nil
	}

	aggregates := mapper.AnnualReports(rows, mapper.OnSkip(func(sk mapper.Skip) {
		s.log.Debug("Row excluded from annual totals", map[string]interface{}{
			"row":            sk.Index,
			"purchase_order": sk.PurchaseOrder,
			"reason":         sk.Reason,
		})
	}))

	claimed, err := s.repo.Run(ctx, s.settings.Dataset, func(ctx context.Context, tx repository.ImportTx, run *models.ImportRun) error {
		counts, err := reconcile(ctx, tx, aggregates, s.log)
		if err != nil {
			return err
		}
		run.RowCount = len(rows)
		run.VendorsCreated = counts.vendors
		run.CitiesCreated = counts.cities
		run.ReportsCreated = counts.reports

		result.VendorsCreated = counts.vendors
		result.CitiesCreated = counts.cities
		result.ReportsCreated = counts.reports
		return nil
	})
	if err != nil {
		s.log.Error("Open data import rolled back", err, map[string]interface{}{
			"dataset": s.settings.Dataset,
		})
		return ImportResult{Dataset: s.settings.Dataset}, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}
	if !claimed {
		return skipped(result, SkipClaimedElsewhere), nil
	}

	s.log.Info("Open data import complete", map[string]interface{}{
		"dataset":         s.settings.Dataset,
		"rows":            result.RowsFetched,
		"vendors_created": result.VendorsCreated,
		"cities_created":  result.CitiesCreated,
		"reports_created": result.ReportsCreated,
	})
	return result, nil
}

func skipped(result ImportResult, reason string) ImportResult {
	result.Skipped = true
	result.SkipReason = reason
	return result
}

type reconcileCounts struct {
	vendors int
	cities  int
	reports int
}

type reportKey struct {
	vendor models.VendorCode
	cityID int64
	year   int
}

// reconcile matches aggregates against stored vendors and cities, creates the
// missing ones in two batches and inserts one report per (city, vendor, year).
// Cities match case-insensitively on the trimmed name.
func reconcile(ctx context.Context, tx repository.ImportTx, aggregates []mapper.AnnualAggregate, log *logger.Logger) (reconcileCounts, error) {
	var counts reconcileCounts

	storedVendors, err := tx.Vendors(ctx)
	if err != nil {
		return counts, err
	}
	vendorByCode := make(map[models.VendorCode]models.Vendor, len(storedVendors))
	for _, v := range storedVendors {
		vendorByCode[v.Code] = v
	}

	storedCities, err := tx.Cities(ctx)
	if err != nil {
		return counts, err
	}
	cityByKey := make(map[string]models.City, len(storedCities))
	for _, c := range storedCities {
		cityByKey[models.CityKey(c.Name)] = c
	}

	var newVendors []models.Vendor
	for _, agg := range aggregates {
		if _, ok := vendorByCode[agg.VendorCode]; ok {
			continue
		}
		v := models.Vendor{Code: agg.VendorCode, Name: agg.VendorName}
		v.Name = v.DisplayName()
		vendorByCode[v.Code] = v
		newVendors = append(newVendors, v)
	}
	if err := tx.InsertVendors(ctx, newVendors); err != nil {
		return counts, err
	}
	counts.vendors = len(newVendors)

	var newCities []string
	pending := make(map[string]struct{})
	for _, agg := range aggregates {
		key := models.CityKey(agg.City.Name)
		if key == "" {
			continue
		}
		if _, ok := cityByKey[key]; ok {
			continue
		}
		if _, ok := pending[key]; ok {
			continue
		}
		pending[key] = struct{}{}
		newCities = append(newCities, models.NormalizeCityName(agg.City.Name))
	}
	created, err := tx.InsertCities(ctx, newCities)
	if err != nil {
		return counts, err
	}
	for _, c := range created {
		cityByKey[models.CityKey(c.Name)] = c
	}
	counts.cities = len(created)

	reports := make([]models.AnnualReport, 0, len(aggregates))
	index := make(map[reportKey]int)
	for _, agg := range aggregates {
		city, ok := cityByKey[models.CityKey(agg.City.Name)]
		if !ok {
			log.Warn("Aggregate skipped, city unresolved", map[string]interface{}{
				"city":        agg.City.Name,
				"vendor_code": agg.VendorCode,
				"year":        agg.Year,
			})
			continue
		}

		key := reportKey{vendor: agg.VendorCode, cityID: city.ID, year: agg.Year}
		if pos, ok := index[key]; ok {
			sum := reports[pos].SaleAmount.Add(agg.SaleAmount)
			if !models.FitsIntegerDigits(sum, models.CurrencyIntegerDigits) {
				log.Warn("Aggregate skipped, merged total too large", map[string]interface{}{
					"city":        agg.City.Name,
					"vendor_code": agg.VendorCode,
					"year":        agg.Year,
				})
				continue
			}
			reports[pos].SaleAmount = sum
			continue
		}
		index[key] = len(reports)
		reports = append(reports, models.AnnualReport{
			CityID:     city.ID,
			VendorCode: agg.VendorCode,
			Year:       agg.Year,
			SaleAmount: models.RoundCurrency(agg.SaleAmount),
		})
	}

	n, err := tx.InsertAnnualReports(ctx, reports)
	if err != nil {
		return counts, err
	}
	counts.reports = int(n)
	return counts, nil
}

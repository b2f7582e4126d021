package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/stwalsh4118/procurement/internal/models"
	"github.com/stwalsh4118/procurement/internal/repository"
	"github.com/stwalsh4118/procurement/internal/socrata"
)

// MockSource is a mock implementation of socrata.Source for testing
type MockSource struct {
	mock.Mock
}

func (m *MockSource) FetchRows(ctx context.Context, limit, offset int) ([]socrata.Row, error) {
	args := m.Called(ctx, limit, offset)
	rows, _ := args.Get(0).([]socrata.Row)
	return rows, args.Error(1)
}

func (m *MockSource) FetchPurchaseOrderRows(ctx context.Context, number string) ([]socrata.Row, error) {
	args := m.Called(ctx, number)
	rows, _ := args.Get(0).([]socrata.Row)
	return rows, args.Error(1)
}

// MockImportRepository mocks the marker checks; Run executes the import
// function against tx when the mocked claim succeeds.
type MockImportRepository struct {
	mock.Mock
	tx      repository.ImportTx
	lastRun *models.ImportRun
}

func (m *MockImportRepository) Completed(ctx context.Context, dataset string) (bool, error) {
	args := m.Called(ctx, dataset)
	return args.Bool(0), args.Error(1)
}

func (m *MockImportRepository) CountAnnualReports(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockImportRepository) Run(ctx context.Context, dataset string, fn repository.ImportFunc) (bool, error) {
	args := m.Called(ctx, dataset)
	if !args.Bool(0) {
		return false, args.Error(1)
	}
	run := &models.ImportRun{Dataset: dataset}
	if err := fn(ctx, m.tx, run); err != nil {
		return false, err
	}
	m.lastRun = run
	return true, args.Error(1)
}

// fakeImportTx keeps the import transaction state in memory.
type fakeImportTx struct {
	cities     []models.City
	vendors    []models.Vendor
	newVendors []models.Vendor
	newCities  []string
	reports    []models.AnnualReport
	nextCityID int64
	failOn     string
	err        error
}

func (f *fakeImportTx) fail(op string) error {
	if f.failOn == op {
		return f.err
	}
	return nil
}

func (f *fakeImportTx) Cities(context.Context) ([]models.City, error) {
	return f.cities, f.fail("Cities")
}

func (f *fakeImportTx) Vendors(context.Context) ([]models.Vendor, error) {
	return f.vendors, f.fail("Vendors")
}

func (f *fakeImportTx) InsertVendors(_ context.Context, vendors []models.Vendor) error {
	if err := f.fail("InsertVendors"); err != nil {
		return err
	}
	f.newVendors = append(f.newVendors, vendors...)
	return nil
}

func (f *fakeImportTx) InsertCities(_ context.Context, names []string) ([]models.City, error) {
	if err := f.fail("InsertCities"); err != nil {
		return nil, err
	}
	f.newCities = append(f.newCities, names...)
	out := make([]models.City, 0, len(names))
	for _, n := range names {
		f.nextCityID++
		out = append(out, models.City{ID: f.nextCityID, Name: n, Version: 1})
	}
	return out, nil
}

func (f *fakeImportTx) InsertAnnualReports(_ context.Context, reports []models.AnnualReport) (int64, error) {
	if err := f.fail("InsertAnnualReports"); err != nil {
		return 0, err
	}
	f.reports = append(f.reports, reports...)
	return int64(len(reports)), nil
}

// MockImporter is a mock implementation of Importer for testing
type MockImporter struct {
	mock.Mock
}

func (m *MockImporter) EnsureImported(ctx context.Context) (ImportResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(ImportResult), args.Error(1)
}

// MockSaleRecordRepository is a mock implementation of repository.SaleRecordRepository for testing
type MockSaleRecordRepository struct {
	mock.Mock
}

func (m *MockSaleRecordRepository) List(ctx context.Context) ([]models.AnnualReport, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.AnnualReport)
	return out, args.Error(1)
}

func (m *MockSaleRecordRepository) FindByID(ctx context.Context, id int64) (*models.AnnualReport, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*models.AnnualReport)
	return out, args.Error(1)
}

func (m *MockSaleRecordRepository) Create(ctx context.Context, record *models.AnnualReport) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSaleRecordRepository) Update(ctx context.Context, record *models.AnnualReport) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSaleRecordRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSaleRecordRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSaleRecordRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockCityRepository is a mock implementation of repository.CityRepository for testing
type MockCityRepository struct {
	mock.Mock
}

func (m *MockCityRepository) List(ctx context.Context) ([]models.City, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.City)
	return out, args.Error(1)
}

func (m *MockCityRepository) FindByID(ctx context.Context, id int64) (*models.City, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*models.City)
	return out, args.Error(1)
}

func (m *MockCityRepository) Create(ctx context.Context, city *models.City) error {
	args := m.Called(ctx, city)
	return args.Error(0)
}

func (m *MockCityRepository) Update(ctx context.Context, city *models.City) error {
	args := m.Called(ctx, city)
	return args.Error(0)
}

func (m *MockCityRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCityRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockVendorRepository is a mock implementation of repository.VendorRepository for testing
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) List(ctx context.Context) ([]models.Vendor, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.Vendor)
	return out, args.Error(1)
}

func (m *MockVendorRepository) FindByCode(ctx context.Context, code models.VendorCode) (*models.Vendor, error) {
	args := m.Called(ctx, code)
	out, _ := args.Get(0).(*models.Vendor)
	return out, args.Error(1)
}

func (m *MockVendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

func (m *MockVendorRepository) Update(ctx context.Context, vendor *models.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

func (m *MockVendorRepository) Delete(ctx context.Context, code models.VendorCode) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockVendorRepository) Exists(ctx context.Context, code models.VendorCode) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockPurchaseOrderRepository is a mock implementation of repository.PurchaseOrderRepository for testing
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, po *models.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) FindByNumber(ctx context.Context, number models.PurchaseOrderNumber) (*models.PurchaseOrder, error) {
	args := m.Called(ctx, number)
	out, _ := args.Get(0).(*models.PurchaseOrder)
	return out, args.Error(1)
}

// MockSalesSummaryRepository is a mock implementation of repository.SalesSummaryRepository for testing
type MockSalesSummaryRepository struct {
	mock.Mock
}

func (m *MockSalesSummaryRepository) ByYear(ctx context.Context) ([]repository.YearTotal, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]repository.YearTotal)
	return out, args.Error(1)
}

func (m *MockSalesSummaryRepository) ByVendor(ctx context.Context) ([]repository.VendorTotal, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]repository.VendorTotal)
	return out, args.Error(1)
}

func (m *MockSalesSummaryRepository) ByCity(ctx context.Context) ([]repository.CityTotal, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]repository.CityTotal)
	return out, args.Error(1)
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apierrors "github.com/stwalsh4118/procurement/internal/errors"
	"github.com/stwalsh4118/procurement/internal/logger"
	"github.com/stwalsh4118/procurement/internal/middleware"
	"github.com/stwalsh4118/procurement/internal/models"
	"github.com/stwalsh4118/procurement/internal/repository"
	"github.com/stwalsh4118/procurement/internal/services"
)

// newTestRouter creates a gin engine with the request ID and logging
// middleware, logging to nowhere.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.NewWithWriter(io.Discard, "error")))
	return router
}

// do sends a request with an optional JSON body.
func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, body *bytes.Buffer) apierrors.ErrorDetail {
	t.Helper()
	var response apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(body.Bytes(), &response))
	return response.Error
}

// MockSaleRecordService is a mock implementation of services.SaleRecordService
type MockSaleRecordService struct {
	mock.Mock
}

func (m *MockSaleRecordService) List(ctx context.Context) ([]models.AnnualReport, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]models.AnnualReport)
	return records, args.Error(1)
}

func (m *MockSaleRecordService) Get(ctx context.Context, id int64) (*models.AnnualReport, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(*models.AnnualReport)
	return record, args.Error(1)
}

func (m *MockSaleRecordService) Create(ctx context.Context, in services.SaleRecordInput) (*models.AnnualReport, error) {
	args := m.Called(ctx, in)
	record, _ := args.Get(0).(*models.AnnualReport)
	return record, args.Error(1)
}

func (m *MockSaleRecordService) Update(ctx context.Context, id int64, in services.SaleRecordInput) (*models.AnnualReport, error) {
	args := m.Called(ctx, id, in)
	record, _ := args.Get(0).(*models.AnnualReport)
	return record, args.Error(1)
}

func (m *MockSaleRecordService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSaleRecordService) FormOptions(ctx context.Context) (*services.FormOptions, error) {
	args := m.Called(ctx)
	opts, _ := args.Get(0).(*services.FormOptions)
	return opts, args.Error(1)
}

// MockCityService is a mock implementation of services.CityService
type MockCityService struct {
	mock.Mock
}

func (m *MockCityService) List(ctx context.Context) ([]models.City, error) {
	args := m.Called(ctx)
	cities, _ := args.Get(0).([]models.City)
	return cities, args.Error(1)
}

func (m *MockCityService) Get(ctx context.Context, id int64) (*models.City, error) {
	args := m.Called(ctx, id)
	city, _ := args.Get(0).(*models.City)
	return city, args.Error(1)
}

func (m *MockCityService) Create(ctx context.Context, name string) (*models.City, error) {
	args := m.Called(ctx, name)
	city, _ := args.Get(0).(*models.City)
	return city, args.Error(1)
}

func (m *MockCityService) Update(ctx context.Context, id int64, name string, version int) (*models.City, error) {
	args := m.Called(ctx, id, name, version)
	city, _ := args.Get(0).(*models.City)
	return city, args.Error(1)
}

func (m *MockCityService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockVendorService is a mock implementation of services.VendorService
type MockVendorService struct {
	mock.Mock
}

func (m *MockVendorService) List(ctx context.Context) ([]models.Vendor, error) {
	args := m.Called(ctx)
	vendors, _ := args.Get(0).([]models.Vendor)
	return vendors, args.Error(1)
}

func (m *MockVendorService) Get(ctx context.Context, code models.VendorCode) (*models.Vendor, error) {
	args := m.Called(ctx, code)
	vendor, _ := args.Get(0).(*models.Vendor)
	return vendor, args.Error(1)
}

func (m *MockVendorService) Create(ctx context.Context, vendor models.Vendor) (*models.Vendor, error) {
	args := m.Called(ctx, vendor)
	v, _ := args.Get(0).(*models.Vendor)
	return v, args.Error(1)
}

func (m *MockVendorService) Update(ctx context.Context, code models.VendorCode, vendor models.Vendor) (*models.Vendor, error) {
	args := m.Called(ctx, code, vendor)
	v, _ := args.Get(0).(*models.Vendor)
	return v, args.Error(1)
}

func (m *MockVendorService) Delete(ctx context.Context, code models.VendorCode) error {
	return m.Called(ctx, code).Error(0)
}

// MockReferenceService is a mock implementation of services.ReferenceService
type MockReferenceService struct {
	mock.Mock
}

func (m *MockReferenceService) Commodities(ctx context.Context) ([]models.Commodity, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.Commodity)
	return items, args.Error(1)
}

func (m *MockReferenceService) MasterAgreements(ctx context.Context) ([]models.MasterAgreement, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.MasterAgreement)
	return items, args.Error(1)
}

// MockPurchaseOrderService is a mock implementation of services.PurchaseOrderService
type MockPurchaseOrderService struct {
	mock.Mock
}

func (m *MockPurchaseOrderService) List(ctx context.Context, page int) (*services.PurchaseOrderPage, error) {
	args := m.Called(ctx, page)
	p, _ := args.Get(0).(*services.PurchaseOrderPage)
	return p, args.Error(1)
}

func (m *MockPurchaseOrderService) Get(ctx context.Context, number string) (*models.PurchaseOrder, error) {
	args := m.Called(ctx, number)
	po, _ := args.Get(0).(*models.PurchaseOrder)
	return po, args.Error(1)
}

func (m *MockPurchaseOrderService) Save(ctx context.Context, number string) (*models.PurchaseOrder, error) {
	args := m.Called(ctx, number)
	po, _ := args.Get(0).(*models.PurchaseOrder)
	return po, args.Error(1)
}

func (m *MockPurchaseOrderService) GetStored(ctx context.Context, number string) (*models.PurchaseOrder, error) {
	args := m.Called(ctx, number)
	po, _ := args.Get(0).(*models.PurchaseOrder)
	return po, args.Error(1)
}

// MockSalesReportService is a mock implementation of services.SalesReportService
type MockSalesReportService struct {
	mock.Mock
}

func (m *MockSalesReportService) ByYear(ctx context.Context) ([]repository.YearTotal, error) {
	args := m.Called(ctx)
	totals, _ := args.Get(0).([]repository.YearTotal)
	return totals, args.Error(1)
}

func (m *MockSalesReportService) ByVendor(ctx context.Context) ([]repository.VendorTotal, error) {
	args := m.Called(ctx)
	totals, _ := args.Get(0).([]repository.VendorTotal)
	return totals, args.Error(1)
}

func (m *MockSalesReportService) ByCity(ctx context.Context) ([]repository.CityTotal, error) {
	args := m.Called(ctx)
	totals, _ := args.Get(0).([]repository.CityTotal)
	return totals, args.Error(1)
}

func (m *MockSalesReportService) Workbook(ctx context.Context) (*bytes.Buffer, error) {
	args := m.Called(ctx)
	buf, _ := args.Get(0).(*bytes.Buffer)
	return buf, args.Error(1)
}

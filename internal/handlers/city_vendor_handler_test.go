package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apierrors "github.com/stwalsh4118/procurement/internal/errors"
	"github.com/stwalsh4118/procurement/internal/models"
	"github.com/stwalsh4118/procurement/internal/services"
)

func setupCityRouter(svc *MockCityService) *gin.Engine {
	h := NewCityHandler(svc)
	router := newTestRouter()
	cities := router.Group("/api/v1/cities")
	cities.GET("", h.List)
	cities.POST("", h.Create)
	cities.GET("/:id", h.Get)
	cities.PUT("/:id", h.Update)
	cities.DELETE("/:id", h.Delete)
	return router
}

func setupVendorRouter(svc *MockVendorService) *gin.Engine {
	h := NewVendorHandler(svc)
	router := newTestRouter()
	vendors := router.Group("/api/v1/vendors")
	vendors.GET("", h.List)
	vendors.POST("", h.Create)
	vendors.GET("/:code", h.Get)
	vendors.PUT("/:code", h.Update)
	vendors.DELETE("/:code", h.Delete)
	return router
}

func TestCityHandler_List(t *testing.T) {
	svc := new(MockCityService)
	svc.On("List", mock.Anything).Return([]models.City{{ID: 1, Name: "Austin", Version: 1}}, nil)

	w := do(setupCityRouter(svc), http.MethodGet, "/api/v1/cities", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var response CityListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Count)
	assert.Equal(t, "Austin", response.Cities[0].Name)
}

func TestCityHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(MockCityService)
		svc.On("Create", mock.Anything, "Austin").Return(&models.City{ID: 1, Name: "Austin", Version: 1}, nil)

		w := do(setupCityRouter(svc), http.MethodPost, "/api/v1/cities", `{"name": "Austin"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		svc := new(MockCityService)
		svc.On("Create", mock.Anything, "AUSTIN").Return(nil, services.ErrDuplicate)

		w := do(setupCityRouter(svc), http.MethodPost, "/api/v1/cities", `{"name": "AUSTIN"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, apierrors.ErrConflict, decodeError(t, w.Body).Code)
	})

	t.Run("missing name", func(t *testing.T) {
		svc := new(MockCityService)

		w := do(setupCityRouter(svc), http.MethodPost, "/api/v1/cities", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apierrors.ErrValidation, decodeError(t, w.Body).Code)
	})
}

func TestCityHandler_Update(t *testing.T) {
	svc := new(MockCityService)
	svc.On("Update", mock.Anything, int64(1), "Austin", 2).Return(&models.City{ID: 1, Name: "Austin", Version: 3}, nil)
	svc.On("Update", mock.Anything, int64(1), "Austin", 1).Return(nil, services.ErrConflict)
	router := setupCityRouter(svc)

	w := do(router, http.MethodPut, "/api/v1/cities/1", `{"name": "Austin", "version": 2}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodPut, "/api/v1/cities/1", `{"name": "Austin", "version": 1}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	svc.AssertExpectations(t)
}

func TestCityHandler_GetAndDelete(t *testing.T) {
	svc := new(MockCityService)
	svc.On("Get", mock.Anything, int64(2)).Return(nil, services.ErrNotFound)
	svc.On("Delete", mock.Anything, int64(1)).Return(nil)
	router := setupCityRouter(svc)

	w := do(router, http.MethodGet, "/api/v1/cities/2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "City not found", decodeError(t, w.Body).Message)

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, "/api/v1/cities/1", "").Code)
}

func TestVendorHandler_Create(t *testing.T) {
	svc := new(MockVendorService)
	svc.On("Create", mock.Anything, models.Vendor{Code: "V100", Name: "Acme Supply", City: "Austin"}).
		Return(&models.Vendor{Code: "V100", Name: "Acme Supply", City: "Austin", Version: 1}, nil)

	w := do(setupVendorRouter(svc), http.MethodPost, "/api/v1/vendors",
		`{"code": "V100", "name": "Acme Supply", "city": "Austin"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var vendor models.Vendor
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vendor))
	assert.Equal(t, models.VendorCode("V100"), vendor.Code)
	svc.AssertExpectations(t)
}

func TestVendorHandler_Create_MissingCode(t *testing.T) {
	svc := new(MockVendorService)

	w := do(setupVendorRouter(svc), http.MethodPost, "/api/v1/vendors", `{"name": "Acme Supply"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w.Body).Details, "Code")
}

func TestVendorHandler_Update_UsesPathCode(t *testing.T) {
	svc := new(MockVendorService)
	svc.On("Update", mock.Anything, models.VendorCode("V100"), models.Vendor{Code: "V100", Name: "Acme", Version: 3}).
		Return(&models.Vendor{Code: "V100", Name: "Acme", Version: 4}, nil)

	w := do(setupVendorRouter(svc), http.MethodPut, "/api/v1/vendors/V100", `{"name": "Acme", "version": 3}`)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestVendorHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"conflict", services.ErrConflict, http.StatusConflict},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockVendorService)
			svc.On("Delete", mock.Anything, models.VendorCode("V1")).Return(tt.err)

			w := do(setupVendorRouter(svc), http.MethodDelete, "/api/v1/vendors/V1", "")

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestVendorHandler_ListAndGet(t *testing.T) {
	svc := new(MockVendorService)
	svc.On("List", mock.Anything).Return(nil, nil)
	svc.On("Get", mock.Anything, models.VendorCode("V100")).Return(&models.Vendor{Code: "V100", Name: "Acme"}, nil)
	router := setupVendorRouter(svc)

	w := do(router, http.MethodGet, "/api/v1/vendors", "")
	assert.JSONEq(t, `{"vendors":[],"count":0}`, w.Body.String())

	w = do(router, http.MethodGet, "/api/v1/vendors/V100", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReferenceHandler(t *testing.T) {
	svc := new(MockReferenceService)
	svc.On("Commodities", mock.Anything).Return([]models.Commodity{{ID: "C1", Description: "Paper"}}, nil)
	svc.On("MasterAgreements", mock.Anything).Return(nil, assert.AnError)
	h := NewReferenceHandler(svc)
	router := newTestRouter()
	router.GET("/commodities", h.Commodities)
	router.GET("/master-agreements", h.MasterAgreements)

	w := do(router, http.MethodGet, "/commodities", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var commodities CommodityListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &commodities))
	assert.Equal(t, models.CommodityID("C1"), commodities.Commodities[0].ID)

	w = do(router, http.MethodGet, "/master-agreements", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

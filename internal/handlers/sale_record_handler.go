package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	apierrors "github.com/stwalsh4118/procurement/internal/errors"
	"github.com/stwalsh4118/procurement/internal/middleware"
	"github.com/stwalsh4118/procurement/internal/models"
	"github.com/stwalsh4118/procurement/internal/services"
)

// SaleRecordHandler serves CRUD for one kind of sale record: annual reports
// or annual sale amounts.
type SaleRecordHandler struct {
	service services.SaleRecordService
	noun    string
}

// NewSaleRecordHandler creates a handler. noun names the record in
// not-found messages, for example "Annual report".
func NewSaleRecordHandler(service services.SaleRecordService, noun string) *SaleRecordHandler {
	return &SaleRecordHandler{service: service, noun: noun}
}

// CreateSaleRecordRequest is the body of POST. The amount accepts a JSON
// number or a decimal string.
type CreateSaleRecordRequest struct {
	SaleAmount *decimal.Decimal `json:"sale_amount" binding:"required"`
	VendorCode string           `json:"vendor_code" binding:"required,max=50"`
	CityID     int64            `json:"city_id" binding:"required,gt=0"`
	Year       int              `json:"year" binding:"required,gte=1900,lte=2100"`
}

// UpdateSaleRecordRequest is the body of PUT. Version must be the version
// last read by the client.
type UpdateSaleRecordRequest struct {
	CreateSaleRecordRequest
	Version int `json:"version" binding:"required,gte=1"`
}

// SaleRecordListResponse wraps a record list.
type SaleRecordListResponse struct {
	Records []models.AnnualReport `json:"records"`
	Count   int                   `json:"count"`
}

func (r CreateSaleRecordRequest) input() services.SaleRecordInput {
	return services.SaleRecordInput{
		SaleAmount: *r.SaleAmount,
		VendorCode: models.VendorCode(r.VendorCode),
		CityID:     r.CityID,
		Year:       r.Year,
	}
}

// List handles GET /. For annual reports the first call imports the open
// data set.
func (h *SaleRecordHandler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		serviceError(c, err, h.noun+" not found", "Failed to list records")
		return
	}
	if records == nil {
		records = []models.AnnualReport{}
	}

	c.JSON(http.StatusOK, SaleRecordListResponse{Records: records, Count: len(records)})
}

// Get handles GET /:id.
func (h *SaleRecordHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	record, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		serviceError(c, err, h.noun+" not found", "Failed to get record")
		return
	}
	c.JSON(http.StatusOK, record)
}

// Create handles POST /.
func (h *SaleRecordHandler) Create(c *gin.Context) {
	var req CreateSaleRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	record, err := h.service.Create(c.Request.Context(), req.input())
	if err != nil {
		serviceError(c, err, h.noun+" not found", "Failed to create record")
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Sale record created", map[string]interface{}{
			"record":      h.noun,
			"id":          record.ID,
			"vendor_code": record.VendorCode,
			"year":        record.Year,
		})
	}
	c.JSON(http.StatusCreated, record)
}

// Update handles PUT /:id.
func (h *SaleRecordHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateSaleRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	in := req.input()
	in.Version = req.Version
	record, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		serviceError(c, err, h.noun+" not found", "Failed to update record")
		return
	}
	c.JSON(http.StatusOK, record)
}

// Delete handles DELETE /:id.
func (h *SaleRecordHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		serviceError(c, err, h.noun+" not found", "Failed to delete record")
		return
	}
	c.Status(http.StatusNoContent)
}

// Options handles GET /options: the city and vendor pickers.
func (h *SaleRecordHandler) Options(c *gin.Context) {
	opts, err := h.service.FormOptions(c.Request.Context())
	if err != nil {
		serviceError(c, err, "Options not found", "Failed to load form options")
		return
	}
	c.JSON(http.StatusOK, opts)
}

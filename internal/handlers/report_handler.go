package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/procurement/internal/models"
	"github.com/stwalsh4118/procurement/internal/services"
)

// XLSXContentType is the media type of the sales workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves the sales summaries.
type ReportHandler struct {
	service services.SalesReportService
}

// NewReportHandler creates a new ReportHandler instance.
func NewReportHandler(service services.SalesReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// YearTotalData is one row of the by-year summary.
type YearTotalData struct {
	Year  int             `json:"year"`
	Total decimal.Decimal `json:"total"`
}

// VendorTotalData is one row of the by-vendor summary.
type VendorTotalData struct {
	VendorCode models.VendorCode `json:"vendor_code"`
	VendorName string            `json:"vendor_name"`
	Total      decimal.Decimal   `json:"total"`
}

// CityTotalData is one row of the by-city summary.
type CityTotalData struct {
	CityID   int64           `json:"city_id"`
	CityName string          `json:"city_name"`
	Total    decimal.Decimal `json:"total"`
}

// SalesByYear handles GET /reports/sales-by-year.
func (h *ReportHandler) SalesByYear(c *gin.Context) {
	totals, err := h.service.ByYear(c.Request.Context())
	if err != nil {
		serviceError(c, err, "Report not found", "Failed to build sales by year")
		return
	}

	rows := make([]YearTotalData, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, YearTotalData{Year: t.Year, Total: t.Total})
	}
	c.JSON(http.StatusOK, gin.H{"totals": rows})
}

// SalesByVendor handles GET /reports/sales-by-vendor.
func (h *ReportHandler) SalesByVendor(c *gin.Context) {
	totals, err := h.service.ByVendor(c.Request.Context())
	if err != nil {
		serviceError(c, err, "Report not found", "Failed to build sales by vendor")
		return
	}

	rows := make([]VendorTotalData, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, VendorTotalData{VendorCode: t.VendorCode, VendorName: t.VendorName, Total: t.Total})
	}
	c.JSON(http.StatusOK, gin.H{"totals": rows})
}

// SalesByCity handles GET /reports/sales-by-city.
func (h *ReportHandler) SalesByCity(c *gin.Context) {
	totals, err := h.service.ByCity(c.Request.Context())
	if err != nil {
		serviceError(c, err, "Report not found", "Failed to build sales by city")
		return
	}

	rows := make([]CityTotalData, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, CityTotalData{CityID: t.CityID, CityName: t.CityName, Total: t.Total})
	}
	c.JSON(http.StatusOK, gin.H{"totals": rows})
}

// Workbook handles GET /reports/sales.xlsx.
func (h *ReportHandler) Workbook(c *gin.Context) {
	buf, err := h.service.Workbook(c.Request.Context())
	if err != nil {
		serviceError(c, err, "Report not found", "Failed to build sales workbook")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="sales.xlsx"`)
	c.Data(http.StatusOK, XLSXContentType, buf.Bytes())
}

package handlers

import "github.com/gin-gonic/gin"

// API groups the handlers mounted under /api/v1.
type API struct {
	Health           *HealthHandler
	AnnualReports    *SaleRecordHandler
	AnnualSaleAmount *SaleRecordHandler
	Cities           *CityHandler
	Vendors          *VendorHandler
	Reference        *ReferenceHandler
	PurchaseOrders   *PurchaseOrderHandler
	Reports          *ReportHandler
}

// Register mounts every route on router.
func (a *API) Register(router *gin.Engine) {
	router.GET("/health", a.Health.Health)
	router.GET("/health/ready", a.Health.Ready)

	v1 := router.Group("/api/v1")
	v1.GET("/info", a.Health.Info)

	registerSaleRecords(v1.Group("/annual-reports"), a.AnnualReports)
	registerSaleRecords(v1.Group("/annual-sale-amounts"), a.AnnualSaleAmount)

	cities := v1.Group("/cities")
	{
		cities.GET("", a.Cities.List)
		cities.POST("", a.Cities.Create)
		cities.GET("/:id", a.Cities.Get)
		cities.PUT("/:id", a.Cities.Update)
		cities.DELETE("/:id", a.Cities.Delete)
	}

	vendors := v1.Group("/vendors")
	{
		vendors.GET("", a.Vendors.List)
		vendors.POST("", a.Vendors.Create)
		vendors.GET("/:code", a.Vendors.Get)
		vendors.PUT("/:code", a.Vendors.Update)
		vendors.DELETE("/:code", a.Vendors.Delete)
	}

	v1.GET("/commodities", a.Reference.Commodities)
	v1.GET("/master-agreements", a.Reference.MasterAgreements)

	orders := v1.Group("/purchase-orders")
	{
		orders.GET("", a.PurchaseOrders.List)
		orders.GET("/:number", a.PurchaseOrders.Get)
		orders.POST("/:number/save", a.PurchaseOrders.Save)
		orders.GET("/:number/stored", a.PurchaseOrders.GetStored)
	}

	reports := v1.Group("/reports")
	{
		reports.GET("/sales-by-year", a.Reports.SalesByYear)
		reports.GET("/sales-by-vendor", a.Reports.SalesByVendor)
		reports.GET("/sales-by-city", a.Reports.SalesByCity)
		reports.GET("/sales.xlsx", a.Reports.Workbook)
	}
}

func registerSaleRecords(g *gin.RouterGroup, h *SaleRecordHandler) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/options", h.Options)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

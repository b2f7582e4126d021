package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/procurement/internal/errors"
	"github.com/stwalsh4118/procurement/internal/models"
	"github.com/stwalsh4118/procurement/internal/services"
)

// VendorHandler serves vendor CRUD. Vendors are addressed by their external
// code.
type VendorHandler struct {
	service services.VendorService
}

// NewVendorHandler creates a new VendorHandler instance.
func NewVendorHandler(service services.VendorService) *VendorHandler {
	return &VendorHandler{service: service}
}

// VendorFields are the editable vendor attributes.
type VendorFields struct {
	Name    string `json:"name" binding:"max=300"`
	Address string `json:"address" binding:"max=300"`
	City    string `json:"city" binding:"max=200"`
	Zip     string `json:"zip" binding:"max=20"`
	Country string `json:"country" binding:"max=100"`
}

// CreateVendorRequest is the body of POST /vendors.
type CreateVendorRequest struct {
	Code string `json:"code" binding:"required,max=50"`
	VendorFields
}

// UpdateVendorRequest is the body of PUT /vendors/:code.
type UpdateVendorRequest struct {
	VendorFields
	Version int `json:"version" binding:"required,gte=1"`
}

// VendorListResponse wraps the vendor list.
type VendorListResponse struct {
	Vendors []models.Vendor `json:"vendors"`
	Count   int             `json:"count"`
}

func (f VendorFields) vendor(code string, version int) models.Vendor {
	return models.Vendor{
		Code:    models.VendorCode(code),
		Name:    f.Name,
		Address: f.Address,
		City:    f.City,
		Zip:     f.Zip,
		Country: f.Country,
		Version: version,
	}
}

func (h *VendorHandler) List(c *gin.Context) {
	vendors, err := h.service.List(c.Request.Context())
	if err != nil {
		serviceError(c, err, "Vendor not found", "Failed to list vendors")
		return
	}
	if vendors == nil {
		vendors = []models.Vendor{}
	}
	c.JSON(http.StatusOK, VendorListResponse{Vendors: vendors, Count: len(vendors)})
}

func (h *VendorHandler) Get(c *gin.Context) {
	vendor, err := h.service.Get(c.Request.Context(), models.VendorCode(c.Param("code")))
	if err != nil {
		serviceError(c, err, "Vendor not found", "Failed to get vendor")
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (h *VendorHandler) Create(c *gin.Context) {
	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	vendor, err := h.service.Create(c.Request.Context(), req.vendor(req.Code, 0))
	if err != nil {
		serviceError(c, err, "Vendor not found", "Failed to create vendor")
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

func (h *VendorHandler) Update(c *gin.Context) {
	var req UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	code := models.VendorCode(c.Param("code"))
	vendor, err := h.service.Update(c.Request.Context(), code, req.vendor(string(code), req.Version))
	if err != nil {
		serviceError(c, err, "Vendor not found", "Failed to update vendor")
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (h *VendorHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), models.VendorCode(c.Param("code"))); err != nil {
		serviceError(c, err, "Vendor not found", "Failed to delete vendor")
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/procurement/internal/models"
	"github.com/stwalsh4118/procurement/internal/services"
)

// ReferenceHandler lists commodities and master agreements saved with
// purchase orders.
type ReferenceHandler struct {
	service services.ReferenceService
}

// NewReferenceHandler creates a new ReferenceHandler instance.
func NewReferenceHandler(service services.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

// CommodityListResponse wraps the commodity list.
type CommodityListResponse struct {
	Commodities []models.Commodity `json:"commodities"`
	Count       int                `json:"count"`
}

// MasterAgreementListResponse wraps the master agreement list.
type MasterAgreementListResponse struct {
	MasterAgreements []models.MasterAgreement `json:"master_agreements"`
	Count            int                      `json:"count"`
}

func (h *ReferenceHandler) Commodities(c *gin.Context) {
	commodities, err := h.service.Commodities(c.Request.Context())
	if err != nil {
		serviceError(c, err, "Commodity not found", "Failed to list commodities")
		return
	}
	if commodities == nil {
		commodities = []models.Commodity{}
	}
	c.JSON(http.StatusOK, CommodityListResponse{Commodities: commodities, Count: len(commodities)})
}

func (h *ReferenceHandler) MasterAgreements(c *gin.Context) {
	agreements, err := h.service.MasterAgreements(c.Request.Context())
	if err != nil {
		serviceError(c, err, "Master agreement not found", "Failed to list master agreements")
		return
	}
	if agreements == nil {
		agreements = []models.MasterAgreement{}
	}
	c.JSON(http.StatusOK, MasterAgreementListResponse{MasterAgreements: agreements, Count: len(agreements)})
}

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

// PurchaseOrderHandler browses remote purchase orders and stores selected
// ones.
type PurchaseOrderHandler struct {
	service services.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler instance.
func NewPurchaseOrderHandler(service services.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{service: service}
}

// PurchaseOrderListRequest is the query of GET /purchase-orders.
type PurchaseOrderListRequest struct {
	Page int `form:"page,default=1" binding:"gte=1"`
}

// PurchaseOrderResponse is an order with its computed total.
type PurchaseOrderResponse struct {
	models.PurchaseOrder
	Total decimal.Decimal `json:"total"`
}

// PurchaseOrderListResponse is one page of orders.
type PurchaseOrderListResponse struct {
	PurchaseOrders []PurchaseOrderResponse `json:"purchase_orders"`
	Page           int                     `json:"page"`
	PageSize       int                     `json:"page_size"`
	HasMore        bool                    `json:"has_more"`
}

func toPurchaseOrderResponse(po *models.PurchaseOrder) PurchaseOrderResponse {
	if po.Lines == nil {
		po.Lines = []models.PurchaseOrderLine{}
	}
	return PurchaseOrderResponse{PurchaseOrder: *po, Total: po.Total()}
}

// List handles GET /purchase-orders?page=N.
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var req PurchaseOrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), req.Page)
	if err != nil {
		serviceError(c, err, "Page not found", "Failed to list purchase orders")
		return
	}

	orders := make([]PurchaseOrderResponse, 0, len(page.Orders))
	for i := range page.Orders {
		orders = append(orders, toPurchaseOrderResponse(&page.Orders[i]))
	}
	c.JSON(http.StatusOK, PurchaseOrderListResponse{
		PurchaseOrders: orders,
		Page:           page.Page,
		PageSize:       page.PageSize,
		HasMore:        page.HasMore,
	})
}

// Get handles GET /purchase-orders/:number, read from the open data portal.
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	po, err := h.service.Get(c.Request.Context(), c.Param("number"))
	if err != nil {
		serviceError(c, err, "Purchase order not found", "Failed to get purchase order")
		return
	}
	c.JSON(http.StatusOK, toPurchaseOrderResponse(po))
}

// Save handles POST /purchase-orders/:number/save.
func (h *PurchaseOrderHandler) Save(c *gin.Context) {
	po, err := h.service.Save(c.Request.Context(), c.Param("number"))
	if err != nil {
		serviceError(c, err, "Purchase order not found", "Failed to save purchase order")
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Purchase order stored", map[string]interface{}{
			"purchase_order": po.Number,
			"lines":          len(po.Lines),
		})
	}
	c.JSON(http.StatusOK, toPurchaseOrderResponse(po))
}

// GetStored handles GET /purchase-orders/:number/stored.
func (h *PurchaseOrderHandler) GetStored(c *gin.Context) {
	po, err := h.service.GetStored(c.Request.Context(), c.Param("number"))
	if err != nil {
		serviceError(c, err, "Purchase order has not been saved", "Failed to get stored purchase order")
		return
	}
	c.JSON(http.StatusOK, toPurchaseOrderResponse(po))
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/procurement/internal/errors"
	"github.com/stwalsh4118/procurement/internal/models"
	"github.com/stwalsh4118/procurement/internal/services"
)

// CityHandler serves city CRUD.
type CityHandler struct {
	service services.CityService
}

// NewCityHandler creates a new CityHandler instance.
func NewCityHandler(service services.CityService) *CityHandler {
	return &CityHandler{service: service}
}

// CreateCityRequest is the body of POST /cities.
type CreateCityRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

// UpdateCityRequest is the body of PUT /cities/:id.
type UpdateCityRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Version int    `json:"version" binding:"required,gte=1"`
}

// CityListResponse wraps the city list.
type CityListResponse struct {
	Cities []models.City `json:"cities"`
	Count  int           `json:"count"`
}

func (h *CityHandler) List(c *gin.Context) {
	cities, err := h.service.List(c.Request.Context())
	if err != nil {
		serviceError(c, err, "City not found", "Failed to list cities")
		return
	}
	if cities == nil {
		cities = []models.City{}
	}
	c.JSON(http.StatusOK, CityListResponse{Cities: cities, Count: len(cities)})
}

func (h *CityHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	city, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		serviceError(c, err, "City not found", "Failed to get city")
		return
	}
	c.JSON(http.StatusOK, city)
}

func (h *CityHandler) Create(c *gin.Context) {
	var req CreateCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	city, err := h.service.Create(c.Request.Context(), req.Name)
	if err != nil {
		serviceError(c, err, "City not found", "Failed to create city")
		return
	}
	c.JSON(http.StatusCreated, city)
}

func (h *CityHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err)
		return
	}

	city, err := h.service.Update(c.Request.Context(), id, req.Name, req.Version)
	if err != nil {
		serviceError(c, err, "City not found", "Failed to update city")
		return
	}
	c.JSON(http.StatusOK, city)
}

func (h *CityHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		serviceError(c, err, "City not found", "Failed to delete city")
		return
	}
	c.Status(http.StatusNoContent)
}

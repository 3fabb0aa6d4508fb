package handler

import (
	"errors"
	"net/http"
	"strconv"

	"mediconnect-backend/internal/apps/hospital/service"

	"github.com/gin-gonic/gin"
)

// HospitalHandler handles HTTP requests for emergency hospital lookup
type HospitalHandler struct {
	service service.HospitalService
}

// NewHospitalHandler creates a new instance of HospitalHandler
func NewHospitalHandler(service service.HospitalService) *HospitalHandler {
	return &HospitalHandler{service: service}
}

// NearbyHospitals handles GET /emergency/hospitals?lat=&lng=
func (h *HospitalHandler) NearbyHospitals(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat query parameter is required and must be a number"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lng query parameter is required and must be a number"})
		return
	}

	resp, err := h.service.Nearby(c.Request.Context(), lat, lng)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCoordinates) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

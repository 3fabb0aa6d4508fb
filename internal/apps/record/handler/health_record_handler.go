package handler

import (
	"errors"
	"net/http"

	"mediconnect-backend/internal/apps/record/models"
	"mediconnect-backend/internal/apps/record/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HealthRecordHandler handles HTTP requests for health record operations
type HealthRecordHandler struct {
	service service.HealthRecordService
}

// NewHealthRecordHandler creates a new instance of HealthRecordHandler
func NewHealthRecordHandler(service service.HealthRecordService) *HealthRecordHandler {
	return &HealthRecordHandler{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrRecordNotFound), errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidRecord):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " id"})
		return uuid.Nil, false
	}
	return id, true
}

// CreateRecord handles POST /api/v1/records
func (h *HealthRecordHandler) CreateRecord(c *gin.Context) {
	var req models.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.CreateRecord(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

// GetRecord handles GET /api/v1/records/:id
func (h *HealthRecordHandler) GetRecord(c *gin.Context) {
	id, ok := parseID(c, "record")
	if !ok {
		return
	}

	resp, err := h.service.GetRecordByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// DeleteRecord handles DELETE /api/v1/records/:id
func (h *HealthRecordHandler) DeleteRecord(c *gin.Context) {
	id, ok := parseID(c, "record")
	if !ok {
		return
	}

	if err := h.service.DeleteRecord(c.Request.Context(), id); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "health record deleted"})
}

// ListUserRecords handles GET /api/v1/users/:id/records?category=
func (h *HealthRecordHandler) ListUserRecords(c *gin.Context) {
	userID, ok := parseID(c, "user")
	if !ok {
		return
	}

	resp, err := h.service.ListRecordsByUserID(c.Request.Context(), userID, c.Query("category"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

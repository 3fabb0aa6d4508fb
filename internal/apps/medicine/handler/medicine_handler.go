package handler

import (
	"errors"
	"net/http"

	"mediconnect-backend/internal/apps/medicine/models"
	"mediconnect-backend/internal/apps/medicine/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MedicineHandler handles HTTP requests for medicine operations
type MedicineHandler struct {
	service service.MedicineService
}

// NewMedicineHandler creates a new instance of MedicineHandler
func NewMedicineHandler(service service.MedicineService) *MedicineHandler {
	return &MedicineHandler{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMedicineNotFound), errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidMedicine):
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

// CreateMedicine handles POST /api/v1/medicines
func (h *MedicineHandler) CreateMedicine(c *gin.Context) {
	var req models.CreateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.CreateMedicine(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

// GetMedicine handles GET /api/v1/medicines/:id
func (h *MedicineHandler) GetMedicine(c *gin.Context) {
	id, ok := parseID(c, "medicine")
	if !ok {
		return
	}

	resp, err := h.service.GetMedicineByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// UpdateMedicine handles PUT /api/v1/medicines/:id
func (h *MedicineHandler) UpdateMedicine(c *gin.Context) {
	id, ok := parseID(c, "medicine")
	if !ok {
		return
	}

	var req models.UpdateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.UpdateMedicine(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// SetReminder handles POST /api/v1/medicines/:id/reminder
func (h *MedicineHandler) SetReminder(c *gin.Context) {
	id, ok := parseID(c, "medicine")
	if !ok {
		return
	}

	var req models.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.SetReminder(c.Request.Context(), id, *req.Enabled)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// DeleteMedicine handles DELETE /api/v1/medicines/:id
func (h *MedicineHandler) DeleteMedicine(c *gin.Context) {
	id, ok := parseID(c, "medicine")
	if !ok {
		return
	}

	if err := h.service.DeleteMedicine(c.Request.Context(), id); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "medicine deleted"})
}

// ListUserMedicines handles GET /api/v1/users/:id/medicines?category=
func (h *MedicineHandler) ListUserMedicines(c *gin.Context) {
	userID, ok := parseID(c, "user")
	if !ok {
		return
	}

	resp, err := h.service.ListMedicinesByUserID(c.Request.Context(), userID, c.Query("category"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

package handler

import (
	"errors"
	"io"
	"net/http"

	"mediconnect-backend/internal/apps/dietplan/models"
	"mediconnect-backend/internal/apps/dietplan/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DietPlanHandler handles HTTP requests for diet plans and purchases
type DietPlanHandler struct {
	service service.DietPlanService
}

// NewDietPlanHandler creates a new instance of DietPlanHandler
func NewDietPlanHandler(service service.DietPlanService) *DietPlanHandler {
	return &DietPlanHandler{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrPurchaseNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrFreePlan):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrPaymentsDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ListPlans handles GET /api/v1/diet-plans
func (h *DietPlanHandler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.service.ListPlans(c.Request.Context())})
}

// GetPlan handles GET /api/v1/diet-plans/:id
func (h *DietPlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.service.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": plan})
}

// Purchase handles POST /api/v1/diet-plans/:id/purchase
// Creates a Razorpay order for the plan
func (h *DietPlanHandler) Purchase(c *gin.Context) {
	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.Purchase(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

// VerifyPayment handles POST /api/v1/diet-plans/purchases/verify
// Verifies payment signature after successful checkout
func (h *DietPlanHandler) VerifyPayment(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.VerifyPayment(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "payment verification failed"})
			return
		}
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    resp,
		"message": "payment verified successfully",
	})
}

// HandleWebhook handles POST /api/v1/diet-plans/webhook
// Receives and processes Razorpay webhook events
func (h *DietPlanHandler) HandleWebhook(c *gin.Context) {
	// Read raw body
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	// Get signature from header
	signature := c.GetHeader("X-Razorpay-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing signature header"})
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), body, signature); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "webhook processed successfully"})
}

// GetPurchase handles GET /api/v1/diet-plans/purchases/:id
func (h *DietPlanHandler) GetPurchase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchase id"})
		return
	}

	resp, err := h.service.GetPurchase(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

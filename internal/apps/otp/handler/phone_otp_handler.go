package handler

import (
	"errors"
	"io"
	"net/http"

	"mediconnect-backend/internal/apps/otp/models"
	"mediconnect-backend/internal/apps/otp/service"

	"github.com/gin-gonic/gin"
)

// PhoneOTPHandler handles HTTP endpoints for Phone OTP
type PhoneOTPHandler struct {
	service service.PhoneOTPService
}

// NewPhoneOTPHandler creates a new instance of PhoneOTPHandler
func NewPhoneOTPHandler(service service.PhoneOTPService) *PhoneOTPHandler {
	return &PhoneOTPHandler{service: service}
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyVerified):
		return http.StatusConflict
	case errors.Is(err, service.ErrExpired):
		return http.StatusGone
	case errors.Is(err, service.ErrMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrResendTooSoon), errors.Is(err, service.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeIssued responds to issue/resend, surfacing delivery failure as a warning
func writeIssued(c *gin.Context, resp *models.IssuePhoneOTPResponse, err error) {
	var derr *service.DeliveryError
	if errors.As(err, &derr) {
		c.JSON(http.StatusAccepted, gin.H{"data": resp, "warning": derr.Error()})
		return
	}
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

// IssueOTP handles POST /api/v1/otp/phone
func (h *PhoneOTPHandler) IssueOTP(c *gin.Context) {
	var req models.IssuePhoneOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.Issue(c.Request.Context(), req)
	writeIssued(c, resp, err)
}

// ResendOTP handles POST /api/v1/otp/phone/resend
func (h *PhoneOTPHandler) ResendOTP(c *gin.Context) {
	var req models.IssuePhoneOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.Resend(c.Request.Context(), req)
	writeIssued(c, resp, err)
}

// VerifyOTP handles POST /api/v1/otp/phone/verify
func (h *PhoneOTPHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyPhoneOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.Verify(c.Request.Context(), req)
	if err != nil {
		body := gin.H{"error": err.Error()}
		if resp != nil {
			body["data"] = resp
		}
		c.JSON(statusFor(err), body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetStatus handles GET /api/v1/otp/phone/status?phone=
func (h *PhoneOTPHandler) GetStatus(c *gin.Context) {
	resp, err := h.service.Status(c.Request.Context(), c.Query("phone"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// StreamCountdown handles GET /api/v1/otp/phone/countdown?phone=
// It emits a "tick" event every second and a final "resend_available" event.
func (h *PhoneOTPHandler) StreamCountdown(c *gin.Context) {
	ticks := make(chan int, 1)
	done := make(chan struct{})

	onTick := func(remaining int) {
		// drop a tick rather than block the timer when the client is slow
		select {
		case ticks <- remaining:
		default:
		}
	}
	onDone := func() { close(done) }

	cd, err := h.service.StartCountdown(c.Request.Context(), c.Query("phone"), onTick, onDone)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	defer cd.Stop()

	c.SSEvent("tick", gin.H{"remaining_seconds": cd.Remaining()})
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case remaining := <-ticks:
			c.SSEvent("tick", gin.H{"remaining_seconds": remaining})
			return true
		case <-done:
			c.SSEvent("resend_available", gin.H{"remaining_seconds": 0})
			return false
		}
	})
}

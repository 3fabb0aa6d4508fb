package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterOTPRoutes registers all OTP routes
func RegisterOTPRoutes(router *gin.RouterGroup, phoneOTPHandler *PhoneOTPHandler) {
	otp := router.Group("/otp")
	{
		phone := otp.Group("/phone")
		{
			phone.POST("", phoneOTPHandler.IssueOTP)
			phone.POST("/resend", phoneOTPHandler.ResendOTP)
			phone.POST("/verify", phoneOTPHandler.VerifyOTP)
			phone.GET("/status", phoneOTPHandler.GetStatus)
			phone.GET("/countdown", phoneOTPHandler.StreamCountdown)
		}
	}
}

package handler

import "github.com/gin-gonic/gin"

// RegisterDietPlanRoutes registers all diet plan routes
func RegisterDietPlanRoutes(router *gin.RouterGroup, handler *DietPlanHandler) {
	plans := router.Group("/diet-plans")
	{
		plans.GET("", handler.ListPlans)
		plans.GET("/:id", handler.GetPlan)
		plans.POST("/:id/purchase", handler.Purchase)

		// Verify payment after successful checkout
		plans.POST("/purchases/verify", handler.VerifyPayment)
		plans.GET("/purchases/:id", handler.GetPurchase)

		// Webhook endpoint for Razorpay events
		plans.POST("/webhook", handler.HandleWebhook)
	}
}

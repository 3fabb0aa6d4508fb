package handler

import "github.com/gin-gonic/gin"

// RegisterMedicineRoutes registers all medicine-related routes
func RegisterMedicineRoutes(router *gin.RouterGroup, handler *MedicineHandler) {
	medicines := router.Group("/medicines")
	{
		medicines.POST("", handler.CreateMedicine)
		medicines.GET("/:id", handler.GetMedicine)
		medicines.PUT("/:id", handler.UpdateMedicine)
		medicines.DELETE("/:id", handler.DeleteMedicine)
		medicines.POST("/:id/reminder", handler.SetReminder)
	}
	router.GET("/users/:id/medicines", handler.ListUserMedicines)
}

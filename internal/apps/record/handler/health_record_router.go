package handler

import "github.com/gin-gonic/gin"

// RegisterHealthRecordRoutes registers all health record routes
func RegisterHealthRecordRoutes(router *gin.RouterGroup, handler *HealthRecordHandler) {
	records := router.Group("/records")
	{
		records.POST("", handler.CreateRecord)
		records.GET("/:id", handler.GetRecord)
		records.DELETE("/:id", handler.DeleteRecord)
	}
	router.GET("/users/:id/records", handler.ListUserRecords)
}

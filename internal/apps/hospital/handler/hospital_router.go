package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterHospitalRoutes registers emergency lookup routes
func RegisterHospitalRoutes(router *gin.RouterGroup, handler *HospitalHandler) {
	emergency := router.Group("/emergency")
	{
		emergency.GET("/hospitals", handler.NearbyHospitals)
	}
}

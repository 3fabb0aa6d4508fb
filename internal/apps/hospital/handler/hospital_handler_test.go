package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mediconnect-backend/internal/apps/hospital/models"
	"mediconnect-backend/internal/apps/hospital/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterHospitalRoutes(r.Group("/api/v1"), NewHospitalHandler(service.NewHospitalService(service.Options{})))
	return r
}

func TestNearbyHospitals(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/emergency/hospitals?lat=12.97&lng=77.59", nil)
	newRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data models.NearbyResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, models.SourceFallback, body.Data.Source)
	assert.Len(t, body.Data.Hospitals, 3)
}

func TestNearbyHospitals_BadInput(t *testing.T) {
	cases := map[string]string{
		"missing lat":  "/api/v1/emergency/hospitals?lng=1",
		"bad lng":      "/api/v1/emergency/hospitals?lat=1&lng=east",
		"out of range": "/api/v1/emergency/hospitals?lat=95&lng=1",
		"nan lat":      "/api/v1/emergency/hospitals?lat=NaN&lng=10",
		"nan lng":      "/api/v1/emergency/hospitals?lat=10&lng=nan",
		"infinite lng": "/api/v1/emergency/hospitals?lat=10&lng=Inf",
	}
	for name, url := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

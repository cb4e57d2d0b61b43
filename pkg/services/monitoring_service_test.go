package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMonitoringMiddlewareRecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewMonitoringService()

	router := gin.New()
	router.Use(s.LoggingMiddleware())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	router.GET("/monitoring/logs", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/health", "/health", "/boom", "/monitoring/logs"} {
		req, _ := http.NewRequest("GET", path, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	summary := s.Summary(time.Hour)

	// モニタリングAPI自身は記録されない
	assert.Equal(t, 3, summary.TotalRequests)
	assert.Equal(t, 2, summary.Endpoints["/health"])
	assert.Equal(t, 1, summary.Endpoints["/boom"])
	assert.Equal(t, 2, summary.StatusClasses["2xx Success"])
	assert.Equal(t, 1, summary.StatusClasses["5xx Server Error"])
	assert.Len(t, summary.RecentErrors, 1)
	assert.NotEmpty(t, summary.RecentErrors[0].RequestID)
}

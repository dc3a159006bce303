package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHealthRouter(service Service) *gin.Engine {
	handler := NewHealthHandler(service)
	router := gin.New()
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadinessCheck)
	router.GET("/live", handler.LivenessCheck)
	return router
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := newHealthRouter(newTestService(t))

	w := getPath(router, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, serviceName, body["service"])
}

func TestReadinessCheck(t *testing.T) {
	router := newHealthRouter(newTestService(t))

	w := getPath(router, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReadinessCheckWithoutClient(t *testing.T) {
	router := newHealthRouter(nil)

	w := getPath(router, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLivenessCheck(t *testing.T) {
	router := newHealthRouter(newTestService(t))

	w := getPath(router, "/live")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "alive", body["status"])
}

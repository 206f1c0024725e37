package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newHealthRouter(handler *HealthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadinessCheck)
	router.GET("/live", handler.LivenessCheck)
	router.GET("/health/detailed", handler.DetailedHealthCheck)
	return router
}

func getJSON(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return w, response
}

func TestHealthCheck(t *testing.T) {
	router := newHealthRouter(NewHealthHandler(nil))

	w, response := getJSON(t, router, "/health")

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if response["status"] != "healthy" {
		t.Errorf("expected status healthy, got %v", response["status"])
	}
	if response["service"] != "gcpkit" {
		t.Errorf("expected service gcpkit, got %v", response["service"])
	}
	if _, ok := response["timestamp"]; !ok {
		t.Error("expected timestamp in response")
	}
	if _, ok := response["version"]; !ok {
		t.Error("expected version in response")
	}
}

func TestLivenessCheck(t *testing.T) {
	router := newHealthRouter(NewHealthHandler(nil))

	w, response := getJSON(t, router, "/live")

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if response["status"] != "alive" {
		t.Errorf("expected status alive, got %v", response["status"])
	}
}

func TestReadinessCheckWithNilClient(t *testing.T) {
	router := newHealthRouter(NewHealthHandler(nil))

	w, response := getJSON(t, router, "/ready")

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}
	if response["status"] != "not ready" {
		t.Errorf("expected status not ready, got %v", response["status"])
	}
}

func TestReadinessCheckWithProbedClient(t *testing.T) {
	client := newTestClient(t, &fakeProvider{dim: 8})
	router := newHealthRouter(NewHealthHandler(client))

	w, response := getJSON(t, router, "/ready")

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if response["status"] != "ready" {
		t.Errorf("expected status ready, got %v", response["status"])
	}
	if response["dim"] != float64(8) {
		t.Errorf("expected dim 8, got %v", response["dim"])
	}
}

func TestDetailedHealthCheck(t *testing.T) {
	router := newHealthRouter(NewHealthHandler(nil))

	w, response := getJSON(t, router, "/health/detailed")

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	for _, key := range []string{"git_commit", "build_time", "go_version"} {
		if _, ok := response[key]; !ok {
			t.Errorf("expected %s in response", key)
		}
	}
}

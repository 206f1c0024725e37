package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coastwise/gcpkit/pkg/embedding"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	embedder *embedding.Client
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(embedder *embedding.Client) *HealthHandler {
	return &HealthHandler{embedder: embedder}
}

// HealthCheck handles GET /health - basic liveness check.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "gcpkit",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// ReadinessCheck handles GET /ready - the service is ready once the embedding
// client has been probed and knows its dimensionality.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	if h.embedder == nil || h.embedder.Dim() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"dim":    h.embedder.Dim(),
	})
}

// LivenessCheck handles GET /live for orchestrator liveness probes.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// DetailedHealthCheck handles GET /health/detailed with build information.
func (h *HealthHandler) DetailedHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    "gcpkit",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"version":    Version,
		"git_commit": GitCommit,
		"build_time": BuildTime,
		"go_version": GoVersion,
	})
}

package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"docbridge/internal/config"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	files *config.FilesConfig
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(files *config.FilesConfig) *HealthHandler {
	return &HealthHandler{files: files}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. The service is not ready when a
// configured allowed root does not exist: a batch run against it would
// silently find nothing.
func (h *HealthHandler) Readiness(c *gin.Context) {
	for _, root := range h.files.AllowedRoots {
		if _, err := os.Stat(root); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  "allowed root not reachable: " + root,
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

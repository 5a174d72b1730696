package router

import (
	"github.com/gin-gonic/gin"

	"docbridge/internal/handler"
	"docbridge/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	batchH *handler.BatchHandler,
	contractH *handler.ContractHandler,
	folderH *handler.FolderHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Batch pipeline
	v1.POST("/batch/contracts", batchH.Run)
	v1.POST("/batch/export", batchH.Export)

	// Single-file operations
	v1.POST("/contracts", contractH.Create)
	v1.POST("/contracts/process", contractH.Process)

	// Filesystem policy
	v1.GET("/folders", folderH.List)

	return r
}

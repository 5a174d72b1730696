package handler

import (
	"github.com/gin-gonic/gin"

	"docbridge/internal/config"
)

// FolderHandler reports the filesystem policy so callers know where files
// may be dropped for ingestion. All paths are reported in the caller's
// view of the filesystem.
type FolderHandler struct {
	files *config.FilesConfig
}

// NewFolderHandler creates a FolderHandler.
func NewFolderHandler(files *config.FilesConfig) *FolderHandler {
	return &FolderHandler{files: files}
}

// List handles GET /api/v1/folders.
func (h *FolderHandler) List(c *gin.Context) {
	RespondOK(c, gin.H{
		"allowed_folders":    h.files.HostRoots(),
		"allowed_extensions": h.files.AllowedExtensions,
		"folder_success":     h.files.HostSuccess(),
		"folder_errors":      h.files.HostErrors(),
	})
}

package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"docbridge/internal/batch"
	"docbridge/internal/domain"
	"docbridge/internal/export"
	"docbridge/internal/fsguard"
	"docbridge/internal/port"
)

// BatchHandler exposes the batch ingestion pipeline over HTTP.
type BatchHandler struct {
	pipeline   *batch.Pipeline
	translator *fsguard.Translator
	email      port.EmailSender
	toAddress  string
}

// NewBatchHandler creates a BatchHandler. toAddress may be empty, in which
// case no summary email is sent.
func NewBatchHandler(pipeline *batch.Pipeline, translator *fsguard.Translator, email port.EmailSender, toAddress string) *BatchHandler {
	return &BatchHandler{
		pipeline:   pipeline,
		translator: translator,
		email:      email,
		toAddress:  toAddress,
	}
}

type batchRunRequest struct {
	Path string `json:"path"`
}

// Run handles POST /api/v1/batch/contracts. The optional path is given in
// the caller's view of the filesystem and translated before use.
func (h *BatchHandler) Run(c *gin.Context) {
	var req batchRunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "body must be JSON with an optional \"path\" field")
			return
		}
	}

	path := ""
	if req.Path != "" {
		path = h.translator.ToInternalView(req.Path)
	}

	result, err := h.pipeline.Run(c.Request.Context(), path)
	if err != nil {
		HandleError(c, err)
		return
	}

	if h.toAddress != "" {
		if err := h.email.SendBatchSummary(c.Request.Context(), h.toAddress, "Contract batch processing report", result.Summary); err != nil {
			// The run result stands on its own; a failed delivery is
			// logged, not returned.
			requestID, _ := c.Get("request_id")
			log.Printf("[%s] sending batch summary email: %v", requestID, err)
		}
	}

	RespondOK(c, result)
}

// Export handles POST /api/v1/batch/export: it renders a previously
// returned batch result as an XLSX workbook.
func (h *BatchHandler) Export(c *gin.Context) {
	var result domain.BatchResult
	if err := c.ShouldBindJSON(&result); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "body must be a batch result")
		return
	}

	data, err := export.BatchResultXLSX(&result)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="batch-results.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

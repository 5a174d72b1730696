package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docbridge/internal/batch"
	"docbridge/internal/fsguard"
	"docbridge/internal/glpi"
	"docbridge/internal/port"
)

// ContractHandler exposes single-file contract extraction and creation.
type ContractHandler struct {
	processor  batch.ContractProcessor
	translator *fsguard.Translator
	clients    port.RecordClientFactory
}

// NewContractHandler creates a ContractHandler.
func NewContractHandler(processor batch.ContractProcessor, translator *fsguard.Translator, clients port.RecordClientFactory) *ContractHandler {
	return &ContractHandler{
		processor:  processor,
		translator: translator,
		clients:    clients,
	}
}

type contractFileRequest struct {
	Path string `json:"path" binding:"required"`
}

// Process handles POST /api/v1/contracts/process: extract a structured
// contract from one document without creating anything remotely.
func (h *ContractHandler) Process(c *gin.Context) {
	req, ok := h.bindPath(c)
	if !ok {
		return
	}

	contract, err := h.processor.Process(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, contract)
}

// Create handles POST /api/v1/contracts: extract one document and create
// the contract record with the source file attached.
func (h *ContractHandler) Create(c *gin.Context) {
	path, ok := h.bindPath(c)
	if !ok {
		return
	}

	contract, err := h.processor.Process(c.Request.Context(), path)
	if err != nil {
		HandleError(c, err)
		return
	}
	if contract.PromptInjectionDetected {
		RespondError(c, http.StatusUnprocessableEntity, "PROMPT_INJECTION",
			"possible prompt injection detected in the document")
		return
	}

	client := h.clients.NewClient()
	defer client.Close(c.Request.Context())

	created, err := client.CreateContract(c.Request.Context(), glpi.ContractCreateFields(contract))
	if err != nil {
		HandleError(c, err)
		return
	}

	attached := true
	attachErr := ""
	if err := client.AttachDocument(c.Request.Context(), path, created.ID, "Contract"); err != nil {
		attached = false
		attachErr = err.Error()
	}

	RespondCreated(c, gin.H{
		"contract_id":       created.ID,
		"contract_name":     created.Name,
		"document_attached": attached,
		"document_error":    attachErr,
	})
}

// bindPath reads the request body and returns the internal-view path.
func (h *ContractHandler) bindPath(c *gin.Context) (string, bool) {
	var req contractFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "body must be JSON with a \"path\" field")
		return "", false
	}
	return h.translator.ToInternalView(req.Path), true
}

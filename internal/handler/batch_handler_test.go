package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docbridge/internal/batch"
	"docbridge/internal/config"
	"docbridge/internal/domain"
	"docbridge/internal/extract"
	"docbridge/internal/fsguard"
	"docbridge/internal/llm"
	"docbridge/internal/port"
	"docbridge/mocks"
)

func newBatchFixture(t *testing.T) (*batch.Pipeline, *fsguard.Translator, *mocks.MockRecordClient, string) {
	t.Helper()
	root := t.TempDir()
	files := &config.FilesConfig{
		AllowedRoots:      []string{root},
		AllowedExtensions: []string{"txt"},
		FolderSuccess:     t.TempDir(),
		FolderErrors:      t.TempDir(),
	}
	guard := fsguard.NewGuard(files.AllowedRoots)
	translator := fsguard.NewTranslator(files)
	generator := llm.NewMockGenerator()
	processor := extract.NewProcessor(guard, extract.NewCommandExtractor(), generator, 10000)

	client := new(mocks.MockRecordClient)
	client.On("Close", mock.Anything).Return()
	factory := new(mocks.MockRecordClientFactory)
	factory.On("NewClient").Return(client)

	pipeline := batch.NewPipeline(files, guard, translator, processor, factory, batch.NewReporter(generator))
	return pipeline, translator, client, root
}

func batchRouter(h *BatchHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/batch/contracts", h.Run)
	r.POST("/api/v1/batch/export", h.Export)
	return r
}

func TestBatchRunEndpoint(t *testing.T) {
	pipeline, translator, client, root := newBatchFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "c1.txt"), []byte("Contract."), 0o644))

	client.On("CreateContract", mock.Anything, mock.Anything).
		Return(&port.CreatedRecord{ID: 42, Name: "x"}, nil)
	client.On("AttachDocument", mock.Anything, mock.Anything, 42, "Contract").Return(nil)

	sender := new(mocks.MockEmailSender)
	sender.On("SendBatchSummary", mock.Anything, "ops@example.com", mock.Anything,
		mock.MatchedBy(func(body string) bool { return strings.Contains(body, "Dear user,") })).
		Return(nil)

	h := NewBatchHandler(pipeline, translator, sender, "ops@example.com")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batch/contracts", nil)
	w := httptest.NewRecorder()
	batchRouter(h).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data domain.BatchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Results, 1)
	assert.Equal(t, domain.OutcomeSuccess, resp.Data.Results[0].Status)
	sender.AssertExpectations(t)
}

func TestBatchRunEndpointWithExplicitPath(t *testing.T) {
	pipeline, translator, _, _ := newBatchFixture(t)

	h := NewBatchHandler(pipeline, translator, new(mocks.MockEmailSender), "")
	w := postJSON(t, batchRouter(h), "/api/v1/batch/contracts", gin.H{"path": "/etc/passwd"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data domain.BatchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Results, 1)
	assert.Equal(t, domain.OutcomeError, resp.Data.Results[0].Status)
}

func TestBatchExportEndpoint(t *testing.T) {
	pipeline, translator, _, _ := newBatchFixture(t)
	h := NewBatchHandler(pipeline, translator, new(mocks.MockEmailSender), "")

	id := 42
	result := domain.BatchResult{
		Results: []domain.BatchFileOutcome{
			{File: "/srv/docs/c1.pdf", Status: domain.OutcomeSuccess, ContractID: &id},
		},
		Summary: "Dear user, ...",
	}
	w := postJSON(t, batchRouter(h), "/api/v1/batch/export", result)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "batch-results.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestBatchExportEndpointRejectsBadBody(t *testing.T) {
	pipeline, translator, _, _ := newBatchFixture(t)
	h := NewBatchHandler(pipeline, translator, new(mocks.MockEmailSender), "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/batch/export", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	batchRouter(h).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package glpi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachDocumentUploadsMultipart(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "contract.pdf")
	require.NoError(t, os.WriteFile(filePath, []byte("%PDF-fake"), 0o644))

	var gotManifest map[string]any
	var gotFileName string
	var gotFileBytes []byte
	server := newGLPIServer(t, func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path != "/Document" || r.Method != http.MethodPost {
			return false
		}
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("uploadManifest")), &gotManifest))

		file, header, err := r.FormFile("filename[0]")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		gotFileName = header.Filename
		gotFileBytes, _ = io.ReadAll(file)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":12,"message":"Document added"}`))
		return true
	})
	c := testClient(server.URL)

	err := c.AttachDocument(context.Background(), filePath, 55, "Contract")

	require.NoError(t, err)
	assert.Equal(t, "contract.pdf", gotFileName)
	assert.Equal(t, []byte("%PDF-fake"), gotFileBytes)

	input := gotManifest["input"].(map[string]any)
	assert.Equal(t, "contract.pdf", input["name"])
	assert.Equal(t, []any{"contract.pdf"}, input["_filename"])
	assert.Equal(t, float64(55), input["items_id"])
	assert.Equal(t, "Contract", input["itemtype"])

	// Multipart upload, not the JSON content type of the other endpoints.
	assert.True(t, strings.HasPrefix(server.lastHeaders.Get("Content-Type"), "multipart/form-data"))
	assert.Equal(t, "sess-123", server.lastHeaders.Get("Session-Token"))
}

func TestAttachDocumentAcceptsListResponse(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "contract.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("text"), 0o644))

	server := newGLPIServer(t, func(w http.ResponseWriter, r *http.Request) bool {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":3}]`))
		return true
	})
	c := testClient(server.URL)

	assert.NoError(t, c.AttachDocument(context.Background(), filePath, 55, "Contract"))
}

func TestAttachDocumentMissingFile(t *testing.T) {
	server := newGLPIServer(t, nil)
	c := testClient(server.URL)

	err := c.AttachDocument(context.Background(), "/nonexistent/contract.pdf", 55, "Contract")
	assert.Error(t, err)
}

func TestGetDocument(t *testing.T) {
	server := newGLPIServer(t, func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path != "/Document/12" {
			return false
		}
		_, _ = w.Write([]byte(`{"id":12,"name":"contract.pdf","filename":"contract.pdf","items_id":55,"itemtype":"Contract"}`))
		return true
	})
	c := testClient(server.URL)

	doc, err := c.GetDocument(context.Background(), 12)

	require.NoError(t, err)
	assert.Equal(t, 12, doc.ID)
	assert.Equal(t, "contract.pdf", doc.Filename)
	assert.Equal(t, 55, doc.ItemsID)
}

func TestDocumentsForItemResolvesLinks(t *testing.T) {
	server := newGLPIServer(t, func(w http.ResponseWriter, r *http.Request) bool {
		switch r.URL.Path {
		case "/Contract/55/Document_Item":
			_, _ = w.Write([]byte(`[{"documents_id":12},{"documents_id":13},{"documents_id":0}]`))
		case "/Document/12":
			_, _ = w.Write([]byte(`{"id":12,"name":"a.pdf"}`))
		case "/Document/13":
			// Unreadable documents are skipped, not fatal.
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`["ERROR_RIGHT_MISSING"]`))
		default:
			return false
		}
		return true
	})
	c := testClient(server.URL)

	docs, err := c.DocumentsForItem(context.Background(), 55, "Contract")

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a.pdf", docs[0].Name)
}

func TestAttachDocumentAPIError(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "contract.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("text"), 0o644))

	server := newGLPIServer(t, func(w http.ResponseWriter, r *http.Request) bool {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`["ERROR_DOCUMENT"]`))
		return true
	})
	c := testClient(server.URL)

	err := c.AttachDocument(context.Background(), filePath, 55, "Contract")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

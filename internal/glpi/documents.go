package glpi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// AttachDocument uploads the file at filePath as a GLPI Document linked to
// the given item. GLPI's upload endpoint takes a multipart form with a
// JSON manifest field and the file bytes under the name the manifest
// declares.
func (c *Client) AttachDocument(ctx context.Context, filePath string, itemID int, itemType string) error {
	if err := c.ensureSession(ctx); err != nil {
		return err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer func() { _ = file.Close() }()

	fileName := filepath.Base(filePath)
	manifest := map[string]any{
		"input": map[string]any{
			"name":      fileName,
			"_filename": []string{fileName},
			"items_id":  itemID,
			"itemtype":  itemType,
		},
	}
	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("marshaling upload manifest: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("uploadManifest", string(manifestJSON)); err != nil {
		return fmt.Errorf("writing upload manifest: %w", err)
	}
	part, err := writer.CreateFormFile("filename[0]", fileName)
	if err != nil {
		return fmt.Errorf("creating file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("reading %s: %w", filePath, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalizing upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("Document"), &buf)
	if err != nil {
		return fmt.Errorf("creating upload request: %w", err)
	}
	req.Header = c.headers(true)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("uploading document: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading upload response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	if _, err := documentID(body); err != nil {
		return err
	}
	return nil
}

// Document is a GLPI document record as returned by the Document endpoint.
type Document struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Filename string `json:"filename"`
	ItemsID  int    `json:"items_id"`
	ItemType string `json:"itemtype"`
}

// GetDocument fetches a document record by id.
func (c *Client) GetDocument(ctx context.Context, id int) (*Document, error) {
	var doc Document
	if err := c.Get(ctx, fmt.Sprintf("Document/%d", id), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DocumentsForItem lists the documents attached to an item. GLPI exposes
// attachments through the Document_Item link table, so each link is
// resolved to its document record; links whose document cannot be fetched
// are skipped.
func (c *Client) DocumentsForItem(ctx context.Context, itemID int, itemType string) ([]Document, error) {
	var links []struct {
		DocumentsID int `json:"documents_id"`
	}
	endpoint := fmt.Sprintf("%s/%d/Document_Item", itemType, itemID)
	if err := c.Get(ctx, endpoint, &links); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(links))
	for _, link := range links {
		if link.DocumentsID == 0 {
			continue
		}
		doc, err := c.GetDocument(ctx, link.DocumentsID)
		if err != nil {
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// documentID extracts the created document id. GLPI returns either a bare
// object or a one-element array depending on version.
func documentID(body []byte) (int, error) {
	var obj struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(body, &obj); err == nil && obj.ID != 0 {
		return obj.ID, nil
	}
	var list []struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 && list[0].ID != 0 {
		return list[0].ID, nil
	}
	return 0, fmt.Errorf("GLPI did not return a document id: %s", body)
}

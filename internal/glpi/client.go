// Package glpi is the HTTP client for the GLPI REST API: session-token
// lifecycle, record creation and document upload. GLPI's error surface is
// free-text, so this package reports failures as APIError with the raw
// status and body attached.
package glpi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"docbridge/internal/config"
	"docbridge/internal/port"
)

// APIError indicates GLPI returned a non-success HTTP status.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GLPI API error (status %d): %s", e.Status, e.Body)
}

// Client talks to one GLPI instance. The session token is acquired lazily
// on the first request and invalidated by Close. A Client is owned by a
// single batch run and must not be shared across runs.
type Client struct {
	apiURL       string
	appToken     string
	userToken    string
	sessionToken string
	client       *http.Client
}

// NewClient creates a GLPI client from config. No network activity happens
// until the first request.
func NewClient(cfg *config.GLPIConfig) *Client {
	return &Client{
		apiURL:    strings.TrimRight(cfg.APIURL, "/"),
		appToken:  cfg.AppToken,
		userToken: cfg.UserToken,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Factory builds a fresh Client per batch run.
type Factory struct {
	cfg *config.GLPIConfig
}

// NewFactory creates a client factory bound to the given config.
func NewFactory(cfg *config.GLPIConfig) *Factory {
	return &Factory{cfg: cfg}
}

// NewClient returns a new client with its own session.
func (f *Factory) NewClient() port.RecordClient {
	return NewClient(f.cfg)
}

func (c *Client) headers(includeSession bool) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("App-Token", c.appToken)
	h.Set("Authorization", "user_token "+c.userToken)
	if includeSession && c.sessionToken != "" {
		h.Set("Session-Token", c.sessionToken)
	}
	return h
}

// InitSession opens a GLPI session and stores the session token.
func (c *Client) InitSession(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/initSession", nil)
	if err != nil {
		return fmt.Errorf("creating initSession request: %w", err)
	}
	req.Header = c.headers(false)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling initSession: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading initSession response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	var data struct {
		SessionToken string `json:"session_token"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return fmt.Errorf("decoding initSession response: %w", err)
	}
	if data.SessionToken == "" {
		return fmt.Errorf("no session token received from GLPI")
	}
	c.sessionToken = data.SessionToken
	return nil
}

// ensureSession initializes the session on first use.
func (c *Client) ensureSession(ctx context.Context) error {
	if c.sessionToken != "" {
		return nil
	}
	return c.InitSession(ctx)
}

// Close invalidates the session. It never fails: a session that cannot be
// killed will expire server-side, and Close runs on defer paths where an
// error has nowhere to go.
func (c *Client) Close(ctx context.Context) {
	if c.sessionToken == "" {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/killSession", nil)
	if err == nil {
		req.Header = c.headers(true)
		if resp, err := c.client.Do(req); err == nil {
			_ = resp.Body.Close()
		}
	}
	c.sessionToken = ""
}

// Get performs a GET against the API and decodes the JSON response.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	if err := c.ensureSession(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(endpoint), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.headers(true)
	return c.do(req, out)
}

// Post sends data wrapped in GLPI's {"input": ...} envelope.
func (c *Client) Post(ctx context.Context, endpoint string, data any, out any) error {
	return c.send(ctx, http.MethodPost, endpoint, data, out)
}

// Put updates a record, using the same envelope as Post.
func (c *Client) Put(ctx context.Context, endpoint string, data any, out any) error {
	return c.send(ctx, http.MethodPut, endpoint, data, out)
}

func (c *Client) send(ctx context.Context, method, endpoint string, data any, out any) error {
	if err := c.ensureSession(ctx); err != nil {
		return err
	}
	body, err := json.Marshal(map[string]any{"input": data})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.headers(true)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling GLPI API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding GLPI response: %w", err)
	}
	return nil
}

func (c *Client) url(endpoint string) string {
	return c.apiURL + "/" + strings.TrimPrefix(endpoint, "/")
}

package glpi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docbridge/internal/config"
)

// glpiServer is a minimal fake GLPI API recording requests by path.
type glpiServer struct {
	*httptest.Server
	sessionInits int
	sessionKills int
	lastHeaders  http.Header
	lastBody     []byte
}

func newGLPIServer(t *testing.T, handle func(w http.ResponseWriter, r *http.Request) bool) *glpiServer {
	t.Helper()
	s := &glpiServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lastHeaders = r.Header.Clone()
		s.lastBody, _ = io.ReadAll(r.Body)
		// Handlers may still want to parse the body themselves.
		r.Body = io.NopCloser(bytes.NewReader(s.lastBody))
		switch r.URL.Path {
		case "/initSession":
			s.sessionInits++
			_, _ = w.Write([]byte(`{"session_token":"sess-123"}`))
		case "/killSession":
			s.sessionKills++
			w.WriteHeader(http.StatusOK)
		default:
			if handle == nil || !handle(w, r) {
				http.NotFound(w, r)
			}
		}
	}))
	t.Cleanup(s.Server.Close)
	return s
}

func testClient(url string) *Client {
	return NewClient(&config.GLPIConfig{
		APIURL:    url,
		AppToken:  "app-token",
		UserToken: "user-token",
		Timeout:   5 * time.Second,
	})
}

func TestSessionIsLazyAndShared(t *testing.T) {
	server := newGLPIServer(t, func(w http.ResponseWriter, r *http.Request) bool {
		_, _ = w.Write([]byte(`{"id":1}`))
		return true
	})
	c := testClient(server.URL)

	assert.Equal(t, 0, server.sessionInits)

	var out map[string]any
	require.NoError(t, c.Get(context.Background(), "Contract/1", &out))
	require.NoError(t, c.Get(context.Background(), "Contract/1", &out))

	assert.Equal(t, 1, server.sessionInits)
	assert.Equal(t, "app-token", server.lastHeaders.Get("App-Token"))
	assert.Equal(t, "user_token user-token", server.lastHeaders.Get("Authorization"))
	assert.Equal(t, "sess-123", server.lastHeaders.Get("Session-Token"))
}

func TestCloseKillsSession(t *testing.T) {
	server := newGLPIServer(t, func(w http.ResponseWriter, r *http.Request) bool {
		_, _ = w.Write([]byte(`{"id":1}`))
		return true
	})
	c := testClient(server.URL)

	var out map[string]any
	require.NoError(t, c.Get(context.Background(), "Contract/1", &out))
	c.Close(context.Background())

	assert.Equal(t, 1, server.sessionKills)

	// Closing again is a no-op without a session.
	c.Close(context.Background())
	assert.Equal(t, 1, server.sessionKills)
}

func TestPostWrapsDataInInputEnvelope(t *testing.T) {
	server := newGLPIServer(t, func(w http.ResponseWriter, r *http.Request) bool {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7}`))
		return true
	})
	c := testClient(server.URL)

	var created struct {
		ID int `json:"id"`
	}
	require.NoError(t, c.Post(context.Background(), "Contract", map[string]any{"name": "x"}, &created))
	assert.Equal(t, 7, created.ID)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(server.lastBody, &envelope))
	assert.Equal(t, map[string]any{"name": "x"}, envelope["input"])
}

func TestAPIErrorCarriesStatusAndBody(t *testing.T) {
	server := newGLPIServer(t, func(w http.ResponseWriter, r *http.Request) bool {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`["ERROR_GLPI", "invalid field"]`))
		return true
	})
	c := testClient(server.URL)

	err := c.Post(context.Background(), "Contract", map[string]any{}, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Body, "invalid field")
}

func TestInitSessionFailureSurfacesAsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`["ERROR_WRONG_APP_TOKEN"]`))
	}))
	defer server.Close()
	c := testClient(server.URL)

	err := c.Get(context.Background(), "Contract/1", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

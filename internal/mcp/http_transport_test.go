package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"firebase-mcp/internal/auth/adapter/security"
	"firebase-mcp/internal/config"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *security.JWTokenService {
	t.Helper()
	svc, err := security.NewJWTokenService(config.ServerConfig{
		JWTSecretKey: "test-secret",
		JWTIssuer:    "firebase-mcp",
		TokenTTL:     time.Hour,
	})
	require.NoError(t, err)
	return svc
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}

func TestHTTPTransport_Health(t *testing.T) {
	d, _ := newTestDispatcher()
	healthy := NewHTTPTransport(NewServer(d, "test", nil), HTTPOptions{}, nil)

	resp, err := healthy.App().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "HEALTHY", body["status"])

	failing := NewHTTPTransport(NewServer(d, "test", nil), HTTPOptions{
		HealthCheck: func(ctx context.Context) error { return errors.New("mongo unreachable") },
	}, nil)
	resp, err = failing.App().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHTTPTransport_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	d, _ := newTestDispatcher(WithMetrics(m))
	invoke(t, d, ToolGetCurrentTimestamp, Arguments{})

	transport := NewHTTPTransport(NewServer(d, "test", nil), HTTPOptions{Gatherer: reg}, nil)
	resp, err := transport.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "firebase_mcp_tool_invocations_total")
}

func TestHTTPTransport_RequiresBearerToken(t *testing.T) {
	d, _ := newTestDispatcher()
	transport := NewHTTPTransport(NewServer(d, "test", nil), HTTPOptions{Tokens: newTestTokenService(t)}, nil)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	resp, err := transport.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp, err = transport.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHTTPTransport_StreamableSession(t *testing.T) {
	d, _ := newTestDispatcher()
	tokens := newTestTokenService(t)
	transport := NewHTTPTransport(NewServer(d, "test", nil), HTTPOptions{Path: "/mcp", Tokens: tokens}, nil)
	httpServer := httptest.NewServer(transport.Handler())
	defer httpServer.Close()

	token, err := tokens.GenerateToken(context.Background(), "agent-1", []string{ToolGetDocument, ToolGetCurrentTimestamp})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "http-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, &mcpsdk.StreamableClientTransport{
		Endpoint:   httpServer.URL + "/mcp",
		HTTPClient: &http.Client{Transport: &bearerTransport{token: token, base: http.DefaultTransport}},
	}, nil)
	require.NoError(t, err)
	defer cs.Close()

	res, err := cs.CallTool(ctx, &mcpsdk.CallToolParams{Name: ToolGetCurrentTimestamp})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = cs.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      ToolAddDocument,
		Arguments: map[string]any{"collection": "users", "data": map[string]any{"name": "Ann"}},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "Access denied: token does not grant tool firestore_add_document", resultText(t, res))
}

func TestTokenVerifier(t *testing.T) {
	tokens := newTestTokenService(t)
	token, err := tokens.GenerateToken(context.Background(), "agent-1", []string{ToolListFiles})
	require.NoError(t, err)

	verify := TokenVerifier(tokens)
	info, err := verify(context.Background(), token, nil)
	require.NoError(t, err)
	assert.Equal(t, "agent-1", info.UserID)
	assert.Equal(t, []string{ToolListFiles}, info.Scopes)
	assert.True(t, info.Expiration.After(time.Now()))

	_, err = verify(context.Background(), "garbage", nil)
	assert.Error(t, err)
}

package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bturcanu/activecampaign-mcp/pkg/activecampaign"
	"github.com/bturcanu/activecampaign-mcp/pkg/auth"
	"github.com/bturcanu/activecampaign-mcp/pkg/config"
	"github.com/bturcanu/activecampaign-mcp/pkg/nango"
	"github.com/bturcanu/activecampaign-mcp/pkg/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *tools.Registry {
	resolver := nango.NewResolver(config.NangoConfig{})
	return tools.NewRegistry(activecampaign.NewClient(resolver), resolver)
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return newRouter(testRegistry(), auth.ParseKeys("desktop:sk-abc"), log)
}

func TestRouter_HealthzIsOpen(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestRouter_MCPRequiresKey(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_MCPInitializeWithKey(t *testing.T) {
	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer sk-abc")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	rr := httptest.NewRecorder()

	testRouter(t).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), tools.ServerName)
}

func TestServerFor_BindsAuthenticatedClient(t *testing.T) {
	reg := testRegistry()
	pick := serverFor(reg)

	var got *mcp.Server
	handler := auth.RequireKey(auth.ParseKeys("desktop:sk-abc"), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = pick(r)
	}))
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("X-API-Key", "sk-abc")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Same(t, reg.ServerFor("desktop"), got)
	assert.NotSame(t, reg.NewServer(), got)
}

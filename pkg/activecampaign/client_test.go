package activecampaign

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/bturcanu/activecampaign-mcp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCreds struct {
	baseURL string
	apiKey  string
	err     error
	calls   atomic.Int32
}

func (s *staticCreds) APIConfig(context.Context) (string, string, error) {
	s.calls.Add(1)
	if s.err != nil {
		return "", "", s.err
	}
	return s.baseURL, s.apiKey, nil
}

type recorded struct {
	method string
	path   string
	query  string
	header http.Header
	body   []byte
}

// newAPI starts a fake ActiveCampaign API answering every request with status
// and payload, and records the last request it saw.
func newAPI(t *testing.T, status int, payload string) (*Client, *staticCreds, *recorded, *atomic.Int32) {
	t.Helper()
	last := &recorded{}
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, _ := io.ReadAll(r.Body)
		*last = recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, header: r.Header.Clone(), body: body}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	creds := &staticCreds{baseURL: srv.URL + "/", apiKey: "ac-token"}
	return NewClient(creds), creds, last, &hits
}

func TestRequest_HeadersAndPath(t *testing.T) {
	client, _, last, _ := newAPI(t, http.StatusOK, `{"users":[]}`)

	res, err := client.Request(context.Background(), "get", "/api/3/users", nil)
	require.NoError(t, err)
	assert.False(t, res.Failed())
	assert.Equal(t, http.MethodGet, last.method)
	assert.Equal(t, "/api/3/users", last.path)
	assert.Equal(t, "ac-token", last.header.Get("Api-Token"))
	assert.Equal(t, "application/json", last.header.Get("Content-Type"))
	assert.Equal(t, "application/json", last.header.Get("Accept"))
	assert.Empty(t, last.body)
}

func TestRequest_PostSendsJSONBody(t *testing.T) {
	client, _, last, _ := newAPI(t, http.StatusCreated, `{}`)

	_, err := client.Request(context.Background(), "POST", "/api/3/notes", map[string]any{"note": map[string]any{"note": "hi"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"note":{"note":"hi"}}`, string(last.body))
}

func TestRequest_DeleteOmitsBody(t *testing.T) {
	client, _, last, _ := newAPI(t, http.StatusOK, ``)

	res, err := client.Request(context.Background(), "DELETE", "/api/3/tags/1", map[string]any{"ignored": true})
	require.NoError(t, err)
	assert.Empty(t, last.body)
	assert.JSONEq(t, `{}`, string(res.Body))
}

func TestRequest_UnsupportedMethodMakesNoCall(t *testing.T) {
	client, creds, _, hits := newAPI(t, http.StatusOK, `{}`)

	for _, m := range []string{"PATCH", "HEAD", "", "OPTIONS"} {
		_, err := client.Request(context.Background(), m, "/api/3/users", nil)
		require.Error(t, err, m)
		assert.Equal(t, types.KindConfiguration, types.KindOf(err))
	}
	assert.Zero(t, hits.Load())
	assert.Zero(t, creds.calls.Load(), "credentials must not be resolved for an unsupported verb")
}

func TestRequest_CredentialErrorPropagates(t *testing.T) {
	client, creds, _, hits := newAPI(t, http.StatusOK, `{}`)
	creds.err = types.ErrCredential("API key not found in Nango credentials")

	_, err := client.Request(context.Background(), "GET", "/api/3/users", nil)
	require.Error(t, err)
	assert.Equal(t, types.KindCredential, types.KindOf(err))
	assert.Zero(t, hits.Load())
}

func TestRequest_ResolvesCredentialsOncePerRequest(t *testing.T) {
	client, creds, _, _ := newAPI(t, http.StatusOK, `{}`)

	for i := 0; i < 2; i++ {
		_, err := client.Request(context.Background(), "GET", "/api/3/users", nil)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 2, creds.calls.Load())
}

func TestRequest_NonSuccessBecomesErrorValue(t *testing.T) {
	client, _, _, _ := newAPI(t, http.StatusNotFound, `{"message":"No Result found for Deal with id 9"}`)

	res, err := client.Request(context.Background(), "GET", "/api/3/deals/9", nil)
	require.NoError(t, err)
	require.True(t, res.Failed())
	require.NotNil(t, res.Err.StatusCode)
	assert.Equal(t, 404, *res.Err.StatusCode)
	assert.Contains(t, res.Err.Message, "404")

	var out map[string]any
	require.NoError(t, json.Unmarshal(res.JSON(), &out))
	assert.EqualValues(t, 404, out["status_code"])
	assert.NotEmpty(t, out["error"])
}

func TestRequest_ConnectionFailureHasNullStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(&staticCreds{baseURL: url, apiKey: "k"})
	res, err := client.Request(context.Background(), "GET", "/api/3/users", nil)
	require.NoError(t, err)
	require.True(t, res.Failed())
	assert.Nil(t, res.Err.StatusCode)
	assert.JSONEq(t, `null`, string(mustField(t, res.JSON(), "status_code")))
}

func TestRequest_InvalidJSONBody(t *testing.T) {
	client, _, _, _ := newAPI(t, http.StatusOK, `<html>oops</html>`)

	res, err := client.Request(context.Background(), "GET", "/api/3/users", nil)
	require.NoError(t, err)
	require.True(t, res.Failed())
	assert.Equal(t, 200, *res.Err.StatusCode)
}

func mustField(t *testing.T, raw json.RawMessage, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	v, ok := m[key]
	require.True(t, ok, "missing key %q", key)
	return v
}

package tools

import (
	"context"
	"net/http"

	"github.com/bturcanu/activecampaign-mcp/pkg/types"
)

const (
	statusOK      = "ok"
	statusSuccess = "success"
	statusError   = "error"

	probeEndpoint = "/api/3/users"
)

// HealthStatus is the result of health_check.
type HealthStatus struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ConnectionID string `json:"connection_id,omitempty"`
	Hostname     string `json:"hostname,omitempty"`
	Provider     string `json:"provider,omitempty"`

	statusCode *int
	kind       types.Kind
}

func (h HealthStatus) Failure() (string, *int) {
	if h.Status == statusError {
		return h.Message, h.statusCode
	}
	return "", nil
}

func (h HealthStatus) ErrorKind() types.Kind { return h.kind }

// ConnectionInfo is the result of get_nango_connection_info. It never carries
// the credential itself.
type ConnectionInfo struct {
	Status            string          `json:"status"`
	Message           string          `json:"message,omitempty"`
	ConnectionID      string          `json:"connection_id,omitempty"`
	Provider          string          `json:"provider,omitempty"`
	ProviderConfigKey string          `json:"provider_config_key,omitempty"`
	Hostname          string          `json:"hostname,omitempty"`
	CreatedAt         string          `json:"created_at,omitempty"`
	LastFetchedAt     string          `json:"last_fetched_at,omitempty"`
	EndUser           *map[string]any `json:"end_user,omitempty"` // nil only on error; {} when the broker has none
	HasAPIKey         *bool           `json:"has_api_key,omitempty"`
	CredentialType    string          `json:"credential_type,omitempty"`

	kind types.Kind
}

func (c ConnectionInfo) Failure() (string, *int) {
	if c.Status == statusError {
		return c.Message, nil
	}
	return "", nil
}

func (c ConnectionInfo) ErrorKind() types.Kind { return c.kind }

// HealthCheck probes the broker and then the API with a cheap read.
func (r *Registry) HealthCheck(ctx context.Context) HealthStatus {
	conn, err := r.broker.Connection(ctx)
	if err != nil {
		return healthError(err)
	}

	res, err := r.api.Request(ctx, http.MethodGet, probeEndpoint, nil)
	if err != nil {
		return healthError(err)
	}
	if res.Failed() {
		return HealthStatus{Status: statusError, Message: res.Err.Message, statusCode: res.Err.StatusCode, kind: types.KindTransport}
	}

	return HealthStatus{
		Status:       statusOK,
		Message:      "API connection successful via Nango",
		ConnectionID: conn.ConnectionID,
		Hostname:     conn.Hostname,
		Provider:     conn.Provider,
	}
}

func healthError(err error) HealthStatus {
	h := HealthStatus{Status: statusError, Message: err.Error(), kind: types.KindOf(err)}
	if code := types.StatusCodeOf(err); code != 0 {
		h.statusCode = &code
	}
	return h
}

// ConnectionInfo reports broker metadata without calling the API.
func (r *Registry) ConnectionInfo(ctx context.Context) ConnectionInfo {
	conn, err := r.broker.Connection(ctx)
	if err != nil {
		return ConnectionInfo{Status: statusError, Message: err.Error(), kind: types.KindOf(err)}
	}

	hasKey := conn.APIKey != ""
	endUser := conn.EndUser
	if endUser == nil {
		endUser = map[string]any{}
	}
	return ConnectionInfo{
		Status:            statusSuccess,
		ConnectionID:      conn.ConnectionID,
		Provider:          conn.Provider,
		ProviderConfigKey: conn.ProviderConfigKey,
		Hostname:          conn.Hostname,
		CreatedAt:         conn.CreatedAt,
		LastFetchedAt:     conn.LastFetchedAt,
		EndUser:           &endUser,
		HasAPIKey:         &hasKey,
		CredentialType:    conn.CredentialType,
	}
}

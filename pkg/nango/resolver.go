// Package nango resolves ActiveCampaign credentials through the Nango
// credential broker. Nothing is cached: every lookup asks the broker to
// refresh the upstream token.
package nango

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bturcanu/activecampaign-mcp/pkg/config"
	"github.com/bturcanu/activecampaign-mcp/pkg/types"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	maxBrokerResponseBytes = 1 << 20
	maxBrokerErrorDetail   = 256 // bytes of a failed response echoed into the error
)

var tracer = otel.Tracer("github.com/bturcanu/activecampaign-mcp/pkg/nango")

// Connection is the broker's view of one provider connection.
type Connection struct {
	ConnectionID      string         `json:"connection_id,omitempty"`
	Provider          string         `json:"provider,omitempty"`
	ProviderConfigKey string         `json:"provider_config_key,omitempty"`
	Hostname          string         `json:"hostname,omitempty"`
	APIKey            string         `json:"-"`
	CredentialType    string         `json:"credential_type,omitempty"`
	CreatedAt         string         `json:"created_at,omitempty"`
	LastFetchedAt     string         `json:"last_fetched_at,omitempty"`
	EndUser           map[string]any `json:"end_user,omitempty"`
}

// Resolver calls the broker's connection endpoint.
type Resolver struct {
	cfg        config.NangoConfig
	httpClient *http.Client
}

// NewResolver creates a resolver for the configured connection.
func NewResolver(cfg config.NangoConfig) *Resolver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Resolver{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Connection fetches the connection record, forcing a token refresh.
// Missing configuration fails before any request is made.
func (r *Resolver) Connection(ctx context.Context) (*Connection, error) {
	if missing := r.cfg.Missing(); len(missing) > 0 {
		return nil, types.ErrConfiguration("missing required Nango environment variables: " + strings.Join(missing, ", "))
	}

	ctx, span := tracer.Start(ctx, "nango.connection")
	defer span.End()
	span.SetAttributes(attribute.String("nango.provider_config_key", r.cfg.IntegrationID))

	endpoint := strings.TrimRight(r.cfg.BaseURL, "/") + "/connection/" + url.PathEscape(r.cfg.ConnectionID)
	q := url.Values{}
	q.Set("provider_config_key", r.cfg.IntegrationID)
	q.Set("refresh_token", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, types.ErrConfiguration(fmt.Sprintf("nango new request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+r.cfg.SecretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "request failed")
		return nil, types.ErrTransport("nango request", 0, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBrokerResponseBytes))
	if err != nil {
		return nil, types.ErrTransport("nango read response", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, resp.Status)
		detail := types.Truncate(strings.TrimSpace(string(body)), maxBrokerErrorDetail)
		return nil, types.ErrTransport(fmt.Sprintf("nango returned %d: %s", resp.StatusCode, detail), resp.StatusCode, nil)
	}
	if !gjson.ValidBytes(body) {
		return nil, types.ErrCredential("nango returned a non-JSON body")
	}

	return parseConnection(body), nil
}

// APIConfig returns the ActiveCampaign base URL and API token.
func (r *Resolver) APIConfig(ctx context.Context) (baseURL, apiKey string, err error) {
	conn, err := r.Connection(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to get ActiveCampaign config from Nango: %w", err)
	}
	if conn.APIKey == "" {
		return "", "", types.ErrCredential("API key not found in Nango credentials")
	}
	if conn.Hostname == "" {
		return "", "", types.ErrCredential("hostname not found in Nango connection config")
	}
	return "https://" + conn.Hostname, conn.APIKey, nil
}

func parseConnection(body []byte) *Connection {
	doc := gjson.ParseBytes(body)
	conn := &Connection{
		ConnectionID:      doc.Get("connection_id").String(),
		Provider:          doc.Get("provider").String(),
		ProviderConfigKey: doc.Get("provider_config_key").String(),
		Hostname:          strings.TrimSpace(doc.Get("connection_config.hostname").String()),
		APIKey:            doc.Get("credentials.apiKey").String(),
		CredentialType:    doc.Get("credentials.type").String(),
		CreatedAt:         doc.Get("created_at").String(),
		LastFetchedAt:     doc.Get("last_fetched_at").String(),
		EndUser:           map[string]any{},
	}
	if eu, ok := doc.Get("end_user").Value().(map[string]any); ok {
		conn.EndUser = eu
	}
	return conn
}
